/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
)

const (
	CodeInvalidType = "invalid_type"
	CodeInvalidJSON = "invalid_json"
)

type decoding int

const (
	decodeForm decoding = iota
	decodeJSON
)

// Object is a sub-schema over the struct type T. Map inputs are decoded
// through the struct's form-style tag with string coercion, byte inputs are
// decoded as JSON. The decoded value is then checked against its validate
// tags.
type Object[T any] struct {
	decoding decoding
	tag      string
}

// Query builds a sub-schema decoding query values through `form` tags.
func Query[T any]() *Object[T] {
	return &Object[T]{decoding: decodeForm, tag: "form"}
}

// Params builds a sub-schema decoding path parameters through `uri` tags.
func Params[T any]() *Object[T] {
	return &Object[T]{decoding: decodeForm, tag: "uri"}
}

// Body builds a sub-schema decoding a JSON payload through `json` tags.
func Body[T any]() *Object[T] {
	return &Object[T]{decoding: decodeJSON, tag: "json"}
}

func (o *Object[T]) Parse(raw any) (any, []Issue) {
	out := new(T)

	var issues []Issue
	switch v := raw.(type) {
	case nil:
	case *T:
		if v != nil {
			*out = *v
		}
	case T:
		*out = v
	case url.Values:
		issues = o.decodeValues(out, v)
	case map[string][]string:
		issues = o.decodeValues(out, v)
	case map[string]string:
		values := make(map[string][]string, len(v))
		for k, s := range v {
			values[k] = []string{s}
		}
		issues = o.decodeValues(out, values)
	case json.RawMessage:
		issues = o.decodeBytes(out, v)
	case []byte:
		issues = o.decodeBytes(out, v)
	case string:
		issues = o.decodeBytes(out, []byte(v))
	default:
		issues = []Issue{{
			Message: fmt.Sprintf("Unsupported input of type %T", raw),
			Code:    CodeInvalidType,
		}}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	if issues := validateStruct(out); len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (o *Object[T]) decodeValues(out *T, values map[string][]string) []Issue {
	if o.decoding == decodeJSON {
		payload := make(map[string]any, len(values))
		for k, v := range values {
			if len(v) > 0 {
				payload[k] = v[0]
			}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return []Issue{{Message: err.Error(), Code: CodeInvalidType}}
		}
		return o.decodeBytes(out, data)
	}

	if err := binding.MapFormWithTag(out, values, o.tag); err == nil {
		return nil
	}

	// gin does not say which key failed, so map each key on its own to find
	// the offending ones.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var issues []Issue
	for _, k := range keys {
		probe := new(T)
		if err := binding.MapFormWithTag(probe, map[string][]string{k: values[k]}, o.tag); err != nil {
			received := ""
			if len(values[k]) > 0 {
				received = values[k][0]
			}
			issues = append(issues, Issue{
				Path:    []string{k},
				Message: fmt.Sprintf("Invalid value %q", received),
				Code:    CodeInvalidType,
			})
		}
	}
	if len(issues) == 0 {
		issues = []Issue{{Message: "Invalid input", Code: CodeInvalidType}}
	}
	return issues
}

func (o *Object[T]) decodeBytes(out *T, data []byte) []Issue {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			var path []string
			if typeErr.Field != "" {
				path = strings.Split(typeErr.Field, ".")
			}
			return []Issue{{
				Path:    path,
				Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type.String(), typeErr.Value),
				Code:    CodeInvalidType,
			}}
		}
		return []Issue{{
			Message: "Malformed JSON",
			Code:    CodeInvalidJSON,
		}}
	}
	return nil
}
