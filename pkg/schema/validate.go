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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// RegisterValidation adds a custom validate tag usable by every sub-schema.
// It must be called during setup, before any request is served.
func RegisterValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

func validateStruct(v any) []Issue {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return lo.Map(fieldErrs, func(fe validator.FieldError, _ int) Issue {
			return Issue{
				Path:    splitNamespace(fe.Namespace()),
				Message: issueMessage(fe),
				Code:    fe.Tag(),
			}
		})
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return []Issue{{Message: invalid.Error(), Code: CodeInvalidType}}
	}
	return []Issue{{Message: err.Error(), Code: CodeInvalidType}}
}

// splitNamespace turns "CreateExampleBody.items[0].name" into
// ["items", "0", "name"], dropping the root type name.
func splitNamespace(ns string) []string {
	segments := strings.Split(ns, ".")
	if len(segments) > 0 {
		segments = segments[1:]
	}

	path := make([]string, 0, len(segments))
	for _, seg := range segments {
		for seg != "" {
			open := strings.IndexByte(seg, '[')
			if open < 0 {
				path = append(path, seg)
				break
			}
			if open > 0 {
				path = append(path, seg[:open])
			}
			end := strings.IndexByte(seg[open:], ']')
			if end < 0 {
				path = append(path, seg[open:])
				break
			}
			path = append(path, seg[open+1:open+end])
			seg = seg[open+end+1:]
		}
	}
	return path
}

func issueMessage(fe validator.FieldError) string {
	sized := fe.Kind() == reflect.String ||
		fe.Kind() == reflect.Slice ||
		fe.Kind() == reflect.Map ||
		fe.Kind() == reflect.Array

	unit := "element(s)"
	if fe.Kind() == reflect.String {
		unit = "character(s)"
	}

	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "Required"
	case "uuid", "uuid3", "uuid4", "uuid5", "uuid7", "uuid_rfc4122":
		return "Invalid UUID"
	case "oneof":
		options := lo.Map(strings.Fields(fe.Param()), func(o string, _ int) string {
			return "'" + o + "'"
		})
		return fmt.Sprintf("Invalid enum value. Expected %s", strings.Join(options, " | "))
	case "min":
		if sized {
			return fmt.Sprintf("Must contain at least %s %s", fe.Param(), unit)
		}
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "max":
		if sized {
			return fmt.Sprintf("Must contain at most %s %s", fe.Param(), unit)
		}
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must contain exactly %s %s", fe.Param(), unit)
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "numeric", "number":
		return "Expected a numeric string"
	case "email":
		return "Invalid email"
	case "url", "http_url":
		return "Invalid url"
	case "notblank":
		return "Must not be blank"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}
