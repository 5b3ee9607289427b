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

// Package schema holds declarative request-shape contracts. A Schema has up
// to three sub-schemas, one per request part, each of which decodes a raw
// value into a typed struct and validates it with struct tags.
package schema

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Part names a section of an incoming request.
type Part string

const (
	PartParams Part = "params"
	PartQuery  Part = "query"
	PartBody   Part = "body"
)

// Parts lists the request parts in the order they are validated.
var Parts = []Part{PartParams, PartQuery, PartBody}

func (p Part) String() string {
	return string(p)
}

// Issue is one field-level validation failure.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// SubSchema parses a raw request part. On success it returns the decoded
// value and no issues.
type SubSchema interface {
	Parse(raw any) (any, []Issue)
}

// Schema groups the sub-schemas for one endpoint. A nil sub-schema accepts
// anything for its part.
type Schema struct {
	Params SubSchema
	Query  SubSchema
	Body   SubSchema
}

func (s Schema) Sub(part Part) SubSchema {
	switch part {
	case PartParams:
		return s.Params
	case PartQuery:
		return s.Query
	case PartBody:
		return s.Body
	}
	return nil
}

// Error is a schema validation failure for one request part.
type Error struct {
	Part   Part
	Issues []Issue
}

func (e *Error) Error() string {
	return strings.Join(lo.Map(e.Issues, func(issue Issue, _ int) string {
		path := append([]string{string(e.Part)}, issue.Path...)
		return fmt.Sprintf("%s: %s", strings.Join(path, "."), issue.Message)
	}), ", ")
}

func contextKey(part Part) string {
	return "schema." + string(part)
}

// SetValidated stores the parsed value of part on the request context.
func SetValidated(c *gin.Context, part Part, value any) {
	c.Set(contextKey(part), value)
}

// Validated returns the parsed value of part stored by the validation
// middleware.
func Validated[T any](c *gin.Context, part Part) (*T, bool) {
	v, ok := c.Get(contextKey(part))
	if !ok {
		return nil, false
	}
	typed, ok := v.(*T)
	return typed, ok
}
