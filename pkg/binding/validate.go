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

package binding

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/schema"
)

// Validate checks the arguments bound to roles against the matching
// sub-schemas of s. Issues from every role are collected into a single
// FieldErrors before failing. On success each validated argument is replaced
// by its parsed value.
func Validate(s schema.Schema, roles ...schema.Part) Decorator {
	return func(b *Binder, name string, next Handler) Handler {
		return func(c *gin.Context, args []any) (any, error) {
			fields := customerrors.FieldErrors{}
			parsed := make(map[int]any, len(roles))

			for _, role := range roles {
				idx, ok := b.Index(name, role)
				if !ok || idx >= len(args) {
					return nil, customerrors.MissingParameter(string(role))
				}

				sub := s.Sub(role)
				if sub == nil {
					continue
				}

				value, issues := sub.Parse(args[idx])
				if len(issues) > 0 {
					for _, issue := range issues {
						key := strings.Join(issue.Path, ",")
						if key == "" {
							key = string(role)
						}
						fields[key] = customerrors.FieldError{
							Message: issue.Message,
							Value:   issue.Code,
						}
					}
					continue
				}
				parsed[idx] = value
			}

			if len(fields) > 0 {
				return nil, customerrors.NewValidateError(fields, "")
			}

			for idx, value := range parsed {
				args[idx] = value
			}
			return next(c, args)
		}
	}
}

func ValidateBody(s schema.Schema) Decorator {
	return Validate(s, schema.PartBody)
}

func ValidateQuery(s schema.Schema) Decorator {
	return Validate(s, schema.PartQuery)
}

func ValidateParams(s schema.Schema) Decorator {
	return Validate(s, schema.PartParams)
}

// Arg returns the argument at index as T.
func Arg[T any](args []any, index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(args) {
		return zero, false
	}
	v, ok := args[index].(T)
	return v, ok
}
