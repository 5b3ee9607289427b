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

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/binding"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/masteryyh/scaffold/pkg/utils/response"
)

// ValidateRequest validates params, query and body against s in that order
// and aborts with a *schema.Error at the first failing part. Parsed values
// are stored on the context; the request itself is left untouched.
func ValidateRequest(s schema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Validate(c, s) {
			return
		}
		c.Next()
	}
}

// Validate is ValidateRequest without continuing the chain, for middleware
// that has more work to do after validation. It reports false once the
// request has been aborted.
func Validate(c *gin.Context, s schema.Schema) bool {
	for _, part := range schema.Parts {
		sub := s.Sub(part)
		if sub == nil {
			continue
		}

		raw, err := rawPart(c, part)
		if err != nil {
			response.Failed(c, err)
			return false
		}

		parsed, issues := sub.Parse(raw)
		if len(issues) > 0 {
			response.Failed(c, &schema.Error{Part: part, Issues: issues})
			return false
		}
		schema.SetValidated(c, part, parsed)
	}
	return true
}

func rawPart(c *gin.Context, part schema.Part) (any, error) {
	switch part {
	case schema.PartParams:
		return binding.PathParams(c), nil
	case schema.PartQuery:
		return c.Request.URL.Query(), nil
	case schema.PartBody:
		return binding.ReadBody(c)
	}
	return nil, nil
}
