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
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/masteryyh/scaffold/pkg/config"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/utils/response"
)

const ClaimsKey = "auth.claims"

// Auth guards a route group with basic credentials or an HS256 bearer token
// depending on cfg.Mode. Token parse failures are passed on as they are and
// mapped to 401 by the error handler.
func Auth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled() {
			c.Next()
			return
		}

		switch cfg.Mode {
		case config.AuthModeBasic:
			basicAuth(c, cfg)
		case config.AuthModeJWT:
			bearerAuth(c, cfg)
		default:
			response.Failed(c, customerrors.InternalServer("unsupported auth mode: "+string(cfg.Mode)))
		}
	}
}

func basicAuth(c *gin.Context, cfg *config.AuthConfig) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
		response.Failed(c, customerrors.Unauthorized("Authorization required"))
		return
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
	passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1

	if !usernameMatch || !passwordMatch {
		c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
		response.Failed(c, customerrors.Unauthorized("Invalid username or password"))
		return
	}

	c.Next()
}

func bearerAuth(c *gin.Context, cfg *config.AuthConfig) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		c.Header("WWW-Authenticate", `Bearer`)
		response.Failed(c, customerrors.Unauthorized("Authorization required"))
		return
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		response.Failed(c, err)
		return
	}

	c.Set(ClaimsKey, claims)
	c.Next()
}
