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
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/masteryyh/scaffold/pkg/utils/response"
	"gorm.io/gorm"
)

const TimestampFormat = "2006-01-02T15:04:05.000Z"

var persistenceErrors = []error{
	gorm.ErrRecordNotFound,
	gorm.ErrInvalidTransaction,
	gorm.ErrMissingWhereClause,
	gorm.ErrPrimaryKeyRequired,
	gorm.ErrModelValueRequired,
	gorm.ErrInvalidData,
	gorm.ErrInvalidDB,
	gorm.ErrInvalidValue,
	gorm.ErrDuplicatedKey,
	gorm.ErrForeignKeyViolated,
	sql.ErrNoRows,
	sql.ErrConnDone,
	sql.ErrTxDone,
}

var tokenErrors = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidClaims,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrSignatureInvalid,
}

// ErrorHandler is the only place that writes error responses. Handlers record
// failures with c.Error and abort; Middleware picks up the last one.
type ErrorHandler struct {
	development bool
	logger      *slog.Logger
	now         func() time.Time
}

func NewErrorHandler(development bool, logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		development: development,
		logger:      logger,
		now:         time.Now,
	}
}

func (h *ErrorHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		h.Handle(c, c.Errors.Last().Err)
	}
}

// Recovery turns a panic anywhere below it into a masked 500.
func (h *ErrorHandler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", recovered)
		}
		h.Handle(c, err)
	})
}

// Handle writes exactly one response for err.
func (h *ErrorHandler) Handle(c *gin.Context, err error) {
	if ve := customerrors.GetValidateError(err); ve != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, response.ValidationBody{
			Message: response.ValidationFailedMessage,
			Details: ve.Fields,
		})
		return
	}

	appErr := h.classify(c, err)
	if !appErr.IsOperational() {
		h.logger.ErrorContext(c.Request.Context(), "request failed with unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = appErr.Masked()
	}
	h.write(c, appErr)
}

func (h *ErrorHandler) classify(c *gin.Context, err error) *customerrors.AppError {
	var schemaErr *schema.Error
	if errors.As(err, &schemaErr) {
		return customerrors.Wrap(customerrors.KindValidation, schemaErr.Error(), err)
	}

	if appErr := customerrors.As(err); appErr != nil {
		return appErr
	}

	if isPersistenceError(err) {
		h.logger.WarnContext(c.Request.Context(), "database operation failed",
			"error", err,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		return customerrors.Wrap(customerrors.KindInternalServer, "Database operation failed", err)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return customerrors.Wrap(customerrors.KindUnauthorized, "Token expired", err)
	}
	if isTokenError(err) {
		return customerrors.Wrap(customerrors.KindUnauthorized, "Invalid token", err)
	}

	return customerrors.Wrap(customerrors.KindInternalServer, "", err)
}

func (h *ErrorHandler) write(c *gin.Context, appErr *customerrors.AppError) {
	body := response.ErrorBody{
		Error:      appErr.Kind.Name(),
		Message:    appErr.Message,
		StatusCode: appErr.StatusCode(),
		Timestamp:  h.now().UTC().Format(TimestampFormat),
		Path:       c.Request.URL.Path,
		Method:     c.Request.Method,
	}
	if h.development {
		body.Stack = appErr.Stack()
	}
	c.AbortWithStatusJSON(body.StatusCode, body)
}

func isPersistenceError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}
	for _, target := range persistenceErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isTokenError(err error) bool {
	for _, target := range tokenErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
