package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/middleware"
	"github.com/masteryyh/scaffold/pkg/schema"
)

const contextKey = "pagination"

const DefaultSortBy = "createdAt"

type OrderType string

const (
	OrderTypeAscending  OrderType = "asc"
	OrderTypeDescending OrderType = "desc"
)

// Query is the raw pagination input. Page and limit stay strings so that a
// non-numeric value can fall back to its default instead of failing.
type Query struct {
	Page      string `form:"page" json:"page"`
	Limit     string `form:"limit" json:"limit"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

var QuerySchema = schema.Schema{Query: schema.Query[Query]()}

// Options is the per-request pagination context.
type Options struct {
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
	SortBy    string    `json:"sortBy"`
	SortOrder OrderType `json:"sortOrder"`
}

// Derive normalizes q. Absent, non-numeric and non-positive page or limit
// values fall back to 1 and defaultLimit; limit always ends up in
// [1, maxLimit]. Page is capped so that the offset never overflows.
func Derive(q Query, defaultLimit, maxLimit int) Options {
	page := positiveOr(q.Page, 1)
	limit := positiveOr(q.Limit, defaultLimit)
	limit = max(1, min(limit, maxLimit))
	page = min(page, math.MaxInt/limit+1)

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	sortOrder := OrderTypeAscending
	if q.SortOrder == string(OrderTypeDescending) {
		sortOrder = OrderTypeDescending
	}

	return Options{
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// positiveOr parses raw as a positive int. Positive values too large for an
// int saturate to math.MaxInt instead of falling back.
func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Middleware validates the pagination query and stores the derived Options on
// the context.
func Middleware(defaultLimit, maxLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !middleware.Validate(c, QuerySchema) {
			return
		}

		q, ok := schema.Validated[Query](c, schema.PartQuery)
		if !ok {
			q = &Query{}
		}
		c.Set(contextKey, Derive(*q, defaultLimit, maxLimit))
	}
}

func FromContext(c *gin.Context) (Options, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Options{}, false
	}
	opts, ok := v.(Options)
	return opts, ok
}

// MustFromContext panics when Middleware was not installed on the route.
func MustFromContext(c *gin.Context) Options {
	opts, ok := FromContext(c)
	if !ok {
		panic(fmt.Sprintf("pagination middleware must be applied to this route: %s", c.FullPath()))
	}
	return opts
}

// Ensure is a route guard asserting that Middleware ran earlier in the chain.
func Ensure() gin.HandlerFunc {
	return func(c *gin.Context) {
		MustFromContext(c)
		c.Next()
	}
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

type PagedResponse[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

func NewMeta(total int64, opts Options) Meta {
	totalPages := 0
	if opts.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(opts.Limit)))
	}
	return Meta{
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    opts.Page < totalPages,
		HasPrev:    opts.Page > 1,
	}
}

func NewPagedResponse[T any](data []T, total int64, opts Options) *PagedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &PagedResponse[T]{
		Data:       data,
		Pagination: NewMeta(total, opts),
	}
}
