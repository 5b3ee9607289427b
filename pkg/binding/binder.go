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

// Package binding maps positional handler inputs to request parts. Routes
// declare at setup time which argument index receives the body, the query or
// the path params, and validation decorators look those indices up at
// invocation time.
package binding

import (
	"bytes"
	"io"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/masteryyh/scaffold/pkg/utils/response"
)

// Handler is a route action receiving its inputs positionally.
type Handler func(c *gin.Context, args []any) (any, error)

// Decorator wraps a Handler registered under name.
type Decorator func(b *Binder, name string, next Handler) Handler

type bindingKey struct {
	handler string
	role    schema.Part
}

// Binder is the registration table from (handler, role) to argument indices.
type Binder struct {
	mu    sync.RWMutex
	table map[bindingKey][]int
}

func New() *Binder {
	return &Binder{
		table: make(map[bindingKey][]int),
	}
}

// Bind records that argument index of handler receives role. Binding the same
// role again appends the index; only the first one is used.
func (b *Binder) Bind(handler string, role schema.Part, index int) *Binder {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := bindingKey{handler: handler, role: role}
	b.table[key] = append(b.table[key], index)
	return b
}

func (b *Binder) Body(handler string, index int) *Binder {
	return b.Bind(handler, schema.PartBody, index)
}

func (b *Binder) Query(handler string, index int) *Binder {
	return b.Bind(handler, schema.PartQuery, index)
}

func (b *Binder) Params(handler string, index int) *Binder {
	return b.Bind(handler, schema.PartParams, index)
}

// Index returns the first index bound to role on handler.
func (b *Binder) Index(handler string, role schema.Part) (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	indices := b.table[bindingKey{handler: handler, role: role}]
	if len(indices) == 0 {
		return 0, false
	}
	return indices[0], true
}

func (b *Binder) arity(handler string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for key, indices := range b.table {
		if key.handler != handler {
			continue
		}
		if idx := indices[0]; idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

// Arguments assembles the positional inputs of handler from the request.
// Body is passed as raw JSON bytes, query as url.Values and params as a
// multi-valued map.
func (b *Binder) Arguments(c *gin.Context, handler string) ([]any, error) {
	args := make([]any, b.arity(handler))

	for _, role := range schema.Parts {
		idx, ok := b.Index(handler, role)
		if !ok {
			continue
		}

		switch role {
		case schema.PartBody:
			raw, err := ReadBody(c)
			if err != nil {
				return nil, err
			}
			args[idx] = raw
		case schema.PartQuery:
			args[idx] = url.Values(c.Request.URL.Query())
		case schema.PartParams:
			args[idx] = PathParams(c)
		}
	}
	return args, nil
}

// Handle turns h into a gin handler. Decorators run in the order given, each
// one wrapping the rest of the chain.
func (b *Binder) Handle(name string, h Handler, decorators ...Decorator) gin.HandlerFunc {
	return b.handle(name, h, response.OK, decorators...)
}

// HandleCreated is Handle answering with 201 Created.
func (b *Binder) HandleCreated(name string, h Handler, decorators ...Decorator) gin.HandlerFunc {
	return b.handle(name, h, response.Created, decorators...)
}

// HandleNoContent is Handle answering with 204 No Content; the result is
// discarded.
func (b *Binder) HandleNoContent(name string, h Handler, decorators ...Decorator) gin.HandlerFunc {
	return b.handle(name, h, response.NoContent, decorators...)
}

func (b *Binder) handle(name string, h Handler, write func(*gin.Context, any), decorators ...Decorator) gin.HandlerFunc {
	wrapped := h
	for i := len(decorators) - 1; i >= 0; i-- {
		wrapped = decorators[i](b, name, wrapped)
	}

	return func(c *gin.Context) {
		args, err := b.Arguments(c, name)
		if err != nil {
			response.Failed(c, err)
			return
		}

		result, err := wrapped(c, args)
		if err != nil {
			response.Failed(c, err)
			return
		}
		write(c, result)
	}
}

// ReadBody drains the request body and puts an identical reader back so later
// handlers can read it again.
func ReadBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, customerrors.Wrap(customerrors.KindBadRequest, "Unable to read request body", err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}

func PathParams(c *gin.Context) map[string][]string {
	params := make(map[string][]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = []string{p.Value}
	}
	return params
}
