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
	"fmt"
	"sort"
	"sync"
)

// Registry holds the named schemas of every endpoint. It is filled during
// route setup and only read afterwards.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]Schema),
	}
}

func (r *Registry) Register(name string, s Schema) error {
	if name == "" {
		return fmt.Errorf("schema name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[name]; exists {
		return fmt.Errorf("schema %q already registered", name)
	}
	r.schemas[name] = s
	return nil
}

func (r *Registry) MustRegister(name string, s Schema) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	return s, ok
}

// MustGet panics when name was never registered, which is a wiring bug.
func (r *Registry) MustGet(name string) Schema {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("schema %q is not registered", name))
	}
	return s
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
