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

package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/scaffold/pkg/config"
	"github.com/masteryyh/scaffold/pkg/middleware"
	"github.com/masteryyh/scaffold/pkg/services"
)

type APIRoutes struct {
	exampleRoutes *ExampleRoutes
	healthRoutes  *HealthRoutes
}

func NewAPIRoutes(examples ExampleStore, health *services.HealthService, cfg *config.AppConfig) (*APIRoutes, error) {
	if err := registerValidations(); err != nil {
		return nil, err
	}

	schemas := newSchemaRegistry()
	return &APIRoutes{
		exampleRoutes: NewExampleRoutes(examples, schemas, cfg.Pagination, cfg.Auth),
		healthRoutes:  NewHealthRoutes(health),
	}, nil
}

func (r *APIRoutes) RegisterRoutes(routerGroup *gin.RouterGroup) {
	r.exampleRoutes.RegisterRoutes(routerGroup)
	r.healthRoutes.RegisterRoutes(routerGroup)
}

// NewEngine wires the error handling and request logging around the API
// mounted at /api.
func NewEngine(cfg *config.AppConfig, logger *slog.Logger, api *APIRoutes) *gin.Engine {
	errorHandler := middleware.NewErrorHandler(cfg.Development, logger)

	engine := gin.New()
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(errorHandler.Middleware())
	engine.Use(errorHandler.Recovery())

	api.RegisterRoutes(engine.Group("/api"))
	return engine
}
