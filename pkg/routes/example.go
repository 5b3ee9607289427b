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
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/masteryyh/scaffold/pkg/binding"
	"github.com/masteryyh/scaffold/pkg/config"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/middleware"
	"github.com/masteryyh/scaffold/pkg/models"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/masteryyh/scaffold/pkg/utils/pagination"
	"github.com/masteryyh/scaffold/pkg/utils/response"
)

// ExampleStore is what the example routes need from the service layer.
type ExampleStore interface {
	ListExamples(ctx context.Context) ([]models.ExampleDto, error)
	ListExamplesPaginated(ctx context.Context, opts pagination.Options) (*pagination.PagedResponse[models.ExampleDto], error)
	GetExample(ctx context.Context, id uuid.UUID) (*models.ExampleDto, error)
	CreateExample(ctx context.Context, dto *models.CreateExampleDto) (*models.ExampleDto, error)
	UpdateExample(ctx context.Context, id uuid.UUID, dto *models.UpdateExampleDto) (*models.ExampleDto, error)
	DeleteExample(ctx context.Context, id uuid.UUID) error
}

type ExampleRoutes struct {
	service    ExampleStore
	schemas    *schema.Registry
	binder     *binding.Binder
	pagination *config.PaginationConfig
	auth       *config.AuthConfig
}

func NewExampleRoutes(service ExampleStore, schemas *schema.Registry, paging *config.PaginationConfig, auth *config.AuthConfig) *ExampleRoutes {
	binder := binding.New()
	binder.Body(schemaExampleCreate, 0)
	binder.Params(schemaExampleUpdate, 0).Body(schemaExampleUpdate, 1)
	binder.Params(schemaExampleDelete, 0)

	return &ExampleRoutes{
		service:    service,
		schemas:    schemas,
		binder:     binder,
		pagination: paging,
		auth:       auth,
	}
}

func (r *ExampleRoutes) RegisterRoutes(router *gin.RouterGroup) {
	paginate := pagination.Middleware(r.pagination.DefaultLimit, r.pagination.MaxLimit)
	guard := middleware.Auth(r.auth)

	exampleGroup := router.Group("/examples")
	{
		exampleGroup.GET("", r.ListExamples)
		exampleGroup.GET("/paginated", paginate, pagination.Ensure(), r.ListExamplesPaginated)
		exampleGroup.POST("/paginated", paginate, pagination.Ensure(), r.ListExamplesPaginated)
		exampleGroup.GET("/:id", middleware.ValidateRequest(r.schemas.MustGet(schemaExampleGetOne)), r.GetExample)

		exampleGroup.POST("", guard, r.binder.HandleCreated(schemaExampleCreate, r.createExample,
			binding.ValidateBody(r.schemas.MustGet(schemaExampleCreate))))
		exampleGroup.PUT("/:id", guard, r.binder.Handle(schemaExampleUpdate, r.updateExample,
			binding.Validate(r.schemas.MustGet(schemaExampleUpdate), schema.PartParams, schema.PartBody)))
		exampleGroup.DELETE("/:id", guard, r.binder.HandleNoContent(schemaExampleDelete, r.deleteExample,
			binding.ValidateParams(r.schemas.MustGet(schemaExampleDelete))))
	}
}

func (r *ExampleRoutes) ListExamples(c *gin.Context) {
	examples, err := r.service.ListExamples(c.Request.Context())
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, examples)
}

func (r *ExampleRoutes) ListExamplesPaginated(c *gin.Context) {
	opts := pagination.MustFromContext(c)

	examples, err := r.service.ListExamplesPaginated(c.Request.Context(), opts)
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, examples)
}

func (r *ExampleRoutes) GetExample(c *gin.Context) {
	params, ok := schema.Validated[models.ExampleIDParams](c, schema.PartParams)
	if !ok {
		response.Failed(c, customerrors.InternalServer("validated params missing"))
		return
	}

	example, err := r.service.GetExample(c.Request.Context(), params.UUID())
	if err != nil {
		response.Failed(c, err)
		return
	}
	response.OK(c, example)
}

func (r *ExampleRoutes) createExample(c *gin.Context, args []any) (any, error) {
	dto, ok := binding.Arg[*models.CreateExampleDto](args, 0)
	if !ok {
		return nil, customerrors.MissingParameter(string(schema.PartBody))
	}
	return r.service.CreateExample(c.Request.Context(), dto)
}

func (r *ExampleRoutes) updateExample(c *gin.Context, args []any) (any, error) {
	params, ok := binding.Arg[*models.ExampleIDParams](args, 0)
	if !ok {
		return nil, customerrors.MissingParameter(string(schema.PartParams))
	}
	dto, ok := binding.Arg[*models.UpdateExampleDto](args, 1)
	if !ok {
		return nil, customerrors.MissingParameter(string(schema.PartBody))
	}
	return r.service.UpdateExample(c.Request.Context(), params.UUID(), dto)
}

func (r *ExampleRoutes) deleteExample(c *gin.Context, args []any) (any, error) {
	params, ok := binding.Arg[*models.ExampleIDParams](args, 0)
	if !ok {
		return nil, customerrors.MissingParameter(string(schema.PartParams))
	}
	return nil, r.service.DeleteExample(c.Request.Context(), params.UUID())
}
