package routes

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/masteryyh/scaffold/pkg/models"
	"github.com/masteryyh/scaffold/pkg/schema"
	"github.com/masteryyh/scaffold/pkg/utils/pagination"
)

const (
	schemaExampleGetOne    = "examples.getOne"
	schemaExampleCreate    = "examples.create"
	schemaExampleUpdate    = "examples.update"
	schemaExampleDelete    = "examples.delete"
	schemaExamplePaginated = "examples.paginated"
)

var validationsOnce sync.Once

func registerValidations() error {
	var err error
	validationsOnce.Do(func() {
		err = schema.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return err
}

func newSchemaRegistry() *schema.Registry {
	registry := schema.NewRegistry()
	registry.MustRegister(schemaExampleGetOne, schema.Schema{
		Params: schema.Params[models.ExampleIDParams](),
	})
	registry.MustRegister(schemaExampleCreate, schema.Schema{
		Body: schema.Body[models.CreateExampleDto](),
	})
	registry.MustRegister(schemaExampleUpdate, schema.Schema{
		Params: schema.Params[models.ExampleIDParams](),
		Body:   schema.Body[models.UpdateExampleDto](),
	})
	registry.MustRegister(schemaExampleDelete, schema.Schema{
		Params: schema.Params[models.ExampleIDParams](),
	})
	registry.MustRegister(schemaExamplePaginated, pagination.QuerySchema)
	return registry
}
