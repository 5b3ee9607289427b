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

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/models"
	"github.com/masteryyh/scaffold/pkg/utils/pagination"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var sortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

type ExampleService struct {
	db *gorm.DB
}

func NewExampleService(db *gorm.DB) *ExampleService {
	return &ExampleService{db: db}
}

func (s *ExampleService) ListExamples(ctx context.Context) ([]models.ExampleDto, error) {
	examples, err := gorm.G[models.Example](s.db).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list examples", "error", err)
		return nil, err
	}

	return lo.Map(examples, func(e models.Example, _ int) models.ExampleDto {
		return *e.ToDto()
	}), nil
}

// ListExamplesPaginated honours sortBy "name" and "createdAt"; anything else
// orders by creation time, newest first.
func (s *ExampleService) ListExamplesPaginated(ctx context.Context, opts pagination.Options) (*pagination.PagedResponse[models.ExampleDto], error) {
	total, err := gorm.G[models.Example](s.db).Count(ctx, "id")
	if err != nil {
		slog.ErrorContext(ctx, "failed to count examples", "error", err)
		return nil, err
	}

	order := clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}
	if column, ok := sortColumns[opts.SortBy]; ok {
		order = clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   opts.SortOrder == pagination.OrderTypeDescending,
		}
	}

	examples, err := gorm.G[models.Example](s.db).
		Order(order).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list examples", "error", err)
		return nil, err
	}

	dtos := lo.Map(examples, func(e models.Example, _ int) models.ExampleDto {
		return *e.ToDto()
	})
	return pagination.NewPagedResponse(dtos, total, opts), nil
}

func (s *ExampleService) GetExample(ctx context.Context, id uuid.UUID) (*models.ExampleDto, error) {
	example, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return example.ToDto(), nil
}

func (s *ExampleService) CreateExample(ctx context.Context, dto *models.CreateExampleDto) (*models.ExampleDto, error) {
	example := &models.Example{
		Name: dto.Name,
	}

	if err := gorm.G[models.Example](s.db).Create(ctx, example); err != nil {
		slog.ErrorContext(ctx, "failed to create example", "error", err)
		return nil, err
	}
	return example.ToDto(), nil
}

func (s *ExampleService) UpdateExample(ctx context.Context, id uuid.UUID, dto *models.UpdateExampleDto) (*models.ExampleDto, error) {
	example, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := gorm.G[models.Example](s.db).
		Where("id = ?", id).
		Update(ctx, "name", dto.Name); err != nil {
		slog.ErrorContext(ctx, "failed to update example", "error", err, "example_id", id)
		return nil, err
	}

	example.Name = dto.Name
	return example.ToDto(), nil
}

func (s *ExampleService) DeleteExample(ctx context.Context, id uuid.UUID) error {
	rows, err := gorm.G[models.Example](s.db).
		Where("id = ?", id).
		Delete(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete example", "error", err, "example_id", id)
		return err
	}
	if rows == 0 {
		return customerrors.NotFound("Example not found")
	}
	return nil
}

func (s *ExampleService) find(ctx context.Context, id uuid.UUID) (*models.Example, error) {
	example, err := gorm.G[models.Example](s.db).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.NotFound("Example not found")
		}
		slog.ErrorContext(ctx, "failed to find example", "error", err, "example_id", id)
		return nil, err
	}
	return &example, nil
}
