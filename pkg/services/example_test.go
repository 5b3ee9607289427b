package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masteryyh/scaffold/pkg/customerrors"
	"github.com/masteryyh/scaffold/pkg/models"
	"github.com/masteryyh/scaffold/pkg/testdb"
	"github.com/masteryyh/scaffold/pkg/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedExamples(t *testing.T, db *gorm.DB, names ...string) []models.Example {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	examples := make([]models.Example, 0, len(names))
	for i, name := range names {
		e := models.Example{Name: name, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, gorm.G[models.Example](db).Create(context.Background(), &e))
		examples = append(examples, e)
	}
	return examples
}

func names(dtos []models.ExampleDto) []string {
	out := make([]string, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.Name)
	}
	return out
}

func TestExampleServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewExampleService(testdb.Open(t))

	created, err := svc.CreateExample(ctx, &models.CreateExampleDto{Name: "first"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, byte(7), created.ID[6]>>4)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetExample(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	updated, err := svc.UpdateExample(ctx, created.ID, &models.UpdateExampleDto{Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	all, err := svc.ListExamples(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"renamed"}, names(all))

	require.NoError(t, svc.DeleteExample(ctx, created.ID))
	_, err = svc.GetExample(ctx, created.ID)
	appErr := customerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, customerrors.KindNotFound, appErr.Kind)
	assert.Equal(t, "Example not found", appErr.Message)
}

func TestExampleServiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewExampleService(testdb.Open(t))
	missing := uuid.Must(uuid.NewV7())

	_, err := svc.GetExample(ctx, missing)
	assert.Equal(t, customerrors.KindNotFound, customerrors.As(err).Kind)

	_, err = svc.UpdateExample(ctx, missing, &models.UpdateExampleDto{Name: "x"})
	assert.Equal(t, customerrors.KindNotFound, customerrors.As(err).Kind)

	err = svc.DeleteExample(ctx, missing)
	assert.Equal(t, customerrors.KindNotFound, customerrors.As(err).Kind)
}

func TestExampleServicePaginated(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	svc := NewExampleService(db)
	seedExamples(t, db, "charlie", "alpha", "echo", "bravo", "delta")

	tests := []struct {
		name      string
		opts      pagination.Options
		wantNames []string
		wantPages int
		wantNext  bool
	}{
		{
			name:      "by name ascending",
			opts:      pagination.Derive(pagination.Query{SortBy: "name", Limit: "2"}, 10, 100),
			wantNames: []string{"alpha", "bravo"},
			wantPages: 3,
			wantNext:  true,
		},
		{
			name:      "by name descending second page",
			opts:      pagination.Derive(pagination.Query{SortBy: "name", SortOrder: "desc", Page: "2", Limit: "2"}, 10, 100),
			wantNames: []string{"charlie", "bravo"},
			wantPages: 3,
			wantNext:  true,
		},
		{
			name:      "by createdAt ascending",
			opts:      pagination.Derive(pagination.Query{Limit: "3"}, 10, 100),
			wantNames: []string{"charlie", "alpha", "echo"},
			wantPages: 2,
			wantNext:  true,
		},
		{
			name:      "unknown sort column falls back to newest first",
			opts:      pagination.Derive(pagination.Query{SortBy: "popularity", SortOrder: "asc", Limit: "2"}, 10, 100),
			wantNames: []string{"delta", "bravo"},
			wantPages: 3,
			wantNext:  true,
		},
		{
			name:      "past the end",
			opts:      pagination.Derive(pagination.Query{Page: "9", Limit: "2"}, 10, 100),
			wantNames: []string{},
			wantPages: 3,
			wantNext:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ListExamplesPaginated(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, names(resp.Data))
			assert.Equal(t, int64(5), resp.Pagination.Total)
			assert.Equal(t, tt.wantPages, resp.Pagination.TotalPages)
			assert.Equal(t, tt.wantNext, resp.Pagination.HasNext)
			assert.Equal(t, tt.opts.Page > 1, resp.Pagination.HasPrev)
		})
	}
}
