package repository

import (
	"context"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
)

// CategoryRepository reads the static category reference data.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	store *persistence.Postgres
}

// NewCategoryRepository instantiates the repository.
func NewCategoryRepository(store *persistence.Postgres) CategoryRepository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]domain.Category, error) {
	const query = `
        SELECT category_id, category_name, description, is_active, created_at
        FROM categories
        WHERE is_active
        ORDER BY category_name`
	rows, err := r.store.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.IsActive,
			&category.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
