package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/soin"
	"clinova/internal/infrastructure/storage/postgres"
)

const soinTable = "cat_soins"

// SoinRepo implements soin.Repository.
type SoinRepo struct {
	*BaseCatalogRepo[*soin.Soin]
}

// NewSoinRepo creates a new soin repository.
func NewSoinRepo(txManager *postgres.TxManager) *SoinRepo {
	return &SoinRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			soinTable,
			postgres.ExtractDBColumns[soin.Soin](),
			func() *soin.Soin { return &soin.Soin{} },
		),
	}
}

// FindByName retrieves a soin by exact name.
func (r *SoinRepo) FindByName(ctx context.Context, name string) (*soin.Soin, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("soin", name)
		}
		return nil, err
	}
	return item, nil
}

// FindByTherapeute retrieves soins assigned to an employee.
func (r *SoinRepo) FindByTherapeute(ctx context.Context, employeeID id.ID, filter domain.ListFilter) (domain.ListResult[*soin.Soin], error) {
	result := domain.ListResult[*soin.Soin]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"therapeute_id": employeeID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var items []*soin.Soin
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("find by therapeute: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}
