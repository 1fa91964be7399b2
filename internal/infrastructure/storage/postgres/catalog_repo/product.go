package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/product"
	"clinova/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

// FindByName retrieves a product by exact name.
func (r *ProductRepo) FindByName(ctx context.Context, name string) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("product", name)
		}
		return nil, err
	}
	return item, nil
}

// FindLowStock retrieves products with stock at or below their alert threshold.
func (r *ProductRepo) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Expr("seuil_alerte > 0 AND quantite_stock <= seuil_alerte")).
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

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("find low stock: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}

// AdjustStock applies a signed quantity delta to the stored quantity.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta types.Quantity) error {
	q := r.Builder().
		Update(productTable).
		Set("quantite_stock", squirrel.Expr("quantite_stock + ?", delta.Int64())).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build adjust stock: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}

// SetStock overwrites the stored quantity.
func (r *ProductRepo) SetStock(ctx context.Context, productID id.ID, quantity types.Quantity) error {
	q := r.Builder().
		Update(productTable).
		Set("quantite_stock", quantity.Int64()).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set stock: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID.String())
	}

	return nil
}
