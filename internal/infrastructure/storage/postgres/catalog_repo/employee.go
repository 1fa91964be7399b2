package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/core/apperror"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/employee"
	"clinova/internal/infrastructure/storage/postgres"
)

const employeeTable = "cat_employees"

// EmployeeRepo implements employee.Repository.
type EmployeeRepo struct {
	*BaseCatalogRepo[*employee.Employee]
}

// NewEmployeeRepo creates a new employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) *EmployeeRepo {
	return &EmployeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			employeeTable,
			postgres.ExtractDBColumns[employee.Employee](),
			func() *employee.Employee { return &employee.Employee{} },
		),
	}
}

// FindByCIN retrieves an employee by identity card number.
func (r *EmployeeRepo) FindByCIN(ctx context.Context, cin string) (*employee.Employee, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"cin": cin}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("employee", cin)
		}
		return nil, err
	}
	return item, nil
}

// FindByRole retrieves employees with a given role.
func (r *EmployeeRepo) FindByRole(ctx context.Context, role employee.Role, filter domain.ListFilter) (domain.ListResult[*employee.Employee], error) {
	result := domain.ListResult[*employee.Employee]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"role": role}).
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

	var items []*employee.Employee
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("find by role: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}
