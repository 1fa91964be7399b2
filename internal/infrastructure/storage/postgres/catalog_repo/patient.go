package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"clinova/internal/core/apperror"
	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/infrastructure/storage/postgres"
)

const patientTable = "cat_patients"

// PatientRepo implements patient.Repository.
type PatientRepo struct {
	*BaseCatalogRepo[*patient.Patient]
}

// NewPatientRepo creates a new patient repository.
func NewPatientRepo(txManager *postgres.TxManager) *PatientRepo {
	return &PatientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			patientTable,
			postgres.ExtractDBColumns[patient.Patient](),
			func() *patient.Patient { return &patient.Patient{} },
		),
	}
}

// FindByCIN retrieves a patient by identity card number.
func (r *PatientRepo) FindByCIN(ctx context.Context, cin string) (*patient.Patient, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"cin": cin}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	item, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("patient", cin)
		}
		return nil, err
	}
	return item, nil
}
