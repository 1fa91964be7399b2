package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/core/id"
	"clinova/internal/domain/documents/rendezvous"
	"clinova/internal/infrastructure/storage/postgres"
)

const rendezVousTable = "doc_rendez_vous"

// RendezVousRepo implements rendezvous.Repository.
type RendezVousRepo struct {
	*BaseDocumentRepo[*rendezvous.RendezVous]
}

// NewRendezVousRepo creates a new appointment repository.
func NewRendezVousRepo(txManager *postgres.TxManager) *RendezVousRepo {
	return &RendezVousRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*rendezvous.RendezVous](
			txManager,
			rendezVousTable,
			postgres.ExtractDBColumns[rendezvous.RendezVous](),
			func() *rendezvous.RendezVous { return &rendezvous.RendezVous{} },
		),
	}
}

var _ rendezvous.Repository = (*RendezVousRepo)(nil)

// Delete removes the appointment permanently.
func (r *RendezVousRepo) Delete(ctx context.Context, rdvID id.ID) error {
	return r.HardDelete(ctx, rdvID)
}

// List retrieves appointments matching the filter.
func (r *RendezVousRepo) List(ctx context.Context, filter rendezvous.ListFilter) ([]rendezvous.RendezVous, int, error) {
	q := r.baseSelect()

	if filter.PatientCIN != "" {
		q = q.Where(squirrel.Eq{"patient_cin": filter.PatientCIN})
	}
	if filter.EmployeeID != nil {
		q = q.Where(squirrel.Eq{"employee_id": *filter.EmployeeID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Day != nil {
		from, to := dayBounds(*filter.Day)
		q = q.Where(squirrel.GtOrEq{"start_time": from}).
			Where(squirrel.Lt{"start_time": to})
	}

	total, err := r.count(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	q = q.OrderBy("start_time")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var rdvs []rendezvous.RendezVous
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rdvs, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list rendez-vous: %w", err)
	}

	return rdvs, total, nil
}

// ListForDay returns appointments starting on the given calendar day,
// optionally narrowed to one practitioner.
func (r *RendezVousRepo) ListForDay(ctx context.Context, day time.Time, employeeID *id.ID) ([]rendezvous.RendezVous, error) {
	from, to := dayBounds(day)
	q := r.baseSelect().
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time")

	if employeeID != nil {
		q = q.Where(squirrel.Eq{"employee_id": *employeeID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rdvs []rendezvous.RendezVous
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rdvs, sql, args...); err != nil {
		return nil, fmt.Errorf("list day rendez-vous: %w", err)
	}

	return rdvs, nil
}

// LatestByPatient returns the most recent appointment for a patient.
func (r *RendezVousRepo) LatestByPatient(ctx context.Context, patientCIN string) (*rendezvous.RendezVous, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"patient_cin": patientCIN}).
		OrderBy("start_time DESC").
		Limit(1)

	return r.getOne(ctx, q, patientCIN)
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}
