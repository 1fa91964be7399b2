package rendezvous

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	byID map[id.ID]*RendezVous
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[id.ID]*RendezVous)}
}

func (m *memRepo) Create(ctx context.Context, r *RendezVous) error {
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, rdvID id.ID) (*RendezVous, error) {
	r, ok := m.byID[rdvID]
	if !ok {
		return nil, apperror.NewNotFound("rendezvous", rdvID.String())
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, rdvID id.ID) (*RendezVous, error) {
	return m.GetByID(ctx, rdvID)
}

func (m *memRepo) Update(ctx context.Context, r *RendezVous) error {
	if _, ok := m.byID[r.ID]; !ok {
		return apperror.NewNotFound("rendezvous", r.ID.String())
	}
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memRepo) Delete(ctx context.Context, rdvID id.ID) error {
	delete(m.byID, rdvID)
	return nil
}

func (m *memRepo) List(ctx context.Context, filter ListFilter) ([]RendezVous, int, error) {
	var out []RendezVous
	for _, r := range m.byID {
		if filter.PatientCIN != "" && r.PatientCIN != filter.PatientCIN {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *memRepo) ListForDay(ctx context.Context, dayStart time.Time, employeeID *id.ID) ([]RendezVous, error) {
	y, mo, d := dayStart.Date()
	var out []RendezVous
	for _, r := range m.byID {
		ry, rmo, rd := r.StartTime.Date()
		if ry != y || rmo != mo || rd != d {
			continue
		}
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *memRepo) LatestByPatient(ctx context.Context, patientCIN string) (*RendezVous, error) {
	var latest *RendezVous
	for _, r := range m.byID {
		if r.PatientCIN != patientCIN {
			continue
		}
		if latest == nil || r.StartTime.After(latest.StartTime) {
			latest = r
		}
	}
	if latest == nil {
		return nil, apperror.NewNotFound("rendezvous", patientCIN)
	}
	cp := *latest
	return &cp, nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, nil, fakeTxManager{}), repo
}

func TestCreate_RejectsDoubleBooking(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	employee := id.New()

	first := NewRendezVous("AB123456", employee, day(10, 0), 30)
	first.Number = "RDV-2026-00001"
	require.NoError(t, svc.Create(ctx, first))

	overlapping := NewRendezVous("CD654321", employee, day(10, 15), 30)
	overlapping.Number = "RDV-2026-00002"
	err := svc.Create(ctx, overlapping)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSlotUnavailable, appErr.Code)
}

func TestCreate_OtherEmployeeSameSlot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first := NewRendezVous("AB123456", id.New(), day(10, 0), 30)
	first.Number = "RDV-2026-00001"
	require.NoError(t, svc.Create(ctx, first))

	other := NewRendezVous("CD654321", id.New(), day(10, 0), 30)
	other.Number = "RDV-2026-00002"
	assert.NoError(t, svc.Create(ctx, other))
}

func TestCreate_CancelledDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	employee := id.New()

	cancelled := NewRendezVous("AB123456", employee, day(10, 0), 30)
	cancelled.Number = "RDV-2026-00001"
	cancelled.Status = StatusAnnule
	require.NoError(t, svc.Create(ctx, cancelled))

	rebooked := NewRendezVous("CD654321", employee, day(10, 0), 30)
	rebooked.Number = "RDV-2026-00002"
	assert.NoError(t, svc.Create(ctx, rebooked))
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	rdv := NewRendezVous("AB123456", id.New(), day(11, 0), 30)
	rdv.Number = "RDV-2026-00001"
	require.NoError(t, svc.Create(ctx, rdv))

	updated, err := svc.SetStatus(ctx, rdv.ID, StatusConfirme)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirme, updated.Status)
	assert.Equal(t, StatusConfirme, repo.byID[rdv.ID].Status)
}

func TestAvailableSlots_Service(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	employee := id.New()

	rdv := NewRendezVous("AB123456", employee, day(9, 0), 60)
	rdv.Number = "RDV-2026-00001"
	require.NoError(t, svc.Create(ctx, rdv))

	free, err := svc.AvailableSlots(ctx, day(0, 0), &employee)
	require.NoError(t, err)
	require.Len(t, free, 16)
	assert.Equal(t, day(10, 0), free[0].Start)
}
