package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/domain/documents/rendezvous"
)

type memPatients struct {
	byCIN map[string]*patient.Patient
}

func (m *memPatients) Create(ctx context.Context, p *patient.Patient) error { return nil }
func (m *memPatients) Update(ctx context.Context, p *patient.Patient) error { return nil }
func (m *memPatients) Delete(ctx context.Context, pid id.ID) error          { return nil }
func (m *memPatients) SetDeletionMark(ctx context.Context, pid id.ID, marked bool) error {
	return nil
}
func (m *memPatients) Exists(ctx context.Context, pid id.ID) (bool, error) { return false, nil }
func (m *memPatients) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (m *memPatients) GetByID(ctx context.Context, pid id.ID) (*patient.Patient, error) {
	for _, p := range m.byCIN {
		if p.ID == pid {
			return p, nil
		}
	}
	return nil, apperror.NewNotFound("patient", pid.String())
}

func (m *memPatients) GetByCode(ctx context.Context, code string) (*patient.Patient, error) {
	return nil, apperror.NewNotFound("patient", code)
}

func (m *memPatients) GetForUpdate(ctx context.Context, pid id.ID) (*patient.Patient, error) {
	return m.GetByID(ctx, pid)
}

func (m *memPatients) FindByCIN(ctx context.Context, cin string) (*patient.Patient, error) {
	p, ok := m.byCIN[cin]
	if !ok {
		return nil, apperror.NewNotFound("patient", cin)
	}
	return p, nil
}

func (m *memPatients) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*patient.Patient], error) {
	result := domain.ListResult[*patient.Patient]{}
	for _, p := range m.byCIN {
		result.Items = append(result.Items, p)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeRdvReader struct {
	byCIN map[string]*rendezvous.RendezVous
}

func (f *fakeRdvReader) LatestByPatient(ctx context.Context, cin string) (*rendezvous.RendezVous, error) {
	r, ok := f.byCIN[cin]
	if !ok {
		return nil, apperror.NewNotFound("rendezvous", cin)
	}
	return r, nil
}

type fakeFactureReader struct {
	byCIN map[string]*facture.Facture
}

func (f *fakeFactureReader) LatestByPatient(ctx context.Context, cin string) (*facture.Facture, error) {
	fac, ok := f.byCIN[cin]
	if !ok {
		return nil, apperror.NewNotFound("facture", cin)
	}
	return fac, nil
}

func newPatient(cin, nom string) *patient.Patient {
	p := &patient.Patient{CIN: cin, Nom: nom}
	p.ID = id.New()
	return p
}

func TestGetByCIN_FullJoin(t *testing.T) {
	ctx := context.Background()

	p := newPatient("AB123456", "El Amrani")
	rdv := rendezvous.NewRendezVous("AB123456", id.New(), time.Now().Add(24*time.Hour), 30)
	fac := facture.NewFacture("AB123456", time.Now())

	svc := NewService(
		&memPatients{byCIN: map[string]*patient.Patient{"AB123456": p}},
		&fakeRdvReader{byCIN: map[string]*rendezvous.RendezVous{"AB123456": rdv}},
		&fakeFactureReader{byCIN: map[string]*facture.Facture{"AB123456": fac}},
	)

	entry, err := svc.GetByCIN(ctx, "AB123456")
	require.NoError(t, err)

	assert.Equal(t, p, entry.Patient)
	assert.Equal(t, rdv, entry.LatestRendezVous)
	assert.Equal(t, fac, entry.LatestFacture)
}

func TestGetByCIN_MissingDocumentsAreNotErrors(t *testing.T) {
	ctx := context.Background()

	p := newPatient("AB123456", "El Amrani")
	svc := NewService(
		&memPatients{byCIN: map[string]*patient.Patient{"AB123456": p}},
		&fakeRdvReader{byCIN: map[string]*rendezvous.RendezVous{}},
		&fakeFactureReader{byCIN: map[string]*facture.Facture{}},
	)

	entry, err := svc.GetByCIN(ctx, "AB123456")
	require.NoError(t, err)

	assert.Equal(t, p, entry.Patient)
	assert.Nil(t, entry.LatestRendezVous)
	assert.Nil(t, entry.LatestFacture)
}

func TestGetByCIN_UnknownPatient(t *testing.T) {
	ctx := context.Background()

	svc := NewService(
		&memPatients{byCIN: map[string]*patient.Patient{}},
		&fakeRdvReader{},
		&fakeFactureReader{},
	)

	_, err := svc.GetByCIN(ctx, "ZZ999999")
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_EnrichesEveryPatient(t *testing.T) {
	ctx := context.Background()

	a := newPatient("AB123456", "El Amrani")
	b := newPatient("CD654321", "Benali")
	fac := facture.NewFacture("CD654321", time.Now())

	svc := NewService(
		&memPatients{byCIN: map[string]*patient.Patient{"AB123456": a, "CD654321": b}},
		&fakeRdvReader{byCIN: map[string]*rendezvous.RendezVous{}},
		&fakeFactureReader{byCIN: map[string]*facture.Facture{"CD654321": fac}},
	)

	entries, total, err := svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, entries, 2)

	byCIN := map[string]Entry{}
	for _, e := range entries {
		byCIN[e.Patient.CIN] = e
	}
	assert.Nil(t, byCIN["AB123456"].LatestFacture)
	assert.NotNil(t, byCIN["CD654321"].LatestFacture)
}
