// Package workflow assembles the dashboard view: each patient joined with
// their latest appointment and latest invoice.
package workflow

import (
	"context"
	"fmt"

	"clinova/internal/core/apperror"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/domain/documents/rendezvous"
)

// RendezVousReader is the slice of the appointment service the workflow needs.
type RendezVousReader interface {
	LatestByPatient(ctx context.Context, patientCIN string) (*rendezvous.RendezVous, error)
}

// FactureReader is the slice of the invoice service the workflow needs.
type FactureReader interface {
	LatestByPatient(ctx context.Context, patientCIN string) (*facture.Facture, error)
}

// Entry is one dashboard row.
type Entry struct {
	Patient          *patient.Patient       `json:"patient"`
	LatestRendezVous *rendezvous.RendezVous `json:"latestRendezVous,omitempty"`
	LatestFacture    *facture.Facture       `json:"latestFacture,omitempty"`
}

// Service reads the joined view.
type Service struct {
	patients   patient.Repository
	rendezvous RendezVousReader
	factures   FactureReader
}

// NewService creates a new workflow service.
func NewService(patients patient.Repository, rdv RendezVousReader, factures FactureReader) *Service {
	return &Service{
		patients:   patients,
		rendezvous: rdv,
		factures:   factures,
	}
}

// GetByCIN returns the dashboard entry for one patient.
func (s *Service) GetByCIN(ctx context.Context, cin string) (*Entry, error) {
	p, err := s.patients.FindByCIN(ctx, cin)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, p)
}

// List returns dashboard entries for a patient page. Missing appointments
// or invoices leave the entry fields nil; they are not errors.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]Entry, int, error) {
	page, err := s.patients.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}

	entries := make([]Entry, 0, len(page.Items))
	for _, p := range page.Items {
		entry, err := s.enrich(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, *entry)
	}

	return entries, int(page.TotalCount), nil
}

func (s *Service) enrich(ctx context.Context, p *patient.Patient) (*Entry, error) {
	entry := &Entry{Patient: p}

	rdv, err := s.rendezvous.LatestByPatient(ctx, p.CIN)
	switch {
	case err == nil:
		entry.LatestRendezVous = rdv
	case !apperror.IsNotFound(err):
		return nil, fmt.Errorf("latest rendez-vous for %s: %w", p.CIN, err)
	}

	f, err := s.factures.LatestByPatient(ctx, p.CIN)
	switch {
	case err == nil:
		entry.LatestFacture = f
	case !apperror.IsNotFound(err):
		return nil, fmt.Errorf("latest facture for %s: %w", p.CIN, err)
	}

	return entry, nil
}
