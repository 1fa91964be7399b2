package rendezvous

import (
	"context"
	"fmt"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/core/tx"
	"clinova/pkg/logger"
	"clinova/pkg/numerator"
)

// NumeratorStrategy for appointment numbers. Gaps are acceptable here,
// so the cached range strategy is used.
const NumeratorStrategy = numerator.StrategyCached

// Service provides business operations for appointments.
type Service struct {
	repo      Repository
	numerator *numerator.Service
	txManager tx.Manager
	hours     OpeningHours
}

// NewService creates a new appointment service.
func NewService(repo Repository, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: num,
		txManager: txManager,
		hours:     DefaultOpeningHours(),
	}
}

// Create books an appointment. Double-booking the same practitioner is
// rejected when an active appointment overlaps the requested window.
func (s *Service) Create(ctx context.Context, r *RendezVous) error {
	if r.Status == "" {
		r.Status = StatusPlanifie
	}
	if !r.StartTime.IsZero() {
		r.Date = r.StartTime.Truncate(24 * time.Hour)
	}

	if err := r.Validate(ctx); err != nil {
		return err
	}

	if r.Number == "" {
		cfg := numerator.DefaultConfig("RDV")
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, r.StartTime)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		r.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkSlot(ctx, r); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, r); err != nil {
			return fmt.Errorf("create rendez-vous: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "rendez-vous created",
		"id", r.ID, "number", r.Number, "patientCin", r.PatientCIN, "start", r.StartTime)
	return nil
}

// Update modifies an appointment, re-checking the practitioner's calendar
// when the time window moved.
func (s *Service) Update(ctx context.Context, r *RendezVous) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}
	r.Date = r.StartTime.Truncate(24 * time.Hour)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkSlot(ctx, r); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, r); err != nil {
			return fmt.Errorf("update rendez-vous: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "rendez-vous updated", "id", r.ID, "status", r.Status)
	return nil
}

// SetStatus changes the appointment status.
func (s *Service) SetStatus(ctx context.Context, rdvID id.ID, status Status) (*RendezVous, error) {
	var updated *RendezVous
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetForUpdate(ctx, rdvID)
		if err != nil {
			return err
		}
		stored.Status = status
		if err := s.Update(ctx, stored); err != nil {
			return err
		}
		updated = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an appointment.
func (s *Service) Delete(ctx context.Context, rdvID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, rdvID)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "rendez-vous deleted", "id", rdvID)
	return nil
}

// GetByID retrieves an appointment.
func (s *Service) GetByID(ctx context.Context, rdvID id.ID) (*RendezVous, error) {
	return s.repo.GetByID(ctx, rdvID)
}

// List retrieves appointments matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]RendezVous, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// LatestByPatient returns the most recent appointment for a patient.
func (s *Service) LatestByPatient(ctx context.Context, patientCIN string) (*RendezVous, error) {
	return s.repo.LatestByPatient(ctx, patientCIN)
}

// AvailableSlots returns the free slots of the daily grid for a
// practitioner on a date.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time, employeeID *id.ID) ([]Slot, error) {
	booked, err := s.repo.ListForDay(ctx, date, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}
	return AvailableSlots(date, s.hours, booked), nil
}

// checkSlot rejects overlapping active appointments for the practitioner.
func (s *Service) checkSlot(ctx context.Context, r *RendezVous) error {
	if !r.IsActive() {
		return nil
	}

	booked, err := s.repo.ListForDay(ctx, r.StartTime, &r.EmployeeID)
	if err != nil {
		return fmt.Errorf("list day appointments: %w", err)
	}

	for i := range booked {
		other := &booked[i]
		if other.ID == r.ID || !other.IsActive() {
			continue
		}
		if other.Overlaps(r.StartTime, r.EndTime()) {
			return apperror.NewSlotUnavailable(
				r.EmployeeID.String(),
				r.StartTime.Format(time.RFC3339),
			).WithDetail("conflictsWith", other.Number)
		}
	}
	return nil
}
