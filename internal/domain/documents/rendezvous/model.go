// Package rendezvous provides appointment documents and slot availability.
package rendezvous

import (
	"context"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
)

// Status is the appointment lifecycle status.
type Status string

const (
	StatusPlanifie Status = "planifie"
	StatusConfirme Status = "confirme"
	StatusAnnule   Status = "annule"
	StatusTermine  Status = "termine"
)

// RendezVous is a booked appointment.
type RendezVous struct {
	entity.Document

	// PatientCIN references the patient by identity card number
	PatientCIN string `db:"patient_cin" json:"patientCin"`

	// EmployeeID is the practitioner the appointment is booked with
	EmployeeID id.ID `db:"employee_id" json:"employeeId"`

	// SoinID is the treatment being booked, optional
	SoinID *id.ID `db:"soin_id" json:"soinId,omitempty"`

	StartTime time.Time `db:"start_time" json:"startTime"`

	// DureeMinutes is the appointment length in minutes
	DureeMinutes int `db:"duree_minutes" json:"dureeMinutes"`

	Status Status `db:"status" json:"status"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// NewRendezVous creates a planned appointment.
func NewRendezVous(patientCIN string, employeeID id.ID, start time.Time, dureeMinutes int) *RendezVous {
	doc := entity.NewDocument()
	doc.Date = start.Truncate(24 * time.Hour)
	return &RendezVous{
		Document:     doc,
		PatientCIN:   patientCIN,
		EmployeeID:   employeeID,
		StartTime:    start,
		DureeMinutes: dureeMinutes,
		Status:       StatusPlanifie,
	}
}

// EndTime returns the appointment end.
func (r *RendezVous) EndTime() time.Time {
	return r.StartTime.Add(time.Duration(r.DureeMinutes) * time.Minute)
}

// IsActive reports whether the appointment still holds its slot.
// Cancelled appointments free their slots.
func (r *RendezVous) IsActive() bool {
	return r.Status != StatusAnnule
}

// Overlaps reports whether [start, end) intersects the appointment.
func (r *RendezVous) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndTime()) && r.StartTime.Before(end)
}

// Validate implements entity.Validatable interface.
func (r *RendezVous) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if r.PatientCIN == "" {
		return apperror.NewValidation("patient CIN is required").
			WithDetail("field", "patientCin")
	}
	if id.IsNil(r.EmployeeID) {
		return apperror.NewValidation("employee is required").
			WithDetail("field", "employeeId")
	}
	if r.StartTime.IsZero() {
		return apperror.NewValidation("start time is required").
			WithDetail("field", "startTime")
	}
	if r.DureeMinutes <= 0 {
		return apperror.NewValidation("duration must be positive").
			WithDetail("field", "dureeMinutes")
	}
	if !IsValidStatus(r.Status) {
		return apperror.NewInvalidStatus("rendezvous", string(r.Status))
	}

	return nil
}

// IsValidStatus reports whether s is a known appointment status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPlanifie, StatusConfirme, StatusAnnule, StatusTermine:
		return true
	}
	return false
}
