package dto

import (
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/domain/documents/rendezvous"
)

// --- Request DTOs ---

// CreateRendezVousRequest is the request body for creating an appointment.
type CreateRendezVousRequest struct {
	Number       string            `json:"number"`
	PatientCIN   string            `json:"patientCin" binding:"required"`
	EmployeeID   string            `json:"employeeId" binding:"required"`
	SoinID       *string           `json:"soinId"`
	StartTime    time.Time         `json:"startTime" binding:"required"`
	DureeMinutes int               `json:"dureeMinutes" binding:"required"`
	Notes        string            `json:"notes"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateRendezVousRequest) ToEntity() (*rendezvous.RendezVous, error) {
	employeeID, err := id.Parse(r.EmployeeID)
	if err != nil {
		return nil, apperror.NewValidation("invalid employeeId format")
	}

	rdv := rendezvous.NewRendezVous(r.PatientCIN, employeeID, r.StartTime, r.DureeMinutes)
	rdv.Number = r.Number
	rdv.Notes = r.Notes
	rdv.Attributes = r.Attributes

	if r.SoinID != nil {
		parsed, err := id.Parse(*r.SoinID)
		if err != nil {
			return nil, apperror.NewValidation("invalid soinId format")
		}
		rdv.SoinID = &parsed
	}
	return rdv, nil
}

// UpdateRendezVousRequest is the request body for updating an appointment.
type UpdateRendezVousRequest struct {
	PatientCIN   string            `json:"patientCin" binding:"required"`
	EmployeeID   string            `json:"employeeId" binding:"required"`
	SoinID       *string           `json:"soinId"`
	StartTime    time.Time         `json:"startTime" binding:"required"`
	DureeMinutes int               `json:"dureeMinutes" binding:"required"`
	Status       rendezvous.Status `json:"status" binding:"required"`
	Notes        string            `json:"notes"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateRendezVousRequest) ApplyTo(rdv *rendezvous.RendezVous) error {
	employeeID, err := id.Parse(r.EmployeeID)
	if err != nil {
		return apperror.NewValidation("invalid employeeId format")
	}

	rdv.PatientCIN = r.PatientCIN
	rdv.EmployeeID = employeeID
	rdv.StartTime = r.StartTime
	rdv.DureeMinutes = r.DureeMinutes
	rdv.Status = r.Status
	rdv.Notes = r.Notes
	rdv.Attributes = r.Attributes
	rdv.Version = r.Version

	rdv.SoinID = nil
	if r.SoinID != nil {
		parsed, err := id.Parse(*r.SoinID)
		if err != nil {
			return apperror.NewValidation("invalid soinId format")
		}
		rdv.SoinID = &parsed
	}
	return nil
}

// SetRendezVousStatusRequest is the request body for a status change.
type SetRendezVousStatusRequest struct {
	Status rendezvous.Status `json:"status" binding:"required"`
}

// --- Response DTOs ---

// RendezVousResponse is the response body for an appointment.
type RendezVousResponse struct {
	ID           string            `json:"id"`
	Number       string            `json:"number"`
	Date         time.Time         `json:"date"`
	PatientCIN   string            `json:"patientCin"`
	EmployeeID   string            `json:"employeeId"`
	SoinID       *string           `json:"soinId,omitempty"`
	StartTime    time.Time         `json:"startTime"`
	EndTime      time.Time         `json:"endTime"`
	DureeMinutes int               `json:"dureeMinutes"`
	Status       rendezvous.Status `json:"status"`
	Notes        string            `json:"notes,omitempty"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// FromRendezVous creates response DTO from domain entity.
func FromRendezVous(rdv *rendezvous.RendezVous) *RendezVousResponse {
	resp := &RendezVousResponse{
		ID:           rdv.ID.String(),
		Number:       rdv.Number,
		Date:         rdv.Date,
		PatientCIN:   rdv.PatientCIN,
		EmployeeID:   rdv.EmployeeID.String(),
		StartTime:    rdv.StartTime,
		EndTime:      rdv.EndTime(),
		DureeMinutes: rdv.DureeMinutes,
		Status:       rdv.Status,
		Notes:        rdv.Notes,
		DeletionMark: rdv.DeletionMark,
		Version:      rdv.Version,
		CreatedAt:    rdv.CreatedAt,
		UpdatedAt:    rdv.UpdatedAt,
	}
	if rdv.SoinID != nil {
		v := rdv.SoinID.String()
		resp.SoinID = &v
	}
	return resp
}

// SlotResponse is one bookable time slot.
type SlotResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// FromSlots maps slots to DTOs.
func FromSlots(slots []rendezvous.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{Start: s.Start, End: s.End, Available: s.Available}
	}
	return out
}
