package dto

import (
	"time"

	"clinova/internal/core/entity"
	"clinova/internal/domain/catalogs/patient"
)

// --- Request DTOs ---

// CreatePatientRequest is the request body for creating a patient.
type CreatePatientRequest struct {
	Code          string            `json:"code"`
	CIN           string            `json:"cin" binding:"required"`
	Nom           string            `json:"nom" binding:"required"`
	Prenom        string            `json:"prenom"`
	DateNaissance *time.Time        `json:"dateNaissance"`
	Telephone     *string           `json:"telephone"`
	Email         *string           `json:"email"`
	Adresse       *string           `json:"adresse"`
	Mutuelle      *string           `json:"mutuelle"`
	Notes         *string           `json:"notes"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePatientRequest) ToEntity() *patient.Patient {
	p := patient.NewPatient(r.CIN, r.Nom, r.Prenom)
	p.Code = r.Code
	p.DateNaissance = r.DateNaissance
	p.Telephone = r.Telephone
	p.Email = r.Email
	p.Adresse = r.Adresse
	p.Mutuelle = r.Mutuelle
	p.Notes = r.Notes
	p.Attributes = r.Attributes
	return p
}

// UpdatePatientRequest is the request body for updating a patient.
type UpdatePatientRequest struct {
	Code          string            `json:"code"`
	CIN           string            `json:"cin" binding:"required"`
	Nom           string            `json:"nom" binding:"required"`
	Prenom        string            `json:"prenom"`
	DateNaissance *time.Time        `json:"dateNaissance"`
	Telephone     *string           `json:"telephone"`
	Email         *string           `json:"email"`
	Adresse       *string           `json:"adresse"`
	Mutuelle      *string           `json:"mutuelle"`
	Notes         *string           `json:"notes"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePatientRequest) ApplyTo(p *patient.Patient) {
	p.Code = r.Code
	p.CIN = r.CIN
	p.Nom = r.Nom
	p.Prenom = r.Prenom
	p.Name = p.FullName()
	p.DateNaissance = r.DateNaissance
	p.Telephone = r.Telephone
	p.Email = r.Email
	p.Adresse = r.Adresse
	p.Mutuelle = r.Mutuelle
	p.Notes = r.Notes
	p.Attributes = r.Attributes
	p.Version = r.Version
}

// --- Response DTOs ---

// PatientResponse is the response body for a patient.
type PatientResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	CIN           string            `json:"cin"`
	Nom           string            `json:"nom"`
	Prenom        string            `json:"prenom"`
	DateNaissance *time.Time        `json:"dateNaissance,omitempty"`
	Telephone     *string           `json:"telephone,omitempty"`
	Email         *string           `json:"email,omitempty"`
	Adresse       *string           `json:"adresse,omitempty"`
	Mutuelle      *string           `json:"mutuelle,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	DeletionMark  bool              `json:"deletionMark"`
	Version       int               `json:"version"`
	Attributes    entity.Attributes `json:"attributes,omitempty"`
}

// FromPatient creates response DTO from domain entity.
func FromPatient(p *patient.Patient) *PatientResponse {
	return &PatientResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		CIN:           p.CIN,
		Nom:           p.Nom,
		Prenom:        p.Prenom,
		DateNaissance: p.DateNaissance,
		Telephone:     p.Telephone,
		Email:         p.Email,
		Adresse:       p.Adresse,
		Mutuelle:      p.Mutuelle,
		Notes:         p.Notes,
		DeletionMark:  p.DeletionMark,
		Version:       p.Version,
		Attributes:    p.Attributes,
	}
}
