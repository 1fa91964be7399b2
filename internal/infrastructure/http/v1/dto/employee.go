package dto

import (
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/domain/catalogs/employee"
)

// --- Request DTOs ---

// CreateEmployeeRequest is the request body for creating an employee.
type CreateEmployeeRequest struct {
	Code         string            `json:"code"`
	CIN          string            `json:"cin" binding:"required"`
	Nom          string            `json:"nom" binding:"required"`
	Prenom       string            `json:"prenom"`
	Role         employee.Role     `json:"role" binding:"required"`
	Telephone    *string           `json:"telephone"`
	Email        *string           `json:"email"`
	DateEmbauche *time.Time        `json:"dateEmbauche"`
	UserID       *string           `json:"userId"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateEmployeeRequest) ToEntity() (*employee.Employee, error) {
	e := employee.NewEmployee(r.CIN, r.Nom, r.Prenom, r.Role)
	e.Code = r.Code
	e.Telephone = r.Telephone
	e.Email = r.Email
	e.DateEmbauche = r.DateEmbauche
	e.Attributes = r.Attributes

	if r.UserID != nil {
		parsed, err := id.Parse(*r.UserID)
		if err != nil {
			return nil, apperror.NewValidation("invalid userId format")
		}
		e.UserID = &parsed
	}
	return e, nil
}

// UpdateEmployeeRequest is the request body for updating an employee.
type UpdateEmployeeRequest struct {
	Code         string            `json:"code"`
	CIN          string            `json:"cin" binding:"required"`
	Nom          string            `json:"nom" binding:"required"`
	Prenom       string            `json:"prenom"`
	Role         employee.Role     `json:"role" binding:"required"`
	Telephone    *string           `json:"telephone"`
	Email        *string           `json:"email"`
	DateEmbauche *time.Time        `json:"dateEmbauche"`
	UserID       *string           `json:"userId"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateEmployeeRequest) ApplyTo(e *employee.Employee) error {
	e.Code = r.Code
	e.CIN = r.CIN
	e.Nom = r.Nom
	e.Prenom = r.Prenom
	e.Name = e.FullName()
	e.Role = r.Role
	e.Telephone = r.Telephone
	e.Email = r.Email
	e.DateEmbauche = r.DateEmbauche
	e.Attributes = r.Attributes
	e.Version = r.Version

	e.UserID = nil
	if r.UserID != nil {
		parsed, err := id.Parse(*r.UserID)
		if err != nil {
			return apperror.NewValidation("invalid userId format")
		}
		e.UserID = &parsed
	}
	return nil
}

// --- Response DTOs ---

// EmployeeResponse is the response body for an employee.
type EmployeeResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	CIN          string            `json:"cin"`
	Nom          string            `json:"nom"`
	Prenom       string            `json:"prenom"`
	Role         employee.Role     `json:"role"`
	Telephone    *string           `json:"telephone,omitempty"`
	Email        *string           `json:"email,omitempty"`
	DateEmbauche *time.Time        `json:"dateEmbauche,omitempty"`
	UserID       *string           `json:"userId,omitempty"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromEmployee creates response DTO from domain entity.
func FromEmployee(e *employee.Employee) *EmployeeResponse {
	resp := &EmployeeResponse{
		ID:           e.ID.String(),
		Code:         e.Code,
		CIN:          e.CIN,
		Nom:          e.Nom,
		Prenom:       e.Prenom,
		Role:         e.Role,
		Telephone:    e.Telephone,
		Email:        e.Email,
		DateEmbauche: e.DateEmbauche,
		DeletionMark: e.DeletionMark,
		Version:      e.Version,
		Attributes:   e.Attributes,
	}
	if e.UserID != nil {
		v := e.UserID.String()
		resp.UserID = &v
	}
	return resp
}
