package dto

import (
	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain/catalogs/soin"
)

// --- Request DTOs ---

// CreateSoinRequest is the request body for creating a soin.
type CreateSoinRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	Type         soin.SoinType     `json:"type" binding:"required"`
	Prix         types.Money       `json:"prix"`
	DureeMinutes int               `json:"dureeMinutes"`
	TherapeuteID *string           `json:"therapeuteId"`
	Cabinet      *string           `json:"cabinet"`
	Description  *string           `json:"description"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSoinRequest) ToEntity() (*soin.Soin, error) {
	s := soin.NewSoin(r.Name, r.Type, r.Prix)
	s.Code = r.Code
	s.DureeMinutes = r.DureeMinutes
	s.Cabinet = r.Cabinet
	s.Description = r.Description
	s.Attributes = r.Attributes

	if r.TherapeuteID != nil {
		parsed, err := id.Parse(*r.TherapeuteID)
		if err != nil {
			return nil, apperror.NewValidation("invalid therapeuteId format")
		}
		s.TherapeuteID = &parsed
	}
	return s, nil
}

// UpdateSoinRequest is the request body for updating a soin.
type UpdateSoinRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	Type         soin.SoinType     `json:"type" binding:"required"`
	Prix         types.Money       `json:"prix"`
	DureeMinutes int               `json:"dureeMinutes"`
	TherapeuteID *string           `json:"therapeuteId"`
	Cabinet      *string           `json:"cabinet"`
	Description  *string           `json:"description"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSoinRequest) ApplyTo(s *soin.Soin) error {
	s.Code = r.Code
	s.Name = r.Name
	s.Type = r.Type
	s.Prix = r.Prix
	s.DureeMinutes = r.DureeMinutes
	s.Cabinet = r.Cabinet
	s.Description = r.Description
	s.Attributes = r.Attributes
	s.Version = r.Version

	s.TherapeuteID = nil
	if r.TherapeuteID != nil {
		parsed, err := id.Parse(*r.TherapeuteID)
		if err != nil {
			return apperror.NewValidation("invalid therapeuteId format")
		}
		s.TherapeuteID = &parsed
	}
	return nil
}

// --- Response DTOs ---

// SoinResponse is the response body for a soin.
type SoinResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Type         soin.SoinType     `json:"type"`
	Prix         types.Money       `json:"prix"`
	DureeMinutes int               `json:"dureeMinutes"`
	TherapeuteID *string           `json:"therapeuteId,omitempty"`
	Cabinet      *string           `json:"cabinet,omitempty"`
	Description  *string           `json:"description,omitempty"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromSoin creates response DTO from domain entity.
func FromSoin(s *soin.Soin) *SoinResponse {
	resp := &SoinResponse{
		ID:           s.ID.String(),
		Code:         s.Code,
		Name:         s.Name,
		Type:         s.Type,
		Prix:         s.Prix,
		DureeMinutes: s.DureeMinutes,
		Cabinet:      s.Cabinet,
		Description:  s.Description,
		DeletionMark: s.DeletionMark,
		Version:      s.Version,
		Attributes:   s.Attributes,
	}
	if s.TherapeuteID != nil {
		v := s.TherapeuteID.String()
		resp.TherapeuteID = &v
	}
	return resp
}
