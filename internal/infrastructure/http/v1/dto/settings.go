package dto

import (
	"time"

	"clinova/internal/domain/settings"
)

// --- Request DTOs ---

// SaveEntrepriseRequest is the request body for the company profile.
type SaveEntrepriseRequest struct {
	Nom         string `json:"nom" binding:"required"`
	Adresse     string `json:"adresse"`
	Ville       string `json:"ville"`
	Telephone   string `json:"telephone"`
	Email       string `json:"email"`
	ICE         string `json:"ice"`
	AfficherTVA bool   `json:"afficherTva"`
	PiedDePage  string `json:"piedDePage"`
}

// ToEntity converts DTO to domain entity.
func (r *SaveEntrepriseRequest) ToEntity() *settings.Entreprise {
	return &settings.Entreprise{
		Nom:         r.Nom,
		Adresse:     r.Adresse,
		Ville:       r.Ville,
		Telephone:   r.Telephone,
		Email:       r.Email,
		ICE:         r.ICE,
		AfficherTVA: r.AfficherTVA,
		PiedDePage:  r.PiedDePage,
	}
}

// SetSettingRequest is the request body for one key/value setting.
type SetSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// --- Response DTOs ---

// EntrepriseResponse is the company profile.
type EntrepriseResponse struct {
	Nom         string    `json:"nom"`
	Adresse     string    `json:"adresse,omitempty"`
	Ville       string    `json:"ville,omitempty"`
	Telephone   string    `json:"telephone,omitempty"`
	Email       string    `json:"email,omitempty"`
	ICE         string    `json:"ice,omitempty"`
	AfficherTVA bool      `json:"afficherTva"`
	PiedDePage  string    `json:"piedDePage,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromEntreprise creates response DTO from domain entity.
func FromEntreprise(e *settings.Entreprise) *EntrepriseResponse {
	return &EntrepriseResponse{
		Nom:         e.Nom,
		Adresse:     e.Adresse,
		Ville:       e.Ville,
		Telephone:   e.Telephone,
		Email:       e.Email,
		ICE:         e.ICE,
		AfficherTVA: e.AfficherTVA,
		PiedDePage:  e.PiedDePage,
		UpdatedAt:   e.UpdatedAt,
	}
}
