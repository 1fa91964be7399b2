package dto

import (
	"time"

	"clinova/internal/core/entity"
	"clinova/internal/domain/catalogs/doctemplate"
)

// --- Request DTOs ---

// CreateTemplateRequest is the request body for creating a document template.
type CreateTemplateRequest struct {
	Code        string               `json:"code"`
	Name        string               `json:"name" binding:"required"`
	Category    doctemplate.Category `json:"category" binding:"required"`
	Body        string               `json:"body" binding:"required"`
	Description *string              `json:"description"`
	Attributes  entity.Attributes    `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateTemplateRequest) ToEntity() *doctemplate.Template {
	t := doctemplate.NewTemplate(r.Name, r.Category, r.Body)
	t.Code = r.Code
	t.Description = r.Description
	t.Attributes = r.Attributes
	return t
}

// UpdateTemplateRequest is the request body for updating a document template.
type UpdateTemplateRequest struct {
	Code        string               `json:"code"`
	Name        string               `json:"name" binding:"required"`
	Category    doctemplate.Category `json:"category" binding:"required"`
	Body        string               `json:"body" binding:"required"`
	Description *string              `json:"description"`
	Attributes  entity.Attributes    `json:"attributes"`
	Version     int                  `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateTemplateRequest) ApplyTo(t *doctemplate.Template) {
	t.Code = r.Code
	t.Name = r.Name
	t.Category = r.Category
	t.Body = r.Body
	t.Description = r.Description
	t.Attributes = r.Attributes
	t.Version = r.Version
}

// RenderTemplateRequest is the request body for rendering a template.
type RenderTemplateRequest struct {
	PatientCIN string `json:"patientCin" binding:"required"`

	// FactureID optionally provides invoice fields to the template
	FactureID *string `json:"factureId"`
}

// --- Response DTOs ---

// TemplateResponse is the response body for a document template.
type TemplateResponse struct {
	ID           string               `json:"id"`
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Category     doctemplate.Category `json:"category"`
	Body         string               `json:"body"`
	Description  *string              `json:"description,omitempty"`
	DeletionMark bool                 `json:"deletionMark"`
	Version      int                  `json:"version"`
	Attributes   entity.Attributes    `json:"attributes,omitempty"`
}

// FromTemplate creates response DTO from domain entity.
func FromTemplate(t *doctemplate.Template) *TemplateResponse {
	return &TemplateResponse{
		ID:           t.ID.String(),
		Code:         t.Code,
		Name:         t.Name,
		Category:     t.Category,
		Body:         t.Body,
		Description:  t.Description,
		DeletionMark: t.DeletionMark,
		Version:      t.Version,
		Attributes:   t.Attributes,
	}
}

// RenderedDocumentResponse is a stored render result.
type RenderedDocumentResponse struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	PatientCIN string    `json:"patientCin"`
	Content    string    `json:"content"`
	RenderedBy string    `json:"renderedBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromRenderedDocument creates response DTO from domain entity.
func FromRenderedDocument(d *doctemplate.RenderedDocument) *RenderedDocumentResponse {
	return &RenderedDocumentResponse{
		ID:         d.ID.String(),
		TemplateID: d.TemplateID.String(),
		PatientCIN: d.PatientCIN,
		Content:    d.Content,
		RenderedBy: d.RenderedBy,
		CreatedAt:  d.CreatedAt,
	}
}
