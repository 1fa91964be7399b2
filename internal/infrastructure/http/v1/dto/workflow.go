package dto

import (
	"clinova/internal/domain/workflow"
)

// WorkflowEntryResponse joins a patient with their latest documents.
type WorkflowEntryResponse struct {
	Patient          *PatientResponse    `json:"patient"`
	LatestRendezVous *RendezVousResponse `json:"latestRendezVous,omitempty"`
	LatestFacture    *FactureResponse    `json:"latestFacture,omitempty"`
}

// FromWorkflowEntry creates response DTO from domain entry.
func FromWorkflowEntry(e *workflow.Entry) *WorkflowEntryResponse {
	resp := &WorkflowEntryResponse{
		Patient: FromPatient(e.Patient),
	}
	if e.LatestRendezVous != nil {
		resp.LatestRendezVous = FromRendezVous(e.LatestRendezVous)
	}
	if e.LatestFacture != nil {
		resp.LatestFacture = FromFacture(e.LatestFacture)
	}
	return resp
}
