package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain/catalogs/doctemplate"
	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/domain/settings"
	"clinova/internal/infrastructure/http/v1/dto"
)

// TemplateHTTPHandler is the generic catalog handler specialized for
// document templates, plus the render endpoints.
type TemplateHTTPHandler struct {
	*CatalogHandler[*doctemplate.Template, dto.CreateTemplateRequest, dto.UpdateTemplateRequest]
	service  *doctemplate.Service
	patients *patient.Service
	factures *facture.Service
	settings *settings.Service
}

// NewTemplateHandler creates the document template HTTP handler.
func NewTemplateHandler(
	base *BaseHandler,
	service *doctemplate.Service,
	patients *patient.Service,
	factures *facture.Service,
	settingsSvc *settings.Service,
) *TemplateHTTPHandler {
	config := CatalogHandlerConfig[*doctemplate.Template, dto.CreateTemplateRequest, dto.UpdateTemplateRequest]{
		Service:    service.CatalogService,
		EntityName: "doctemplate",

		MapCreateDTO: func(req dto.CreateTemplateRequest) (*doctemplate.Template, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateTemplateRequest, existing *doctemplate.Template) (*doctemplate.Template, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
		MapToDTO: func(t *doctemplate.Template) any {
			return dto.FromTemplate(t)
		},
	}

	return &TemplateHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
		patients:       patients,
		factures:       factures,
		settings:       settingsSvc,
	}
}

// Render handles POST /catalog/doc-templates/:id/render
func (h *TemplateHTTPHandler) Render(c *gin.Context) {
	ctx := c.Request.Context()

	templateID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.RenderTemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rctx, err := h.buildRenderContext(c, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Render(ctx, templateID, req.PatientCIN, rctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromRenderedDocument(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// ListRendered handles GET /catalog/doc-templates/rendered/:cin
func (h *TemplateHTTPHandler) ListRendered(c *gin.Context) {
	ctx := c.Request.Context()

	docs, err := h.service.ListRendered(ctx, c.Param("cin"), h.ParseIntQuery(c, "limit", 50))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.RenderedDocumentResponse, len(docs))
	for i := range docs {
		items[i] = dto.FromRenderedDocument(&docs[i])
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// buildRenderContext assembles patient, facture and entreprise data for
// template evaluation.
func (h *TemplateHTTPHandler) buildRenderContext(c *gin.Context, req dto.RenderTemplateRequest) (doctemplate.RenderContext, error) {
	ctx := c.Request.Context()
	var rctx doctemplate.RenderContext

	p, err := h.patients.FindByCIN(ctx, req.PatientCIN)
	if err != nil {
		return rctx, err
	}
	rctx.Patient = map[string]any{
		"cin":    p.CIN,
		"nom":    p.Nom,
		"prenom": p.Prenom,
	}
	if p.DateNaissance != nil {
		rctx.Patient["dateNaissance"] = p.DateNaissance.Format("02/01/2006")
	}
	if p.Mutuelle != nil {
		rctx.Patient["mutuelle"] = *p.Mutuelle
	}

	if req.FactureID != nil {
		factureID, err := id.Parse(*req.FactureID)
		if err != nil {
			return rctx, apperror.NewValidation("invalid factureId format")
		}
		f, err := h.factures.GetByID(ctx, factureID)
		if err != nil {
			return rctx, err
		}
		rctx.Facture = map[string]any{
			"numero":   f.Number,
			"date":     f.Date.Format("02/01/2006"),
			"status":   string(f.Status),
			"prixHt":   f.PrixHT.StringFixed(2),
			"tva":      f.TVA.StringFixed(2),
			"totalTtc": f.TotalTTC.StringFixed(2),
		}
	}

	entreprise, err := h.settings.GetEntreprise(ctx)
	if err != nil && !apperror.IsNotFound(err) {
		return rctx, err
	}
	rctx.Entreprise = map[string]any{}
	if entreprise != nil {
		for k, v := range entreprise.RenderContext() {
			rctx.Entreprise[k] = v
		}
	}

	return rctx, nil
}
