package doctemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRender_Simple(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render("Je soussigné certifie que {{patient.nom}} {{patient.prenom}} est suivi.", RenderContext{
		Patient: map[string]any{"nom": "Alaoui", "prenom": "Sara"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Je soussigné certifie que Alaoui Sara est suivi.", out)
}

func TestRender_Expression(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render("Total: {{facture.total}} DH ({{entreprise.nom}})", RenderContext{
		Facture:    map[string]any{"total": "1200.00"},
		Entreprise: map[string]any{"nom": "Cabinet Atlas"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Total: 1200.00 DH (Cabinet Atlas)", out)
}

func TestRender_Conditional(t *testing.T) {
	r := newTestRenderer(t)

	body := `Assurance: {{patient.mutuelle != "" ? patient.mutuelle : "aucune"}}`

	out, err := r.Render(body, RenderContext{
		Patient: map[string]any{"mutuelle": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Assurance: aucune", out)

	out, err = r.Render(body, RenderContext{
		Patient: map[string]any{"mutuelle": "CNOPS"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Assurance: CNOPS", out)
}

func TestRender_InvalidExpression(t *testing.T) {
	r := newTestRenderer(t)

	_, err := r.Render("{{patient..nom}}", RenderContext{
		Patient: map[string]any{"nom": "Alaoui"},
	})
	assert.Error(t, err)
}

func TestRender_NoPlaceholders(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render("Texte fixe sans variables.", RenderContext{})
	require.NoError(t, err)
	assert.Equal(t, "Texte fixe sans variables.", out)
}

func TestCheck(t *testing.T) {
	r := newTestRenderer(t)

	assert.NoError(t, r.Check("Bonjour {{patient.nom}}"))
	assert.Error(t, r.Check("Bonjour {{patient..nom}}"))
}

func TestPlaceholders_Dedup(t *testing.T) {
	r := newTestRenderer(t)

	got := r.Placeholders("{{patient.nom}} et {{patient.nom}} et {{facture.numero}}")
	assert.Equal(t, []string{"patient.nom", "facture.numero"}, got)
}
