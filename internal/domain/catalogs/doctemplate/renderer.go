package doctemplate

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"clinova/internal/core/apperror"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// RenderContext carries the data templates can reference.
type RenderContext struct {
	// Patient fields (nom, prenom, cin, ...)
	Patient map[string]any
	// Facture fields (numero, total, date, ...), optional
	Facture map[string]any
	// Entreprise fields from settings (nom, adresse, telephone, ...)
	Entreprise map[string]any
}

// Renderer evaluates template placeholders as CEL expressions.
// Compiled programs are cached per expression.
type Renderer struct {
	env *cel.Env

	mu    sync.RWMutex
	cache map[string]cel.Program
}

// NewRenderer creates a renderer with patient/facture/entreprise variables.
func NewRenderer() (*Renderer, error) {
	env, err := cel.NewEnv(
		cel.Variable("patient", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("facture", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("entreprise", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	return &Renderer{
		env:   env,
		cache: make(map[string]cel.Program),
	}, nil
}

// Render substitutes every {{expr}} placeholder in body.
// An expression that fails to compile or evaluate aborts the render.
func (r *Renderer) Render(body string, rctx RenderContext) (string, error) {
	activation := map[string]any{
		"patient":    orEmpty(rctx.Patient),
		"facture":    orEmpty(rctx.Facture),
		"entreprise": orEmpty(rctx.Entreprise),
	}

	var renderErr error
	result := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		if renderErr != nil {
			return match
		}

		expr := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])

		prg, err := r.program(expr)
		if err != nil {
			renderErr = apperror.NewValidation("invalid template expression").
				WithDetail("expression", expr).
				WithCause(err)
			return match
		}

		out, _, err := prg.Eval(activation)
		if err != nil {
			renderErr = apperror.NewValidation("template expression failed").
				WithDetail("expression", expr).
				WithCause(err)
			return match
		}

		return fmt.Sprintf("%v", out.Value())
	})

	if renderErr != nil {
		return "", renderErr
	}
	return result, nil
}

// Placeholders returns the distinct expressions found in body.
func (r *Renderer) Placeholders(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		expr := strings.TrimSpace(m[1])
		if _, ok := seen[expr]; ok {
			continue
		}
		seen[expr] = struct{}{}
		out = append(out, expr)
	}
	return out
}

// Check compiles every placeholder without evaluating. Used to validate
// a template before saving.
func (r *Renderer) Check(body string) error {
	for _, expr := range r.Placeholders(body) {
		if _, err := r.program(expr); err != nil {
			return apperror.NewValidation("invalid template expression").
				WithDetail("expression", expr).
				WithCause(err)
		}
	}
	return nil
}

func (r *Renderer) program(expr string) (cel.Program, error) {
	r.mu.RLock()
	prg, ok := r.cache[expr]
	r.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := r.env.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}

	prg, err := r.env.Program(ast)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[expr] = prg
	r.mu.Unlock()

	return prg, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
