package mail

import (
	"github.com/flosch/pongo2"

	"saletype/internal/core/apperror"
)

// RenderContext is the data a template sees.
type RenderContext struct {
	// Object is the document, usually its JSON field map
	Object map[string]any

	// Company and Partner are display data of the document's company and recipient
	Company map[string]any
	Partner map[string]any

	Lang string
}

func (rc RenderContext) pongo() pongo2.Context {
	return pongo2.Context{
		"object":  rc.Object,
		"company": rc.Company,
		"partner": rc.Partner,
		"lang":    rc.Lang,
	}
}

// Render executes subject and body of the template.
func Render(t *Template, rc RenderContext) (subject, body string, err error) {
	subjectTpl, err := pongo2.FromString(t.Subject)
	if err != nil {
		return "", "", renderErr(t, "subject", err)
	}
	bodyTpl, err := pongo2.FromString(t.Body)
	if err != nil {
		return "", "", renderErr(t, "bodyHtml", err)
	}

	data := rc.pongo()
	if subject, err = subjectTpl.Execute(data); err != nil {
		return "", "", renderErr(t, "subject", err)
	}
	if body, err = bodyTpl.Execute(data); err != nil {
		return "", "", renderErr(t, "bodyHtml", err)
	}
	return subject, body, nil
}

// compileCheck rejects templates whose syntax does not parse.
func compileCheck(t *Template) error {
	if _, err := pongo2.FromString(t.Subject); err != nil {
		return renderErr(t, "subject", err)
	}
	if _, err := pongo2.FromString(t.Body); err != nil {
		return renderErr(t, "bodyHtml", err)
	}
	return nil
}

func renderErr(t *Template, field string, err error) error {
	return apperror.NewValidation("mail template does not render").
		WithDetail("field", field).
		WithDetail("template_id", t.ID.String()).
		WithCause(err)
}
