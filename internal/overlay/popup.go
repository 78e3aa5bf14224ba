package overlay

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/evcraddock/emprende-tacna/internal/business"
)

const popupExcerptLen = 100

var popupTmpl = template.Must(template.New("popup").Parse(`<div class="business-popup">
<h4>{{.Name}}</h4>
<p><strong>{{.Label}}</strong></p>
<p>{{.Excerpt}}...</p>
<button class="btn-primary" data-business-id="{{.ID}}">Ver Detalles</button>
</div>`))

// PopupHTML renders the marker popup for b. All fields are escaped.
func PopupHTML(b *business.Business) string {
	data := struct {
		ID      int64
		Name    string
		Label   string
		Excerpt string
	}{
		ID:      b.ID,
		Name:    b.Name,
		Label:   b.Type.Label(),
		Excerpt: Excerpt(b.Description, popupExcerptLen),
	}

	var buf bytes.Buffer
	if err := popupTmpl.Execute(&buf, data); err != nil {
		slog.Error("rendering popup", "business", b.ID, "error", err)
		return ""
	}
	return buf.String()
}

// Excerpt returns the first n characters of s.
func Excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
