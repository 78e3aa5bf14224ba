package web

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/geo"
)

type indexData struct {
	Categories  []CategoryOption
	Filter      business.Category
	Featured    []*business.Business
	FeaturedMsg string
	Visited     []*business.Business
	VisitedMsg  string
	Stats       business.Stats
	Center      geo.Position
	Zoom        int
}

// handleIndex renders the map page. The markers themselves are fetched by
// the page from /api/markers.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Filter: s.app.CurrentFilter(),
		Stats:  s.app.Stats(),
		Center: geo.Center,
		Zoom:   geo.DefaultZoom,
	}
	for _, c := range business.AllCategories {
		data.Categories = append(data.Categories, CategoryOption{Value: c, Label: c.Label()})
	}

	featured, fn := s.app.Featured(business.DefaultFeaturedLimit)
	data.Featured, data.FeaturedMsg = featured, fn.Message

	visited, vn := s.app.VisitedPlaces()
	data.Visited, data.VisitedMsg = visited, vn.Message

	s.render(w, "index.html", data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// render executes a template into a buffer first so a failing template
// does not leave a half-written page.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("rendering template", "template", name, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
