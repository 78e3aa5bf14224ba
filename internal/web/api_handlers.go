package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/auth"
	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/maplayer"
	"github.com/evcraddock/emprende-tacna/internal/overlay"
)

// Error codes carried in API error bodies.
const (
	CodeValidation     = "validation"
	CodeNotFound       = "not_found"
	CodeAlreadyVisited = "already_visited"
	CodeUnavailable    = "unavailable"
)

// ErrorBody is the JSON body of every API error.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// CreatedResponse is returned by POST /api/businesses.
type CreatedResponse struct {
	Business     *business.Business `json:"business"`
	Notification app.Notification  `json:"notification"`
}

// ListResponse is returned by the list endpoints.
type ListResponse struct {
	Businesses   []*business.Business `json:"businesses"`
	Overlay      *overlay.Result      `json:"overlay,omitempty"`
	Notification *app.Notification    `json:"notification,omitempty"`
}

// LocateRequest carries what the browser geolocation API reported: either
// a position or an error code.
type LocateRequest struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	ErrorCode *int     `json:"error_code,omitempty"`
}

// LocateResponse is returned by POST /api/locate.
type LocateResponse struct {
	Position     geo.Position     `json:"position"`
	View         maplayer.View    `json:"view"`
	Notification app.Notification `json:"notification"`
}

// CategoryOption is one entry of the category picker.
type CategoryOption struct {
	Value business.Category `json:"value"`
	Label string            `json:"label"`
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, ErrorBody{Error: msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// apiFail maps a domain error onto a status code and error body. msg is the
// user-facing text; the error's own text is used when msg is empty.
func apiFail(w http.ResponseWriter, err error, msg string) {
	if msg == "" {
		msg = err.Error()
	}

	var verr *business.ValidationError
	var gerr *geo.Error
	switch {
	case errors.As(err, &verr):
		apiJSON(w, ErrorBody{Error: verr.Message, Code: CodeValidation, Field: verr.Field}, http.StatusBadRequest)
	case errors.Is(err, business.ErrNotFound), errors.Is(err, maplayer.ErrUnknownMarker):
		apiJSON(w, ErrorBody{Error: app.MsgNotFound, Code: CodeNotFound}, http.StatusNotFound)
	case errors.Is(err, business.ErrAlreadyVisited):
		apiJSON(w, ErrorBody{Error: app.MsgAlreadyVisited, Code: CodeAlreadyVisited}, http.StatusConflict)
	case errors.As(err, &gerr):
		apiJSON(w, ErrorBody{Error: gerr.Code.Message(), Code: gerr.Code.String()}, http.StatusServiceUnavailable)
	case errors.Is(err, business.ErrUnavailable):
		apiJSON(w, ErrorBody{Error: msg, Code: CodeUnavailable}, http.StatusServiceUnavailable)
	default:
		slog.Error("api request failed", "error", err)
		apiError(w, "internal error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	opts := make([]CategoryOption, 0, len(business.AllCategories))
	for _, c := range business.AllCategories {
		opts = append(opts, CategoryOption{Value: c, Label: c.Label()})
	}
	apiJSON(w, opts, http.StatusOK)
}

// apiListBusinesses lists one category, or everything when none is given,
// and makes it the category shown on the map.
func (s *Server) apiListBusinesses(w http.ResponseWriter, r *http.Request) {
	c := business.CategoryAll
	if q := r.URL.Query().Get("category"); q != "" {
		c = business.ParseCategory(q)
	}

	recs, res := s.app.Filter(c)
	apiJSON(w, ListResponse{Businesses: recs, Overlay: &res}, http.StatusOK)
}

func (s *Server) apiCreateBusiness(w http.ResponseWriter, r *http.Request) {
	var d business.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		apiError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	d.Owner = auth.UserFromContext(r.Context())

	b, n, err := s.app.Submit(d)
	if err != nil {
		apiFail(w, err, n.Message)
		return
	}
	apiJSON(w, CreatedResponse{Business: b, Notification: n}, http.StatusCreated)
}

func (s *Server) apiGetBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid business ID", http.StatusBadRequest)
		return
	}

	d, err := s.app.Details(id)
	if err != nil {
		apiFail(w, err, "")
		return
	}
	apiJSON(w, d, http.StatusOK)
}

func (s *Server) apiVisitBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		apiError(w, "invalid business ID", http.StatusBadRequest)
		return
	}

	n, err := s.app.MarkVisited(id)
	if err != nil {
		apiFail(w, err, n.Message)
		return
	}
	apiJSON(w, n, http.StatusOK)
}

func (s *Server) apiFeatured(w http.ResponseWriter, r *http.Request) {
	limit := business.DefaultFeaturedLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			apiError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, n := s.app.Featured(limit)
	apiJSON(w, listResponse(recs, n), http.StatusOK)
}

func (s *Server) apiVisited(w http.ResponseWriter, r *http.Request) {
	recs, n := s.app.VisitedPlaces()
	apiJSON(w, listResponse(recs, n), http.StatusOK)
}

func listResponse(recs []*business.Business, n app.Notification) ListResponse {
	resp := ListResponse{Businesses: recs}
	if n.Message != "" {
		resp.Notification = &n
	}
	return resp
}

func (s *Server) apiStats(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, s.app.Stats(), http.StatusOK)
}

func (s *Server) apiMarkers(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, s.layer.GeoJSON(), http.StatusOK)
}

func (s *Server) apiActivateMarker(w http.ResponseWriter, r *http.Request) {
	d, err := s.app.ActivateMarker(overlay.Handle(chi.URLParam(r, "handle")))
	if err != nil {
		apiFail(w, err, "")
		return
	}
	apiJSON(w, d, http.StatusOK)
}

// apiLocate receives the outcome of the browser's position request and
// moves the map to it.
func (s *Server) apiLocate(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	pos, n, err := s.app.Locate(r.Context(), req.Provider())
	if err != nil {
		apiFail(w, err, n.Message)
		return
	}
	apiJSON(w, LocateResponse{Position: pos, View: s.layer.View(), Notification: n}, http.StatusOK)
}

// Provider replays the browser's answer. A request with neither a position
// nor an error code means the browser has no geolocation support.
func (req LocateRequest) Provider() geo.Provider {
	switch {
	case req.ErrorCode != nil:
		code := geo.ErrorCode(*req.ErrorCode)
		return geo.ProviderFunc(func(_ geo.Options, _ func(geo.Position), onError func(geo.ErrorCode)) {
			onError(code)
		})
	case req.Lat != nil && req.Lng != nil:
		return geo.Fixed{Pos: geo.Position{Lat: *req.Lat, Lng: *req.Lng}}
	default:
		return nil
	}
}
