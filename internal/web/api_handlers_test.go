package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evcraddock/emprende-tacna/internal/app"
	"github.com/evcraddock/emprende-tacna/internal/auth"
	"github.com/evcraddock/emprende-tacna/internal/business"
	"github.com/evcraddock/emprende-tacna/internal/geo"
	"github.com/evcraddock/emprende-tacna/internal/maplayer"
)

func apiRequest(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	reqBody := &bytes.Buffer{}
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}

	r := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func validDraft(name string) business.Draft {
	return business.Draft{
		Name:        name,
		Type:        business.Cafe,
		Description: "Café pasado y postres tacneños",
		Address:     "Calle Zela 123",
	}
}

func createBusiness(t *testing.T, srv *Server, token string, d business.Draft) *business.Business {
	t.Helper()
	w := apiRequest(t, srv, "POST", "/api/businesses", token, d)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var resp CreatedResponse
	decode(t, w, &resp)
	return resp.Business
}

func TestAPICreateBusiness(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/businesses", "", validDraft("Café del Sur"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp CreatedResponse
	decode(t, w, &resp)
	if resp.Business.Name != "Café del Sur" || resp.Business.ID == 0 {
		t.Errorf("business = %+v", resp.Business)
	}
	if resp.Notification.Message != app.MsgCreated {
		t.Errorf("notification = %+v", resp.Notification)
	}
}

func TestAPICreateBusinessValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name  string
		draft business.Draft
		field string
	}{
		{"short name", business.Draft{Name: "ab"}, business.FieldName},
		{"bad type", business.Draft{Name: "Café", Type: "bar"}, business.FieldType},
		{"short description", business.Draft{Name: "Café", Type: business.Cafe, Description: "corto"}, business.FieldDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, "POST", "/api/businesses", "", tt.draft)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var body ErrorBody
			decode(t, w, &body)
			if body.Code != CodeValidation || body.Field != tt.field || body.Error == "" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestAPICreateBusinessInvalidJSON(t *testing.T) {
	srv := testServer(t)

	r := httptest.NewRequest("POST", "/api/businesses", strings.NewReader("{"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAPIListBusinessesFilters(t *testing.T) {
	srv := testServer(t)
	createBusiness(t, srv, "", validDraft("Café Uno"))
	d := validDraft("Tienda Dos")
	d.Type = business.Tienda
	createBusiness(t, srv, "", d)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?category=all", 2},
		{"?category=cafe", 1},
		{"?category=TIENDA", 1},
		{"?category=salud", 0},
		{"?category=bar", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := apiRequest(t, srv, "GET", "/api/businesses"+tt.query, "", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var resp ListResponse
			decode(t, w, &resp)
			if len(resp.Businesses) != tt.want {
				t.Errorf("got %d businesses, want %d", len(resp.Businesses), tt.want)
			}
			if resp.Businesses == nil {
				t.Error("businesses should encode as an array")
			}

			var fc maplayer.FeatureCollection
			decode(t, apiRequest(t, srv, "GET", "/api/markers", "", nil), &fc)
			if len(fc.Features) != tt.want {
				t.Errorf("map shows %d markers, want %d", len(fc.Features), tt.want)
			}
		})
	}
}

func TestAPIGetBusiness(t *testing.T) {
	srv := testServer(t)
	b := createBusiness(t, srv, "", validDraft("Café del Sur"))

	w := apiRequest(t, srv, "GET", fmt.Sprintf("/api/businesses/%d", b.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var d app.Details
	decode(t, w, &d)
	if d.Name != b.Name || d.PhoneText != app.MsgNoPhone || d.HoursText != app.MsgNoHours {
		t.Errorf("details = %+v", d)
	}
	if !strings.Contains(d.DirectionsURL, "destination=") {
		t.Errorf("directions = %q", d.DirectionsURL)
	}
}

func TestAPIGetBusinessErrors(t *testing.T) {
	srv := testServer(t)

	if w := apiRequest(t, srv, "GET", "/api/businesses/abc", "", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}

	w := apiRequest(t, srv, "GET", "/api/businesses/42", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", w.Code)
	}
	var body ErrorBody
	decode(t, w, &body)
	if body.Code != CodeNotFound {
		t.Errorf("code = %q", body.Code)
	}
}

func TestAPIVisitBusiness(t *testing.T) {
	srv := testServer(t)
	b := createBusiness(t, srv, "", validDraft("Café del Sur"))
	path := fmt.Sprintf("/api/businesses/%d/visit", b.ID)

	w := apiRequest(t, srv, "POST", path, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first visit status = %d", w.Code)
	}
	var n app.Notification
	decode(t, w, &n)
	if n.Message != app.MsgVisited {
		t.Errorf("notification = %+v", n)
	}

	w = apiRequest(t, srv, "POST", path, "", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second visit status = %d, want 409", w.Code)
	}
	var body ErrorBody
	decode(t, w, &body)
	if body.Code != CodeAlreadyVisited || body.Error != app.MsgAlreadyVisited {
		t.Errorf("body = %+v", body)
	}

	var stats business.Stats
	decode(t, apiRequest(t, srv, "GET", "/api/stats", "", nil), &stats)
	if stats != (business.Stats{Businesses: 1, Visited: 1}) {
		t.Errorf("stats = %+v", stats)
	}

	var visited ListResponse
	decode(t, apiRequest(t, srv, "GET", "/api/visited", "", nil), &visited)
	if len(visited.Businesses) != 1 || visited.Businesses[0].ID != b.ID {
		t.Errorf("visited = %+v", visited.Businesses)
	}
}

func TestAPIVisitUnknownIDIsAccepted(t *testing.T) {
	srv := testServer(t)

	if w := apiRequest(t, srv, "POST", "/api/businesses/42/visit", "", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAPIFeatured(t *testing.T) {
	srv := testServer(t)

	var empty ListResponse
	decode(t, apiRequest(t, srv, "GET", "/api/featured", "", nil), &empty)
	if empty.Notification == nil || empty.Notification.Message != app.MsgNoBusinesses {
		t.Errorf("empty featured = %+v", empty)
	}

	for i := 0; i < 8; i++ {
		createBusiness(t, srv, "", validDraft(fmt.Sprintf("Negocio %d", i)))
	}

	tests := []struct {
		query    string
		wantCode int
		want     int
	}{
		{"", http.StatusOK, 6},
		{"?limit=3", http.StatusOK, 3},
		{"?limit=20", http.StatusOK, 8},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=x", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := apiRequest(t, srv, "GET", "/api/featured"+tt.query, "", nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp ListResponse
			decode(t, w, &resp)
			if len(resp.Businesses) != tt.want {
				t.Errorf("got %d, want %d", len(resp.Businesses), tt.want)
			}
		})
	}
}

func TestAPICategories(t *testing.T) {
	srv := testServer(t)

	var opts []CategoryOption
	decode(t, apiRequest(t, srv, "GET", "/api/categories", "", nil), &opts)
	if len(opts) != len(business.AllCategories) {
		t.Fatalf("got %d categories", len(opts))
	}
	if opts[0].Value != business.Restaurante || opts[0].Label != business.Restaurante.Label() {
		t.Errorf("first = %+v", opts[0])
	}
}

func TestAPIMarkersAndActivate(t *testing.T) {
	srv := testServer(t)
	b := createBusiness(t, srv, "", validDraft("Café del Sur"))

	var fc maplayer.FeatureCollection
	decode(t, apiRequest(t, srv, "GET", "/api/markers", "", nil), &fc)
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("markers = %+v", fc)
	}
	f := fc.Features[0]
	if f.Geometry.Coordinates != [2]float64{b.Lng, b.Lat} {
		t.Errorf("coordinates = %v", f.Geometry.Coordinates)
	}
	if f.Properties.Color != "orange" {
		t.Errorf("color = %q, want orange", f.Properties.Color)
	}
	if !strings.Contains(f.Properties.Popup, fmt.Sprintf(`data-business-id="%d"`, b.ID)) {
		t.Errorf("popup = %q", f.Properties.Popup)
	}
	if fc.View.Zoom != geo.DefaultZoom {
		t.Errorf("view = %+v", fc.View)
	}

	w := apiRequest(t, srv, "POST", "/api/markers/"+f.Properties.Handle+"/activate", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("activate status = %d", w.Code)
	}
	var d app.Details
	decode(t, w, &d)
	if d.ID != b.ID {
		t.Errorf("activated %d, want %d", d.ID, b.ID)
	}

	if w := apiRequest(t, srv, "POST", "/api/markers/nope/activate", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown marker status = %d, want 404", w.Code)
	}
}

func TestAPILocate(t *testing.T) {
	srv := testServer(t)

	lat, lng := -18.01, -70.25
	w := apiRequest(t, srv, "POST", "/api/locate", "", LocateRequest{Lat: &lat, Lng: &lng})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp LocateResponse
	decode(t, w, &resp)
	if resp.Position != (geo.Position{Lat: lat, Lng: lng}) {
		t.Errorf("position = %+v", resp.Position)
	}
	if resp.View.Zoom != geo.LocateZoom || resp.Notification.Message != app.MsgLocated {
		t.Errorf("resp = %+v", resp)
	}
}

func TestAPILocateErrors(t *testing.T) {
	srv := testServer(t)

	code := int(geo.PermissionDenied)
	tests := []struct {
		name     string
		req      LocateRequest
		wantCode string
		wantMsg  string
	}{
		{"permission denied", LocateRequest{ErrorCode: &code}, "permission_denied", geo.PermissionDenied.Message()},
		{"unsupported", LocateRequest{}, "unsupported", geo.Unsupported.Message()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, "POST", "/api/locate", "", tt.req)
			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want 503", w.Code)
			}
			var body ErrorBody
			decode(t, w, &body)
			if body.Code != tt.wantCode || body.Error != tt.wantMsg {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestAPIUnknownRoute(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "GET", "/api/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
}

func TestAPIRequireAuth(t *testing.T) {
	srv := testServerWithConfig(t, Config{Auth: auth.Config{RequireAuth: true, FailuresPerMinute: 10}})
	raw, _, err := srv.apiKeys.Create("test", "dueno@example.com")
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}

	if w := apiRequest(t, srv, "POST", "/api/businesses", "", validDraft("Café del Sur")); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create status = %d, want 401", w.Code)
	}
	if w := apiRequest(t, srv, "POST", "/api/businesses", "et_bogus", validDraft("Café del Sur")); w.Code != http.StatusUnauthorized {
		t.Errorf("bad key create status = %d, want 401", w.Code)
	}
	if w := apiRequest(t, srv, "GET", "/api/stats", "", nil); w.Code != http.StatusOK {
		t.Errorf("anonymous read status = %d, want 200", w.Code)
	}

	b := createBusiness(t, srv, raw, validDraft("Café del Sur"))
	if b.Owner != "dueno@example.com" {
		t.Errorf("owner = %q", b.Owner)
	}

	// The map page sends no credentials for marker clicks or locate.
	var fc maplayer.FeatureCollection
	decode(t, apiRequest(t, srv, "GET", "/api/markers", "", nil), &fc)
	if len(fc.Features) != 1 {
		t.Fatalf("markers = %+v", fc)
	}
	if w := apiRequest(t, srv, "POST", "/api/markers/"+fc.Features[0].Properties.Handle+"/activate", "", nil); w.Code != http.StatusOK {
		t.Errorf("anonymous activate status = %d, want 200", w.Code)
	}
	lat, lng := -18.01, -70.25
	if w := apiRequest(t, srv, "POST", "/api/locate", "", LocateRequest{Lat: &lat, Lng: &lng}); w.Code != http.StatusOK {
		t.Errorf("anonymous locate status = %d, want 200", w.Code)
	}
	if w := apiRequest(t, srv, "POST", fmt.Sprintf("/api/businesses/%d/visit", b.ID), "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous visit status = %d, want 401", w.Code)
	}
}

func TestAPIOwnerOptionalWithoutRequireAuth(t *testing.T) {
	srv := testServer(t)
	raw, _, err := srv.apiKeys.Create("test", "dueno@example.com")
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}

	anon := createBusiness(t, srv, "", validDraft("Café Anónimo"))
	if anon.Owner != "" {
		t.Errorf("anonymous owner = %q", anon.Owner)
	}
	owned := createBusiness(t, srv, raw, validDraft("Café con Dueño"))
	if owned.Owner != "dueno@example.com" {
		t.Errorf("owner = %q", owned.Owner)
	}
	if w := apiRequest(t, srv, "GET", "/api/stats", "et_bogus", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad key status = %d, want 401", w.Code)
	}
}

func TestAPIPersistsAcrossServers(t *testing.T) {
	d := testDB(t)
	srv, err := NewServer(d, Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	b := createBusiness(t, srv, "", validDraft("Café del Sur"))
	apiRequest(t, srv, "POST", fmt.Sprintf("/api/businesses/%d/visit", b.ID), "", nil)

	again, err := NewServer(d, Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	var stats business.Stats
	decode(t, apiRequest(t, again, "GET", "/api/stats", "", nil), &stats)
	if stats != (business.Stats{Businesses: 1, Visited: 1}) {
		t.Errorf("stats after restart = %+v", stats)
	}
}

func TestAPIFailCancelledLocate(t *testing.T) {
	w := httptest.NewRecorder()
	apiFail(w, &geo.Error{Code: geo.Timeout, Err: context.Canceled}, "")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body ErrorBody
	decode(t, w, &body)
	if body.Code != "timeout" || body.Error != geo.Timeout.Message() {
		t.Errorf("body = %+v", body)
	}
}
