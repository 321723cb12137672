package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fhuszti/assets-ms-go/internal/mock"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

func withDeviceID(r *http.Request, deviceID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("deviceId", deviceID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestListAssetsHandler(t *testing.T) {
	id := uuid.NewUUID()
	svc := &mock.AssetBrowser{Assets: []model.AssetDetails{{Asset: model.Asset{ID: id, DeviceAssetID: "img-1"}}}}
	rec := httptest.NewRecorder()
	ListAssetsHandler(svc).ServeHTTP(rec, withOwner(httptest.NewRequest(http.MethodGet, "/assets", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), id.String()) {
		t.Errorf("body %q does not list %s", rec.Body.String(), id)
	}
	if svc.OwnerID != ownerID {
		t.Errorf("listing not scoped to the caller: %s", svc.OwnerID)
	}

	rec = httptest.NewRecorder()
	ListAssetsHandler(&mock.AssetBrowser{Err: errors.New("db")}).
		ServeHTTP(rec, withOwner(httptest.NewRequest(http.MethodGet, "/assets", nil)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}

	rec = httptest.NewRecorder()
	ListAssetsHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestListDeviceAssetsHandler(t *testing.T) {
	tests := []struct {
		name       string
		deviceID   string
		svc        *mock.AssetBrowser
		wantStatus int
		wantBody   string
	}{
		{"ok", "pixel-7", &mock.AssetBrowser{DeviceIDs: []string{"img-2", "img-1"}}, http.StatusOK, `["img-2","img-1"]`},
		{"too long", strings.Repeat("x", 256), &mock.AssetBrowser{}, http.StatusBadRequest, "device id"},
		{"blank", " ", &mock.AssetBrowser{Err: fmt.Errorf("%w: blank", asset.ErrInvalidInput)}, http.StatusBadRequest, "device id"},
		{"repo down", "pixel-7", &mock.AssetBrowser{Err: errors.New("db")}, http.StatusInternalServerError, "Could not list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/assets/device/x", nil)
			rec := httptest.NewRecorder()
			ListDeviceAssetsHandler(tt.svc).ServeHTTP(rec, withDeviceID(withOwner(req), tt.deviceID))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSearchAssetsHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *mock.AssetBrowser
		wantStatus int
		wantBody   string
	}{
		{"term", `{"searchTerm":"dog"}`, &mock.AssetBrowser{Assets: []model.AssetDetails{}}, http.StatusOK, `[]`},
		{"bounds", `{"bounds":{"minLat":48,"maxLat":49,"minLon":2,"maxLon":3}}`, &mock.AssetBrowser{}, http.StatusOK, ``},
		{"nothing to search", `{}`, &mock.AssetBrowser{}, http.StatusBadRequest, `"searchTerm":"required_without"`},
		{"latitude out of range", `{"bounds":{"minLat":-91,"maxLat":0}}`, &mock.AssetBrowser{}, http.StatusBadRequest, `"minLat":"gte"`},
		{"inverted longitudes", `{"bounds":{"minLon":10,"maxLon":5}}`, &mock.AssetBrowser{}, http.StatusBadRequest, `"maxLon":"gtefield"`},
		{"bad json", `{`, &mock.AssetBrowser{}, http.StatusBadRequest, "invalid request payload"},
		{"rejected by service", `{"searchTerm":"dog"}`, &mock.AssetBrowser{Err: fmt.Errorf("%w: nope", asset.ErrInvalidInput)}, http.StatusBadRequest, "invalid asset input"},
		{"repo down", `{"searchTerm":"dog"}`, &mock.AssetBrowser{Err: errors.New("db")}, http.StatusInternalServerError, "Could not search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/assets/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			SearchAssetsHandler(tt.svc).ServeHTTP(rec, withOwner(req))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSearchAssetsHandler_BuildsQuery(t *testing.T) {
	svc := &mock.AssetBrowser{}
	body := `{"searchTerm":"Beach","bounds":{"minLat":48,"maxLat":49,"minLon":2,"maxLon":3}}`
	req := httptest.NewRequest(http.MethodPost, "/assets/search", strings.NewReader(body))
	SearchAssetsHandler(svc).ServeHTTP(httptest.NewRecorder(), withOwner(req))

	if svc.OwnerID != ownerID || svc.Query.Term != "Beach" {
		t.Fatalf("unexpected call: %+v", svc)
	}
	if b := svc.Query.Bounds; b == nil || b.MinLat != 48 || b.MaxLon != 3 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestCuratedHandlers(t *testing.T) {
	id := uuid.NewUUID()
	svc := &mock.AssetBrowser{
		Objects:   []model.CuratedObject{{Object: "dog", AssetID: id}},
		Locations: []model.AssetLocation{{AssetID: id, Latitude: 48.85, Longitude: 2.35}},
		Terms:     []string{"canon", "dog"},
	}
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantBody string
	}{
		{"objects", CuratedObjectsHandler(svc), `"object":"dog"`},
		{"locations", CuratedLocationsHandler(svc), `"latitude":48.85`},
		{"terms", SearchTermsHandler(svc), `["canon","dog"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, withOwner(httptest.NewRequest(http.MethodGet, "/", nil)))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}

	failing := &mock.AssetBrowser{Err: errors.New("db")}
	for _, h := range []http.HandlerFunc{CuratedObjectsHandler(failing), CuratedLocationsHandler(failing), SearchTermsHandler(failing)} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withOwner(httptest.NewRequest(http.MethodGet, "/", nil)))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want 500", rec.Code)
		}
	}
}
