package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
)

type SearchAssetsRequest struct {
	SearchTerm string         `json:"searchTerm" validate:"required_without=Bounds,max=255"`
	Bounds     *BoundsRequest `json:"bounds" validate:"omitempty"`
}

type BoundsRequest struct {
	MinLat float64 `json:"minLat" validate:"gte=-90,lte=90"`
	MaxLat float64 `json:"maxLat" validate:"gte=-90,lte=90,gtefield=MinLat"`
	MinLon float64 `json:"minLon" validate:"gte=-180,lte=180"`
	MaxLon float64 `json:"maxLon" validate:"gte=-180,lte=180,gtefield=MinLon"`
}

func (req SearchAssetsRequest) query() model.AssetQuery {
	q := model.AssetQuery{Term: req.SearchTerm}
	if b := req.Bounds; b != nil {
		q.Bounds = &model.GeoBounds{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLon: b.MinLon, MaxLon: b.MaxLon}
	}
	return q
}

// SearchAssetsHandler finds the caller's assets by tag, camera or place.
func SearchAssetsHandler(svc port.AssetBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		var req SearchAssetsRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		assets, err := svc.SearchAssets(r.Context(), owner, req.query())
		if err != nil {
			if errors.Is(err, asset.ErrInvalidInput) {
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not search assets", err)
			return
		}

		RespondJSON(w, http.StatusOK, assets)
		logger.Infof(r.Context(), "✅  Search %q matched %d assets", req.SearchTerm, len(assets))
	}
}

// CuratedObjectsHandler lists every tag of the library with a representative asset.
func CuratedObjectsHandler(svc port.AssetBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		objects, err := svc.CuratedObjects(r.Context(), owner)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list objects", err)
			return
		}
		RespondJSON(w, http.StatusOK, objects)
	}
}

func CuratedLocationsHandler(svc port.AssetBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		locations, err := svc.CuratedLocations(r.Context(), owner)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list locations", err)
			return
		}
		RespondJSON(w, http.StatusOK, locations)
	}
}

// SearchTermsHandler feeds search suggestions.
func SearchTermsHandler(svc port.AssetBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		terms, err := svc.SearchTerms(r.Context(), owner)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list search terms", err)
			return
		}
		RespondJSON(w, http.StatusOK, terms)
	}
}
