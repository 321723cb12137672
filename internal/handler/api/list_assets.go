package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	"github.com/fhuszti/assets-ms-go/internal/validation"
)

// ListAssetsHandler returns the caller's whole library, newest first.
func ListAssetsHandler(svc port.AssetBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		assets, err := svc.ListAssets(r.Context(), owner)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list assets", err)
			return
		}

		RespondJSON(w, http.StatusOK, assets)
		logger.Infof(r.Context(), "✅  Listed %d assets", len(assets))
	}
}

// ListDeviceAssetsHandler returns the device asset ids already uploaded from one device,
// so the client can skip them.
func ListDeviceAssetsHandler(svc port.AssetBrowser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		deviceID := chi.URLParam(r, "deviceId")
		if err := validation.ValidateVar(deviceID, "required,max=255"); err != nil {
			WriteError(w, http.StatusBadRequest, "a valid device id is required", nil)
			return
		}

		ids, err := svc.ListDeviceAssetIDs(r.Context(), owner, deviceID)
		if err != nil {
			if errors.Is(err, asset.ErrInvalidInput) {
				WriteError(w, http.StatusBadRequest, "a valid device id is required", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not list device assets", err)
			return
		}

		RespondJSON(w, http.StatusOK, ids)
		logger.Infof(r.Context(), "✅  Listed %d assets of device %q", len(ids), deviceID)
	}
}
