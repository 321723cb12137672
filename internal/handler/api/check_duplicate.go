package api

import (
	"net/http"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

type CheckDuplicateRequest struct {
	DeviceAssetID string `json:"deviceAssetId" validate:"required,max=255"`
}

type CheckDuplicateResponse struct {
	IsExist bool `json:"isExist"`
}

// CheckDuplicateHandler lets a client skip an upload it already performed.
func CheckDuplicateHandler(svc port.DuplicateChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		var req CheckDuplicateRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		exists, err := svc.IsDuplicate(r.Context(), owner, req.DeviceAssetID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "could not check for duplicates", err)
			return
		}

		RespondJSON(w, http.StatusOK, CheckDuplicateResponse{IsExist: exists})
		logger.Infof(r.Context(), "✅  Duplicate check for %q: %v", req.DeviceAssetID, exists)
	}
}
