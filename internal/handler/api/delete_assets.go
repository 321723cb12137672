package api

import (
	"net/http"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type DeleteAssetsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=1000,dive,uuid"`
}

// DeleteAssetsHandler deletes assets by id and reports the outcome of each.
func DeleteAssetsHandler(svc port.AssetDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		var req DeleteAssetsRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		ids := make([]uuid.UUID, 0, len(req.IDs))
		for _, raw := range req.IDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid request", err)
				return
			}
			ids = append(ids, id)
		}

		results, err := svc.DeleteAssets(r.Context(), port.DeleteAssetsInput{OwnerID: owner, IDs: ids})
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to delete assets", err)
			return
		}

		RespondJSON(w, http.StatusOK, results)
		logger.Infof(r.Context(), "✅  Processed deletion of %d assets", len(results))
	}
}
