package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fhuszti/assets-ms-go/internal/api_context"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
)

// GetJobStateHandler returns the state of an asset's processing job.
func GetJobStateHandler(svc port.JobInspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := api_context.AuthUserIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		st, err := svc.GetJobState(r.Context(), owner, id)
		if err != nil {
			if errors.Is(err, asset.ErrAssetNotFound) {
				WriteError(w, http.StatusNotFound, "Asset not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not inspect job", err)
			return
		}
		RespondJSON(w, http.StatusOK, st)
	}
}

// ListDeadLettersHandler pages through the jobs that exhausted their retries.
func ListDeadLettersHandler(svc port.JobInspector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", 1)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "page must be a number", nil)
			return
		}
		size, err := queryInt(r, "size", 20)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "size must be a number", nil)
			return
		}

		jobs, err := svc.ListDeadLetters(r.Context(), page, size)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list dead letters", err)
			return
		}
		if jobs == nil {
			jobs = []port.JobState{}
		}
		RespondJSON(w, http.StatusOK, jobs)
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
