package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"WaveFM/core/hls"
	"WaveFM/logger"
	"WaveFM/model"
	"WaveFM/repository"

	"github.com/gorilla/mux"
)

// APIHandler holds the dependencies for the HTTP API.
type APIHandler struct {
	renditions  repository.RenditionRepository
	preferences repository.PreferenceRepository
	hooks       *hls.LifecycleHooks
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(renditions repository.RenditionRepository, preferences repository.PreferenceRepository, hooks *hls.LifecycleHooks) *APIHandler {
	return &APIHandler{
		renditions:  renditions,
		preferences: preferences,
		hooks:       hooks,
	}
}

// streamResponse is the resolved playback answer for one request.
type streamResponse struct {
	AssetID          string            `json:"assetId"`
	URL              string            `json:"url"`
	QualityServed    model.QualityTier `json:"qualityServed"`
	PreferredQuality model.QualityTier `json:"preferredQuality"`
	QualityMatched   bool              `json:"qualityMatched"`
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResolveStreamHandler negotiates and returns the playlist URL for an asset.
// The requesting user comes from the X-User-ID header set by the auth layer
// in front of this service; without it the preference defaults to low.
func (h *APIHandler) ResolveStreamHandler(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["asset_id"]
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "missing asset id")
		return
	}

	preferred := model.QualityLow
	if userID, ok := requestingUserID(r); ok {
		p, err := h.preferences.Get(r.Context(), userID)
		if err != nil {
			logger.Error("failed to load quality preference",
				logger.Int64("userId", userID),
				logger.ErrorField(err))
		} else {
			preferred = p
		}
	}
	// An explicit quality query overrides the stored preference.
	if q := r.URL.Query().Get("quality"); q != "" {
		preferred = model.QualityTier(q)
	}

	renditions, err := h.renditions.ListByAsset(r.Context(), assetID)
	if err != nil {
		logger.Error("failed to list renditions",
			logger.String("assetId", assetID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load renditions")
		return
	}

	available := make([]model.QualityTier, 0, len(renditions))
	byQuality := make(map[model.QualityTier]*model.StreamRendition, len(renditions))
	for _, rend := range renditions {
		available = append(available, rend.Quality)
		byQuality[rend.Quality] = rend
	}

	selection, err := hls.Negotiate(preferred, available)
	if err != nil {
		if errors.Is(err, hls.ErrNoRendition) {
			writeError(w, http.StatusNotFound, "no rendition available yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "negotiation failed")
		return
	}

	writeJSON(w, http.StatusOK, streamResponse{
		AssetID:          assetID,
		URL:              byQuality[selection.Quality].PlaylistURL,
		QualityServed:    selection.Quality,
		PreferredQuality: preferred,
		QualityMatched:   selection.Matched,
	})
}

// ListRenditionsHandler returns the recorded renditions for an asset.
func (h *APIHandler) ListRenditionsHandler(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["asset_id"]
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "missing asset id")
		return
	}

	renditions, err := h.renditions.ListByAsset(r.Context(), assetID)
	if err != nil {
		logger.Error("failed to list renditions",
			logger.String("assetId", assetID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load renditions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assetId":    assetID,
		"renditions": renditions,
	})
}

// GetPreferenceHandler returns the requesting user's quality preference.
func (h *APIHandler) GetPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-User-ID header")
		return
	}

	quality, err := h.preferences.Get(r.Context(), userID)
	if err != nil {
		logger.Error("failed to load quality preference",
			logger.Int64("userId", userID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to load preference")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId":  userID,
		"quality": quality,
	})
}

// SetPreferenceHandler updates the requesting user's quality preference.
func (h *APIHandler) SetPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUserID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid X-User-ID header")
		return
	}

	var body struct {
		Quality model.QualityTier `json:"quality"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !body.Quality.Valid() {
		writeError(w, http.StatusBadRequest, "unknown quality tier")
		return
	}

	if err := h.preferences.Set(r.Context(), userID, body.Quality); err != nil {
		logger.Error("failed to save quality preference",
			logger.Int64("userId", userID),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to save preference")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"userId":  userID,
		"quality": body.Quality,
	})
}

// AssetEventHandler is the lifecycle hook ingress for the asset collaborator.
// Work is scheduled in the background; the response is always 202 on a
// recognized event.
func (h *APIHandler) AssetEventHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	assetID := vars["asset_id"]
	event := vars["event"]
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "missing asset id")
		return
	}

	var err error
	switch event {
	case "created":
		err = h.hooks.OnAssetCreated(r.Context(), assetID)
	case "approved":
		err = h.hooks.OnAssetApproved(r.Context(), assetID)
	case "updated":
		err = h.hooks.OnAssetUpdated(r.Context(), assetID)
	case "deleted":
		err = h.hooks.OnAssetDeleted(r.Context(), assetID)
	default:
		writeError(w, http.StatusBadRequest, "unknown lifecycle event")
		return
	}

	if err != nil {
		logger.Error("lifecycle hook failed",
			logger.String("assetId", assetID),
			logger.String("event", event),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to schedule work")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"assetId": assetID,
		"event":   event,
		"status":  "scheduled",
	})
}

// requestingUserID parses the caller-supplied user ID header.
func requestingUserID(r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
