package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
	"github.com/roteiro-viagens/itinerary-service/internal/schedule"
)

// ConflictAnnotation flags one scheduled event as conflicting, for UI
// highlighting.
type ConflictAnnotation struct {
	EventID string `json:"eventId"`
	Message string `json:"message"`
}

// ItineraryHandler serves the day-by-day itinerary of a group and routes
// mutations through the orchestrator.
type ItineraryHandler struct {
	store        *schedule.Store
	orchestrator *schedule.Orchestrator
	context      schedule.ContextStore
	logger       *zap.Logger
}

// NewItineraryHandler creates the itinerary handler.
func NewItineraryHandler(store *schedule.Store, orchestrator *schedule.Orchestrator, contextStore schedule.ContextStore, logger *zap.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		store:        store,
		orchestrator: orchestrator,
		context:      contextStore,
		logger:       logger.Named("itinerary_handler"),
	}
}

// loadGroup resolves the mission group providing the trip window. The query
// parameters start/end override the group's own window when present.
func (h *ItineraryHandler) loadGroup(r *http.Request) (*models.MissionGroup, error) {
	groupID := mux.Vars(r)["groupID"]
	group, err := h.context.GetGroupByID(r.Context(), groupID)
	if err != nil {
		return nil, err
	}
	if start := r.URL.Query().Get("start"); start != "" {
		group.StartDate = start
	}
	if end := r.URL.Query().Get("end"); end != "" {
		group.EndDate = end
	}
	return group, nil
}

// GetItinerary rebuilds and returns the group's schedule, with conflict
// flags recomputed over the fresh snapshot.
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	group, err := h.loadGroup(r)
	if err != nil {
		RespondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	snapshot, err := h.store.Refresh(r.Context(), group.ID, group.StartDate, group.EndDate)
	if err != nil {
		h.logger.Error("itinerary refresh failed",
			zap.String("group_id", group.ID),
			zap.Error(err))
		RespondWithError(w, http.StatusBadGateway, "failed to load itinerary")
		return
	}

	var annotations []ConflictAnnotation
	for _, ev := range snapshot.Events {
		result := schedule.CheckTimeConflict(ev, snapshot.Events)
		if result.HasConflict {
			annotations = append(annotations, ConflictAnnotation{
				EventID: ev.ID,
				Message: result.Message,
			})
		}
	}

	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"group":     group,
		"days":      snapshot.Days,
		"conflicts": annotations,
	})
}

// SaveEvents persists a batch of created/edited events for the group.
func (h *ItineraryHandler) SaveEvents(w http.ResponseWriter, r *http.Request) {
	group, err := h.loadGroup(r)
	if err != nil {
		RespondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	var req struct {
		Events []models.Event `json:"events"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Events) == 0 {
		RespondWithError(w, http.StatusBadRequest, "no events in batch")
		return
	}

	result, err := h.orchestrator.Save(r.Context(), group, req.Events)
	if err != nil {
		h.logger.Error("save batch failed",
			zap.String("group_id", group.ID),
			zap.Error(err))
		RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

// DeleteEvent removes one event and its linked dependents.
func (h *ItineraryHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	group, err := h.loadGroup(r)
	if err != nil {
		RespondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	eventID := mux.Vars(r)["eventID"]

	result, err := h.orchestrator.Delete(r.Context(), group, eventID)
	if err != nil {
		h.logger.Error("delete failed",
			zap.String("group_id", group.ID),
			zap.String("event_id", eventID),
			zap.Error(err))
		RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	RespondWithJSON(w, http.StatusOK, result)
}

// ToggleFavorite flips the favorite flag of one event.
func (h *ItineraryHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	groupID := vars["groupID"]
	eventID := vars["eventID"]

	var req struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orchestrator.ToggleFavorite(r.Context(), groupID, eventID, req.Favorite); err != nil {
		h.logger.Error("favorite toggle failed",
			zap.String("event_id", eventID),
			zap.Error(err))
		RespondWithError(w, http.StatusBadGateway, "failed to update favorite flag")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"eventId":  eventID,
		"favorite": req.Favorite,
	})
}

// CheckConflicts dry-runs the conflict detector for a candidate event
// against the group's current schedule. Nothing is persisted; the UI uses
// the result to enable or block the save action.
func (h *ItineraryHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	group, err := h.loadGroup(r)
	if err != nil {
		RespondWithError(w, http.StatusNotFound, "group not found")
		return
	}

	var candidate models.Event
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, ok := h.store.Current(group.ID)
	if !ok {
		snapshot, err = h.store.Refresh(r.Context(), group.ID, group.StartDate, group.EndDate)
		if err != nil {
			h.logger.Error("schedule load for conflict check failed",
				zap.String("group_id", group.ID),
				zap.Error(err))
			RespondWithError(w, http.StatusBadGateway, "failed to load schedule")
			return
		}
	}

	RespondWithJSON(w, http.StatusOK, schedule.CheckTimeConflict(candidate, snapshot.Events))
}
