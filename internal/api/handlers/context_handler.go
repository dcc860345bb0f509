package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
	"github.com/roteiro-viagens/itinerary-service/internal/schedule"
)

// ContextHandler exposes the read-only mission/group/traveler context the
// dashboard needs around the itinerary. All writes to this data live in the
// mission service.
type ContextHandler struct {
	context schedule.ContextStore
	logger  *zap.Logger
}

// NewContextHandler creates the context handler.
func NewContextHandler(contextStore schedule.ContextStore, logger *zap.Logger) *ContextHandler {
	return &ContextHandler{
		context: contextStore,
		logger:  logger.Named("context_handler"),
	}
}

// GetGroup returns one mission group.
func (h *ContextHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupID"]

	group, err := h.context.GetGroupByID(r.Context(), groupID)
	if err != nil {
		h.logger.Warn("group lookup failed", zap.String("group_id", groupID), zap.Error(err))
		RespondWithError(w, http.StatusNotFound, "group not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"group": group})
}

// ListMissionGroups returns all groups of a mission.
func (h *ContextHandler) ListMissionGroups(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["missionID"]

	groups, err := h.context.GetGroupsByMissionID(r.Context(), missionID)
	if err != nil {
		h.logger.Error("mission groups lookup failed",
			zap.String("mission_id", missionID),
			zap.Error(err))
		RespondWithError(w, http.StatusBadGateway, "failed to list groups")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// ListTravelers returns travelers filtered by mission_id or group_id.
func (h *ContextHandler) ListTravelers(w http.ResponseWriter, r *http.Request) {
	filter := models.TravelerFilter{
		MissionID: r.URL.Query().Get("mission_id"),
		GroupID:   r.URL.Query().Get("group_id"),
	}
	if filter.MissionID == "" && filter.GroupID == "" {
		RespondWithError(w, http.StatusBadRequest, "mission_id or group_id is required")
		return
	}

	travelers, err := h.context.GetAllTravelers(r.Context(), filter)
	if err != nil {
		h.logger.Error("travelers lookup failed", zap.Error(err))
		RespondWithError(w, http.StatusBadGateway, "failed to list travelers")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{"travelers": travelers})
}
