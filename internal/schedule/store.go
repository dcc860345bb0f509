package schedule

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// EventStore is the persistence collaborator contract the itinerary core
// consumes. Implemented by the remote backend client and by the embedded
// SQLite store.
type EventStore interface {
	GetEventsByGroupID(ctx context.Context, groupID string) ([]models.EventWireRecord, error)
	CreateEvent(ctx context.Context, record models.EventWireRecord) (models.EventWireRecord, error)
	UpdateEvent(ctx context.Context, id string, patch map[string]any) error
	DeleteEvent(ctx context.Context, id string) error
}

// ContextStore supplies the mission/group/traveler context surrounding an
// itinerary. Display and assignment only; conflict logic never reads it.
type ContextStore interface {
	GetGroupByID(ctx context.Context, id string) (*models.MissionGroup, error)
	GetGroupsByMissionID(ctx context.Context, missionID string) ([]models.MissionGroup, error)
	GetAllTravelers(ctx context.Context, filter models.TravelerFilter) ([]models.Traveler, error)
}

// Snapshot is the last successfully loaded schedule of one group: the flat
// event list as fetched plus the day partition built from it.
type Snapshot struct {
	GroupID   string                `json:"groupId"`
	StartDate string                `json:"startDate"`
	EndDate   string                `json:"endDate"`
	Events    []models.Event        `json:"-"`
	Days      []models.DayItinerary `json:"days"`
}

// Store keeps per-group schedule snapshots. A snapshot carries no state of
// its own: every refresh rebuilds it wholesale from a fresh fetch, so the
// store is always at the backend's last known good state. The single
// exception is PatchFavorite, applied locally without a refetch.
type Store struct {
	backend EventStore
	logger  *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewStore creates a schedule store over the given persistence backend.
func NewStore(backend EventStore, logger *zap.Logger) *Store {
	return &Store{
		backend:   backend,
		logger:    logger.Named("schedule"),
		snapshots: make(map[string]*Snapshot),
	}
}

// Refresh refetches all events of a group and rebuilds its day partition for
// the given trip window. A malformed window yields an empty day list rather
// than an error surfacing to the caller's page.
func (s *Store) Refresh(ctx context.Context, groupID, startDate, endDate string) (*Snapshot, error) {
	records, err := s.backend.GetEventsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	events := models.ToEvents(records)

	days, err := BuildSchedule(events, startDate, endDate)
	if err != nil {
		s.logger.Warn("schedule build failed, serving empty day list",
			zap.String("group_id", groupID),
			zap.String("start", startDate),
			zap.String("end", endDate),
			zap.Error(err))
		days = nil
	}

	snapshot := &Snapshot{
		GroupID:   groupID,
		StartDate: startDate,
		EndDate:   endDate,
		Events:    events,
		Days:      days,
	}
	s.mu.Lock()
	s.snapshots[groupID] = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

// Current returns the last loaded snapshot for a group, if any.
func (s *Store) Current(groupID string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[groupID]
	return snapshot, ok
}

// PatchFavorite applies the favorite flag locally. The toggle cannot fail a
// conflict or linkage invariant, so it is the one mutation served
// optimistically instead of through a full refetch. Snapshots already handed
// out by Refresh or Current are shared with concurrent readers, so the patch
// never mutates them: it builds a fresh snapshot with copied slices and swaps
// the map entry.
func (s *Store) PatchFavorite(groupID, eventID string, favorite bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.snapshots[groupID]
	if !ok {
		return
	}

	next := &Snapshot{
		GroupID:   snapshot.GroupID,
		StartDate: snapshot.StartDate,
		EndDate:   snapshot.EndDate,
		Events:    make([]models.Event, len(snapshot.Events)),
		Days:      make([]models.DayItinerary, len(snapshot.Days)),
	}
	copy(next.Events, snapshot.Events)
	for i := range next.Events {
		if next.Events[i].ID == eventID {
			next.Events[i].IsFavorite = favorite
		}
	}
	for d, day := range snapshot.Days {
		events := make([]models.Event, len(day.Events))
		copy(events, day.Events)
		for i := range events {
			if events[i].ID == eventID {
				events[i].IsFavorite = favorite
			}
		}
		day.Events = events
		next.Days[d] = day
	}
	s.snapshots[groupID] = next
}
