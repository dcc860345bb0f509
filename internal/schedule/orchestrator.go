package schedule

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// MutationState tracks one logical user action through its persistence calls.
type MutationState string

const (
	StateIdle      MutationState = "idle"
	StateInFlight  MutationState = "in_flight"
	StateSucceeded MutationState = "succeeded"
	StateFailed    MutationState = "failed"
)

// MutationNotifier is told about completed mutation batches so interested
// services (notifications, audit) can react. Best-effort: publish failures
// are logged and never fail the mutation.
type MutationNotifier interface {
	PublishMutation(groupID, action string, eventIDs []string) error
}

// Result summarizes a completed mutation batch.
type Result struct {
	State      MutationState `json:"state"`
	CreatedIDs []string      `json:"createdIds,omitempty"`
	UpdatedIDs []string      `json:"updatedIds,omitempty"`
	DeletedIDs []string      `json:"deletedIds,omitempty"`
	Snapshot   *Snapshot     `json:"snapshot,omitempty"`
}

// Orchestrator sequences a user edit into ordered persistence calls,
// running linkage cascades between them and refreshing the schedule store
// afterwards. Mutations are serialized: cascade ordering stays deterministic
// and deletes never race against the same event id.
type Orchestrator struct {
	backend  EventStore
	store    *Store
	resolver *Resolver
	notifier MutationNotifier
	logger   *zap.Logger

	// mu serializes whole mutations; stateMu guards only the state field so
	// State stays readable while a batch is running.
	mu      sync.Mutex
	stateMu sync.Mutex
	state   MutationState
}

// NewOrchestrator wires the mutation pipeline. notifier may be nil.
func NewOrchestrator(backend EventStore, store *Store, resolver *Resolver, notifier MutationNotifier, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		backend:  backend,
		store:    store,
		resolver: resolver,
		notifier: notifier,
		logger:   logger.Named("orchestrator"),
		state:    StateIdle,
	}
}

// State returns the state of the most recent mutation, in_flight included.
func (o *Orchestrator) State() MutationState {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(state MutationState) {
	o.stateMu.Lock()
	o.state = state
	o.stateMu.Unlock()
}

// ensureSnapshot returns the group's current snapshot, fetching one when the
// group has not been loaded yet.
func (o *Orchestrator) ensureSnapshot(ctx context.Context, group *models.MissionGroup) (*Snapshot, error) {
	if snapshot, ok := o.store.Current(group.ID); ok {
		return snapshot, nil
	}
	return o.store.Refresh(ctx, group.ID, group.StartDate, group.EndDate)
}

// Save persists a batch of events for a group, in array order. Events
// matching an existing id are updated (after edit-time cascade checks); a
// transfer with no id match is attributed to the batch's non-transfer member
// and either updates the matched existing transfer or creates a new one;
// everything else is created. The schedule is refetched afterwards whenever
// at least one call committed.
func (o *Orchestrator) Save(ctx context.Context, group *models.MissionGroup, batch []models.Event) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setState(StateInFlight)

	var existing []models.Event
	if snapshot, err := o.ensureSnapshot(ctx, group); err != nil {
		o.logger.Warn("could not load current schedule before save",
			zap.String("group_id", group.ID),
			zap.Error(err))
	} else {
		existing = snapshot.Events
	}

	// The batch's non-transfer member anchors parent inference for any new
	// transfer riding along in the same batch.
	var inferenceParent *models.Event
	for i := range batch {
		if batch[i].Type.Canonical() != models.EventTypeTransfer {
			inferenceParent = &batch[i]
			break
		}
	}

	result := &Result{}
	var firstErr error
	committed := 0

	for i := range batch {
		ev := batch[i]
		ev.GroupID = group.ID

		previous := findByID(existing, ev.ID)
		switch {
		case ev.ID != "" && previous != nil:
			if deletedID := o.resolver.CascadeEdit(ctx, ev, *previous, existing); deletedID != "" {
				result.DeletedIDs = append(result.DeletedIDs, deletedID)
				committed++
			}
			if err := o.backend.UpdateEvent(ctx, ev.ID, ev.ToWire().AsPatch()); err != nil {
				o.logger.Error("event update failed",
					zap.String("event_id", ev.ID),
					zap.Error(err))
				if firstErr == nil {
					firstErr = fmt.Errorf("updating event %s: %w", ev.ID, err)
				}
				continue
			}
			result.UpdatedIDs = append(result.UpdatedIDs, ev.ID)
			committed++

		case ev.Type.Canonical() == models.EventTypeTransfer:
			var matched *models.Event
			if inferenceParent != nil {
				matched = MatchExistingTransfer(*inferenceParent, existing)
			}
			if matched != nil {
				if err := o.backend.UpdateEvent(ctx, matched.ID, ev.ToWire().AsPatch()); err != nil {
					o.logger.Error("transfer update failed",
						zap.String("event_id", matched.ID),
						zap.Error(err))
					if firstErr == nil {
						firstErr = fmt.Errorf("updating transfer %s: %w", matched.ID, err)
					}
					continue
				}
				result.UpdatedIDs = append(result.UpdatedIDs, matched.ID)
				committed++
				continue
			}
			created, err := o.backend.CreateEvent(ctx, ev.ToWire())
			if err != nil {
				o.logger.Error("transfer create failed", zap.Error(err))
				if firstErr == nil {
					firstErr = fmt.Errorf("creating transfer: %w", err)
				}
				continue
			}
			result.CreatedIDs = append(result.CreatedIDs, created.ID)
			committed++

		default:
			created, err := o.backend.CreateEvent(ctx, ev.ToWire())
			if err != nil {
				o.logger.Error("event create failed",
					zap.String("title", ev.Title),
					zap.Error(err))
				if firstErr == nil {
					firstErr = fmt.Errorf("creating event: %w", err)
				}
				continue
			}
			result.CreatedIDs = append(result.CreatedIDs, created.ID)
			committed++
		}
	}

	if committed > 0 || firstErr == nil {
		o.refresh(ctx, group, result)
	}
	o.finish(group.ID, "saved", append(result.CreatedIDs, result.UpdatedIDs...), result, firstErr)
	return result, firstErr
}

// Delete removes an event and cascades to its dependents: the primary delete
// goes first, then each dependent delete is awaited in turn. A failed
// primary delete aborts the whole action with no refetch; cascade failures
// are logged and skipped.
func (o *Orchestrator) Delete(ctx context.Context, group *models.MissionGroup, eventID string) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setState(StateInFlight)

	var existing []models.Event
	if snapshot, err := o.ensureSnapshot(ctx, group); err != nil {
		o.logger.Warn("could not load current schedule before delete",
			zap.String("group_id", group.ID),
			zap.Error(err))
	} else {
		existing = snapshot.Events
	}

	result := &Result{}
	if err := o.backend.DeleteEvent(ctx, eventID); err != nil {
		err = fmt.Errorf("deleting event %s: %w", eventID, err)
		o.finish(group.ID, "deleted", nil, result, err)
		return result, err
	}
	result.DeletedIDs = append(result.DeletedIDs, eventID)

	if target := findByID(existing, eventID); target != nil {
		cascaded := o.resolver.CascadeDelete(ctx, *target, existing)
		result.DeletedIDs = append(result.DeletedIDs, cascaded...)
	}

	o.refresh(ctx, group, result)
	o.finish(group.ID, "deleted", result.DeletedIDs, result, nil)
	return result, nil
}

// ToggleFavorite flips an event's favorite flag. This is the one optimistic
// path: the local snapshot is patched directly and no refetch is issued,
// because the flag cannot violate a conflict or linkage invariant.
func (o *Orchestrator) ToggleFavorite(ctx context.Context, groupID, eventID string, favorite bool) error {
	o.store.PatchFavorite(groupID, eventID, favorite)
	if err := o.backend.UpdateEvent(ctx, eventID, map[string]any{"favorito": favorite}); err != nil {
		return fmt.Errorf("updating favorite flag on %s: %w", eventID, err)
	}
	return nil
}

// refresh rebuilds the group's schedule after a mutation batch.
func (o *Orchestrator) refresh(ctx context.Context, group *models.MissionGroup, result *Result) {
	snapshot, err := o.store.Refresh(ctx, group.ID, group.StartDate, group.EndDate)
	if err != nil {
		// The store keeps its last good snapshot; the next read retries.
		o.logger.Warn("post-mutation refresh failed",
			zap.String("group_id", group.ID),
			zap.Error(err))
		return
	}
	result.Snapshot = snapshot
}

// finish records the terminal state and notifies listeners.
func (o *Orchestrator) finish(groupID, action string, eventIDs []string, result *Result, err error) {
	state := StateSucceeded
	if err != nil {
		state = StateFailed
	}
	o.setState(state)
	result.State = state

	if o.notifier != nil && err == nil {
		if pubErr := o.notifier.PublishMutation(groupID, action, eventIDs); pubErr != nil {
			o.logger.Warn("mutation notification failed",
				zap.String("group_id", groupID),
				zap.String("action", action),
				zap.Error(pubErr))
		}
	}
}
