package schedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// transferParentPriority is the order in which a deleted transfer's parent is
// searched. Only the first match is patched.
var transferParentPriority = []models.EventType{
	models.EventTypeFlight,
	models.EventTypeHotel,
	models.EventTypeFood,
	models.EventTypeLeisure,
	models.EventTypeVisit,
}

// Resolver locates the dependents of a parent event (its transfer, its
// paired hotel row, the parent of an orphaned transfer) and cascades
// create/update/delete operations onto them. Every lookup is best-effort: a
// missing sibling skips the step, it never raises, and completed steps are
// not rolled back when a later one fails.
type Resolver struct {
	backend EventStore
	logger  *zap.Logger
}

// NewResolver creates a linkage resolver over the given persistence backend.
func NewResolver(backend EventStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		backend: backend,
		logger:  logger.Named("linkage"),
	}
}

// timeMatchesFlightArrival reports whether a transfer's start time matches a
// flight's arrival (toTime, or endTime for legacy rows).
func timeMatchesFlightArrival(transfer, flight models.Event) bool {
	if flight.ToTime != "" && transfer.Time == flight.ToTime {
		return true
	}
	return flight.EndTime != "" && transfer.Time == flight.EndTime
}

// timeMatchesActivity reports whether a transfer's start time matches an
// activity's declared transfer time, falling back to the activity's own time
// for rows predating the transferTime field.
func timeMatchesActivity(transfer, activity models.Event) bool {
	if activity.TransferTime != "" {
		return transfer.Time == activity.TransferTime
	}
	return transfer.Time == activity.Time
}

// matchesLocationOrTitle reports whether a transfer shares the parent's
// location or title. This is the edit-time disambiguation: transfers carry
// no foreign key, so incidental field equality is all there is.
func matchesLocationOrTitle(transfer, parent models.Event) bool {
	if transfer.Location != "" && transfer.Location == parent.Location {
		return true
	}
	return transfer.Title != "" && transfer.Title == parent.Title
}

// transferDayOf resolves the day a parent's transfer lives on.
func transferDayOf(parent models.Event) string {
	if parent.TransferDate != "" {
		return normalizeDateKey(parent.TransferDate)
	}
	return normalizeDateKey(parent.Date)
}

// FindFlightTransfer locates the transfer owned by a flight: same day,
// start time equal to the flight's arrival time.
func FindFlightTransfer(flight models.Event, all []models.Event) *models.Event {
	day := transferDayOf(flight)
	for i := range all {
		ev := all[i]
		if ev.Type.Canonical() != models.EventTypeTransfer || ev.ID == flight.ID {
			continue
		}
		if normalizeDateKey(ev.Date) != day {
			continue
		}
		if timeMatchesFlightArrival(ev, flight) {
			return &all[i]
		}
	}
	return nil
}

// FindActivityTransfer locates the transfer owned by a hotel row or an
// activity (visit, food, leisure, return): same day, exact transferTime
// match, falling back to the activity's time when transferTime is absent.
func FindActivityTransfer(activity models.Event, all []models.Event) *models.Event {
	day := transferDayOf(activity)
	for i := range all {
		ev := all[i]
		if ev.Type.Canonical() != models.EventTypeTransfer || ev.ID == activity.ID {
			continue
		}
		if normalizeDateKey(ev.Date) != day {
			continue
		}
		if timeMatchesActivity(ev, activity) {
			return &all[i]
		}
	}
	return nil
}

// FindHotelPair locates the opposite row of a hotel stay anywhere in the
// itinerary: same title, opposite subtitle. Stays spanning days are the
// normal case, so the whole schedule is scanned. If two distinct bookings
// share a title the first match wins; there is no stronger key to use.
func FindHotelPair(row models.Event, all []models.Event) *models.Event {
	var wanted string
	switch {
	case row.IsCheckIn():
		wanted = models.SubtitleCheckOut
	case row.IsCheckOut():
		wanted = models.SubtitleCheckIn
	default:
		return nil
	}
	for i := range all {
		ev := all[i]
		if ev.ID == row.ID || ev.Type.Canonical() != models.EventTypeHotel {
			continue
		}
		if ev.Title == row.Title && ev.Subtitle == wanted {
			return &all[i]
		}
	}
	return nil
}

// FindTransferParent reverse-looks-up the parent of a transfer: the first
// event, in type priority order, with hasTransfer set and a matching time.
func FindTransferParent(transfer models.Event, all []models.Event) *models.Event {
	day := normalizeDateKey(transfer.Date)
	for _, parentType := range transferParentPriority {
		for i := range all {
			ev := all[i]
			if !ev.HasTransfer || ev.ID == transfer.ID {
				continue
			}
			if ev.Type.Canonical() != parentType {
				continue
			}
			if transferDayOf(ev) != day {
				continue
			}
			if parentType == models.EventTypeFlight {
				if timeMatchesFlightArrival(transfer, ev) {
					return &all[i]
				}
			} else if timeMatchesActivity(transfer, ev) {
				return &all[i]
			}
		}
	}
	return nil
}

// MatchExistingTransfer guesses which existing transfer belongs to a parent
// when a batch carries a transfer with no id. Flights match by arrival time;
// everything else by time (or end time) plus location-or-title equality.
// Two concurrent events sharing a time and location can misattribute the
// transfer; there is no foreign key to do better with.
func MatchExistingTransfer(parent models.Event, all []models.Event) *models.Event {
	isFlight := parent.Type.Canonical() == models.EventTypeFlight
	for i := range all {
		ev := all[i]
		if ev.Type.Canonical() != models.EventTypeTransfer || ev.ID == parent.ID {
			continue
		}
		if isFlight {
			if timeMatchesFlightArrival(ev, parent) {
				return &all[i]
			}
			continue
		}
		timeMatch := ev.Time == parent.Time || (parent.EndTime != "" && ev.Time == parent.EndTime)
		if timeMatch && matchesLocationOrTitle(ev, parent) {
			return &all[i]
		}
	}
	return nil
}

// DependentDeletes computes the full deletion cascade for a target event,
// excluding the target itself. Pure lookup; nothing is deleted here.
func DependentDeletes(target models.Event, all []models.Event) []models.Event {
	var dependents []models.Event
	seen := map[string]bool{target.ID: true}
	add := func(ev *models.Event) {
		if ev == nil || seen[ev.ID] {
			return
		}
		seen[ev.ID] = true
		dependents = append(dependents, *ev)
	}

	switch target.Type.Canonical() {
	case models.EventTypeFlight:
		if target.HasTransfer {
			add(FindFlightTransfer(target, all))
		}
	case models.EventTypeHotel:
		pair := FindHotelPair(target, all)
		if target.HasTransfer {
			add(FindActivityTransfer(target, all))
		}
		if pair != nil {
			add(pair)
			if pair.HasTransfer {
				add(FindActivityTransfer(*pair, all))
			}
		}
	case models.EventTypeFood, models.EventTypeLeisure, models.EventTypeVisit, models.EventTypeReturn:
		if target.HasTransfer {
			add(FindActivityTransfer(target, all))
		}
	}
	return dependents
}

// CascadeDelete deletes the target's dependents after the primary delete has
// been issued. For a deleted transfer the parent is patched instead: its
// hasTransfer flag is cleared, and only the first parent found by priority is
// touched. Returns the ids actually deleted.
func (r *Resolver) CascadeDelete(ctx context.Context, target models.Event, all []models.Event) []string {
	if target.Type.Canonical() == models.EventTypeTransfer {
		parent := FindTransferParent(target, all)
		if parent == nil {
			// Orphan transfer: nothing else to do.
			return nil
		}
		patch := map[string]any{"possui_transfer": false, "transfer_data": "", "transfer_hora": ""}
		if err := r.backend.UpdateEvent(ctx, parent.ID, patch); err != nil {
			r.logger.Warn("failed to clear transfer flag on parent",
				zap.String("parent_id", parent.ID),
				zap.Error(err))
		}
		return nil
	}

	var deleted []string
	for _, dependent := range DependentDeletes(target, all) {
		if err := r.backend.DeleteEvent(ctx, dependent.ID); err != nil {
			r.logger.Warn("cascade delete failed, continuing",
				zap.String("event_id", dependent.ID),
				zap.Error(err))
			continue
		}
		deleted = append(deleted, dependent.ID)
	}
	return deleted
}

// CascadeEdit handles the edit-time rule: when an event's hasTransfer flag
// flips from true to false, the now-orphaned transfer is deleted. Flight
// transfers match by arrival time; others by time plus location-or-title.
// Returns the id of the deleted transfer, if any.
func (r *Resolver) CascadeEdit(ctx context.Context, updated, previous models.Event, all []models.Event) string {
	if !previous.HasTransfer || updated.HasTransfer {
		return ""
	}

	var orphan *models.Event
	if previous.Type.Canonical() == models.EventTypeFlight {
		orphan = FindFlightTransfer(previous, all)
	} else {
		day := transferDayOf(previous)
		for i := range all {
			ev := all[i]
			if ev.Type.Canonical() != models.EventTypeTransfer || ev.ID == previous.ID {
				continue
			}
			if normalizeDateKey(ev.Date) != day {
				continue
			}
			if timeMatchesActivity(ev, previous) && matchesLocationOrTitle(ev, previous) {
				orphan = &all[i]
				break
			}
		}
	}
	if orphan == nil {
		return ""
	}
	if err := r.backend.DeleteEvent(ctx, orphan.ID); err != nil {
		r.logger.Warn("failed to delete orphaned transfer",
			zap.String("event_id", orphan.ID),
			zap.Error(err))
		return ""
	}
	return orphan.ID
}
