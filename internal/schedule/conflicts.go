package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// ConflictResult is the outcome of checking a candidate event against the
// existing schedule. Conflicts are UI state, not errors: a result with
// HasConflict set blocks the save action but nothing is persisted or raised.
type ConflictResult struct {
	HasConflict       bool           `json:"hasConflict"`
	Message           string         `json:"message,omitempty"`
	ConflictingEvents []models.Event `json:"conflictingEvents,omitempty"`
}

// parseClock converts an HH:MM string to minutes since midnight.
func parseClock(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// normalizeDateKey returns the canonical date, or the input unchanged when it
// cannot be parsed. Comparisons on unparseable dates then degrade to exact
// string matching instead of failing the whole check.
func normalizeDateKey(date string) string {
	if normalized, err := NormalizeDate(date); err == nil {
		return normalized
	}
	return date
}

// dateTimeKey builds a sortable "YYYY-MM-DD HH:MM" key. Safe to compare
// lexicographically because both components are zero-padded.
func dateTimeKey(date, clock string) string {
	return normalizeDateKey(date) + " " + clock
}

// intervalsOverlap reports whether two [start, end) minute intervals collide.
// An event without an end time is a zero-duration point and only conflicts
// with intervals that contain it.
func intervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	aPoint := aEnd <= aStart
	bPoint := bEnd <= bStart
	switch {
	case aPoint && bPoint:
		return false
	case aPoint:
		return bStart <= aStart && aStart < bEnd
	case bPoint:
		return aStart <= bStart && bStart < aEnd
	default:
		return aStart < bEnd && bStart < aEnd
	}
}

// eventInterval resolves an event's [start, end) interval in minutes. The
// second return is false when the start time is unparseable.
func eventInterval(timeValue, endValue string) (int, int, bool) {
	start, ok := parseClock(timeValue)
	if !ok {
		return 0, 0, false
	}
	end := start
	if endValue != "" {
		if parsed, ok := parseClock(endValue); ok {
			end = parsed
		}
	}
	return start, end, true
}

// CheckTimeConflict evaluates a candidate event against the existing
// schedule: same-day interval overlaps, the return ordering rules, and the
// candidate's declared transfer time. existing should span the whole
// itinerary so the cross-day lookups (origin, hotel check-out) can resolve.
func CheckTimeConflict(candidate models.Event, existing []models.Event) ConflictResult {
	var conflicts []models.Event

	conflicts = appendOverlaps(conflicts, candidate, existing)

	// Return ordering rules. Only activities can be returned from; a
	// reference pointing at anything else is ignored.
	if candidate.Type.Canonical() == models.EventTypeReturn && candidate.ReferenceEventID != "" {
		if origin := findByID(existing, candidate.ReferenceEventID); origin != nil && origin.Type.IsActivity() {
			if dateTimeKey(candidate.Date, candidate.Time) < dateTimeKey(origin.Date, origin.Time) {
				conflicts = appendConflict(conflicts, *origin)
			}
			if origin.IsCheckIn() {
				if checkout := FindHotelPair(*origin, existing); checkout != nil {
					if dateTimeKey(candidate.Date, candidate.Time) > dateTimeKey(checkout.Date, checkout.Time) {
						conflicts = appendConflict(conflicts, *checkout)
					}
				}
			}
		}
	}

	// The declared transfer is checked independently and merged in.
	if candidate.HasTransfer && candidate.TransferTime != "" {
		transferDate := candidate.TransferDate
		if transferDate == "" {
			transferDate = candidate.Date
		}
		proposed := models.Event{
			ID:   candidate.ID,
			Type: models.EventTypeTransfer,
			Date: transferDate,
			Time: candidate.TransferTime,
		}
		conflicts = appendOverlaps(conflicts, proposed, existing)
	}

	if len(conflicts) == 0 {
		return ConflictResult{}
	}
	titles := make([]string, len(conflicts))
	for i, ev := range conflicts {
		titles[i] = ev.Title
	}
	return ConflictResult{
		HasConflict:       true,
		Message:           fmt.Sprintf("time conflict with: %s", strings.Join(titles, ", ")),
		ConflictingEvents: conflicts,
	}
}

// appendOverlaps adds every same-day interval overlap between candidate and
// existing to the conflict set. Transfers never conflict with each other.
func appendOverlaps(conflicts []models.Event, candidate models.Event, existing []models.Event) []models.Event {
	candidateDate := normalizeDateKey(candidate.Date)
	candidateIsTransfer := candidate.Type.Canonical() == models.EventTypeTransfer
	start, end, ok := eventInterval(candidate.Time, candidate.EndTime)
	if !ok {
		return conflicts
	}
	for _, ev := range existing {
		if candidate.ID != "" && ev.ID == candidate.ID {
			continue
		}
		if normalizeDateKey(ev.Date) != candidateDate {
			continue
		}
		if candidateIsTransfer && ev.Type.Canonical() == models.EventTypeTransfer {
			continue
		}
		evStart, evEnd, ok := eventInterval(ev.Time, ev.EndTime)
		if !ok {
			continue
		}
		if intervalsOverlap(start, end, evStart, evEnd) {
			conflicts = appendConflict(conflicts, ev)
		}
	}
	return conflicts
}

// appendConflict adds an event to the conflict set, deduplicated by id.
func appendConflict(conflicts []models.Event, ev models.Event) []models.Event {
	for _, existing := range conflicts {
		if existing.ID != "" && existing.ID == ev.ID {
			return conflicts
		}
	}
	return append(conflicts, ev)
}

// findByID looks an event up by id, nil when absent.
func findByID(events []models.Event, id string) *models.Event {
	for i := range events {
		if events[i].ID == id {
			return &events[i]
		}
	}
	return nil
}
