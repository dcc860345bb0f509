package schedule

import (
	"strings"
	"testing"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

func conflictIDs(result ConflictResult) []string {
	var ids []string
	for _, ev := range result.ConflictingEvents {
		ids = append(ids, ev.ID)
	}
	return ids
}

func TestOverlapConflict(t *testing.T) {
	existing := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Title: "Museu do Ipiranga", Date: "2025-07-10", Time: "09:00", EndTime: "11:00"},
	}
	candidate := models.Event{Type: models.EventTypeVisit, Title: "Mercadão", Date: "2025-07-10", Time: "10:00", EndTime: "12:00"}

	result := CheckTimeConflict(candidate, existing)
	if !result.HasConflict {
		t.Fatal("expected overlap conflict")
	}
	if !strings.Contains(result.Message, "Museu do Ipiranga") {
		t.Fatalf("message should name the conflicting event, got %q", result.Message)
	}

	// Symmetric: the other direction conflicts too.
	reversed := CheckTimeConflict(existing[0], []models.Event{candidate})
	if !reversed.HasConflict {
		t.Fatal("overlap should be symmetric")
	}
}

func TestBackToBackIsNotConflict(t *testing.T) {
	existing := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-10", Time: "09:00", EndTime: "10:00"},
	}
	candidate := models.Event{Type: models.EventTypeVisit, Date: "2025-07-10", Time: "10:00", EndTime: "11:00"}

	if result := CheckTimeConflict(candidate, existing); result.HasConflict {
		t.Fatalf("back-to-back events should not conflict: %v", result.Message)
	}
}

func TestDifferentDaysNeverConflict(t *testing.T) {
	existing := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-11", Time: "09:00", EndTime: "11:00"},
	}
	candidate := models.Event{Type: models.EventTypeVisit, Date: "2025-07-10", Time: "09:30"}

	if result := CheckTimeConflict(candidate, existing); result.HasConflict {
		t.Fatal("events on different days should not conflict")
	}
}

func TestZeroDurationPoint(t *testing.T) {
	interval := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-10", Time: "09:00", EndTime: "11:00"},
	}

	// A point inside the interval conflicts.
	inside := models.Event{Type: models.EventTypeFood, Date: "2025-07-10", Time: "10:00"}
	if !CheckTimeConflict(inside, interval).HasConflict {
		t.Fatal("point inside interval should conflict")
	}

	// A point at the interval's end does not (end is exclusive).
	atEnd := models.Event{Type: models.EventTypeFood, Date: "2025-07-10", Time: "11:00"}
	if CheckTimeConflict(atEnd, interval).HasConflict {
		t.Fatal("point at exclusive end should not conflict")
	}

	// Two points at the same time do not conflict with each other.
	point := []models.Event{{ID: "p", Type: models.EventTypeFood, Date: "2025-07-10", Time: "10:00"}}
	other := models.Event{Type: models.EventTypeVisit, Date: "2025-07-10", Time: "10:00"}
	if CheckTimeConflict(other, point).HasConflict {
		t.Fatal("two zero-duration points should not conflict")
	}
}

func TestTransfersExemptFromMutualChecks(t *testing.T) {
	existing := []models.Event{
		{ID: "t1", Type: models.EventTypeTransfer, Date: "2025-07-10", Time: "10:00", EndTime: "11:00"},
		{ID: "v1", Type: models.EventTypeVisit, Title: "Feira", Date: "2025-07-10", Time: "10:00", EndTime: "11:00"},
	}
	candidate := models.Event{Type: models.EventTypeTransfer, Date: "2025-07-10", Time: "10:30", EndTime: "11:30"}

	result := CheckTimeConflict(candidate, existing)
	if !result.HasConflict {
		t.Fatal("transfer should still conflict with the visit")
	}
	ids := conflictIDs(result)
	if len(ids) != 1 || ids[0] != "v1" {
		t.Fatalf("conflicting ids = %v, want [v1] only", ids)
	}
}

func TestCandidateExcludesItselfWhenEditing(t *testing.T) {
	existing := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-10", Time: "09:00", EndTime: "11:00"},
	}
	edited := models.Event{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-10", Time: "09:30", EndTime: "11:00"}

	if CheckTimeConflict(edited, existing).HasConflict {
		t.Fatal("an edited event must not conflict with its own stored row")
	}
}

func TestReturnBeforeOrigin(t *testing.T) {
	existing := []models.Event{
		{ID: "v1", Type: models.EventTypeVisit, Title: "Cristo Redentor", Date: "2025-07-10", Time: "14:00"},
	}
	ret := models.Event{Type: models.EventTypeReturn, Date: "2025-07-10", Time: "13:00", ReferenceEventID: "v1"}

	result := CheckTimeConflict(ret, existing)
	if !result.HasConflict {
		t.Fatal("return before its origin should conflict")
	}
	if !strings.Contains(result.Message, "Cristo Redentor") {
		t.Fatalf("message should reference the origin, got %q", result.Message)
	}

	// Same day, later time is fine.
	after := models.Event{Type: models.EventTypeReturn, Date: "2025-07-10", Time: "15:00", ReferenceEventID: "v1"}
	if CheckTimeConflict(after, existing).HasConflict {
		t.Fatal("return after its origin should not conflict")
	}
}

func TestReturnIgnoresNonActivityOrigin(t *testing.T) {
	existing := []models.Event{
		{ID: "t1", Type: models.EventTypeTransfer, Title: "Transfer", Date: "2025-07-10", Time: "14:00"},
	}
	// A reference pointing at a transfer is not a valid origin; the ordering
	// rule must not fire.
	ret := models.Event{Type: models.EventTypeReturn, Date: "2025-07-10", Time: "13:00", ReferenceEventID: "t1"}

	if result := CheckTimeConflict(ret, existing); result.HasConflict {
		t.Fatalf("ordering rule fired for a non-activity origin: %v", result.Message)
	}
}

func TestReturnAfterCheckout(t *testing.T) {
	existing := []models.Event{
		{ID: "h1", Type: models.EventTypeHotel, Title: "Grand Hyatt", Subtitle: models.SubtitleCheckIn, Date: "2025-07-01", Time: "14:00"},
		{ID: "h2", Type: models.EventTypeHotel, Title: "Grand Hyatt", Subtitle: models.SubtitleCheckOut, Date: "2025-07-05", Time: "11:00"},
	}

	late := models.Event{Type: models.EventTypeReturn, Date: "2025-07-06", Time: "09:00", ReferenceEventID: "h1"}
	if !CheckTimeConflict(late, existing).HasConflict {
		t.Fatal("return after the hotel check-out should conflict")
	}

	within := models.Event{Type: models.EventTypeReturn, Date: "2025-07-05", Time: "10:00", ReferenceEventID: "h1"}
	if CheckTimeConflict(within, existing).HasConflict {
		t.Fatal("return before the check-out should not conflict")
	}
}

func TestDeclaredTransferTimeMerged(t *testing.T) {
	existing := []models.Event{
		{ID: "v1", Type: models.EventTypeVisit, Title: "Feira", Date: "2025-07-10", Time: "17:00", EndTime: "19:00"},
	}
	// The candidate itself is clear, but its declared transfer lands inside
	// the visit.
	candidate := models.Event{
		Type:         models.EventTypeFood,
		Title:        "Jantar",
		Date:         "2025-07-10",
		Time:         "12:00",
		EndTime:      "13:00",
		HasTransfer:  true,
		TransferTime: "18:00",
	}

	result := CheckTimeConflict(candidate, existing)
	if !result.HasConflict {
		t.Fatal("declared transfer time should be checked")
	}
	ids := conflictIDs(result)
	if len(ids) != 1 || ids[0] != "v1" {
		t.Fatalf("conflicting ids = %v, want [v1] deduplicated", ids)
	}
}

func TestTransferConflictsDeduplicatedByID(t *testing.T) {
	existing := []models.Event{
		{ID: "v1", Type: models.EventTypeVisit, Title: "Feira", Date: "2025-07-10", Time: "12:00", EndTime: "19:00"},
	}
	// Both the event and its transfer overlap v1; it must be reported once.
	candidate := models.Event{
		Type:         models.EventTypeFood,
		Date:         "2025-07-10",
		Time:         "13:00",
		EndTime:      "14:00",
		HasTransfer:  true,
		TransferTime: "18:00",
	}

	result := CheckTimeConflict(candidate, existing)
	if len(result.ConflictingEvents) != 1 {
		t.Fatalf("got %d conflicting events, want 1", len(result.ConflictingEvents))
	}
}
