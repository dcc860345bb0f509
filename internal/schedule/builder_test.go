package schedule

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2025-07-01", "2025-07-01", false},
		{"01/07/2025", "2025-07-01", false},
		{"31/12/2025", "2025-12-31", false},
		{" 2025-07-01 ", "2025-07-01", false},
		{"07/2025", "", true},
		{"not a date", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeDate(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeDate(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildScheduleDayCount(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantDays int
	}{
		{"single day", "2025-07-01", "2025-07-01", 1},
		{"ten days", "2025-07-01", "2025-07-10", 10},
		{"across month boundary", "2025-07-30", "2025-08-02", 4},
		{"mixed input formats", "01/07/2025", "2025-07-03", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := BuildSchedule(nil, tt.start, tt.end)
			if err != nil {
				t.Fatalf("BuildSchedule: %v", err)
			}
			if len(days) != tt.wantDays {
				t.Fatalf("got %d days, want %d", len(days), tt.wantDays)
			}
			for i := 1; i < len(days); i++ {
				if days[i].Date <= days[i-1].Date {
					t.Fatalf("days not in ascending unique order: %s then %s", days[i-1].Date, days[i].Date)
				}
			}
		})
	}
}

func TestBuildScheduleRejectsBadWindow(t *testing.T) {
	if _, err := BuildSchedule(nil, "garbage", "2025-07-01"); err == nil {
		t.Fatal("expected error for malformed start date")
	}
	if _, err := BuildSchedule(nil, "2025-07-10", "2025-07-01"); err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestBuildSchedulePartition(t *testing.T) {
	events := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-02", Time: "10:00", Price: 50},
		{ID: "b", Type: models.EventTypeFood, Date: "02/07/2025", Time: "13:00", Price: 30},
		{ID: "c", Type: models.EventTypeVisit, Date: "2025-07-04", Time: "09:00"},
		{ID: "outside", Type: models.EventTypeVisit, Date: "2025-08-01", Time: "09:00"},
		{ID: "badDate", Type: models.EventTypeVisit, Date: "whenever", Time: "09:00"},
	}
	days, err := BuildSchedule(events, "2025-07-01", "2025-07-05")
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}

	placed := map[string]string{}
	for _, day := range days {
		for _, ev := range day.Events {
			if prev, dup := placed[ev.ID]; dup {
				t.Fatalf("event %s appears on both %s and %s", ev.ID, prev, day.Date)
			}
			placed[ev.ID] = day.Date
		}
	}
	if placed["a"] != "2025-07-02" || placed["b"] != "2025-07-02" || placed["c"] != "2025-07-04" {
		t.Fatalf("unexpected placement: %v", placed)
	}
	if _, ok := placed["outside"]; ok {
		t.Fatal("event outside the window should be dropped")
	}
	if _, ok := placed["badDate"]; ok {
		t.Fatal("event with unparseable date should be dropped")
	}

	if days[1].TotalExpenses != 80 {
		t.Fatalf("day 2 totalExpenses = %v, want 80", days[1].TotalExpenses)
	}
	if days[0].Events == nil || len(days[0].Events) != 0 {
		t.Fatalf("empty day should carry an empty (non-nil) event list, got %#v", days[0].Events)
	}
}

func TestEmptyDayMarshalsEmptyArray(t *testing.T) {
	days, err := BuildSchedule(nil, "2025-07-01", "2025-07-01")
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	raw, err := json.Marshal(days[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"events":[]`) {
		t.Fatalf("empty day serialized as %s, want events to be []", raw)
	}
}

func TestBuildScheduleIdempotent(t *testing.T) {
	events := []models.Event{
		{ID: "a", Type: models.EventTypeVisit, Date: "2025-07-02", Time: "10:00"},
		{ID: "b", Type: models.EventTypeTransfer, Date: "2025-07-02", Time: "10:00"},
	}
	first, err := BuildSchedule(events, "2025-07-01", "2025-07-03")
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	second, err := BuildSchedule(events, "2025-07-01", "2025-07-03")
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same inputs produced different schedules")
	}
}

func TestSortTieBreakByType(t *testing.T) {
	// hotel < transfer < return at equal times, regardless of input order.
	inputs := [][]models.Event{
		{
			{ID: "r", Type: models.EventTypeReturn, Date: "2025-07-02", Time: "10:00"},
			{ID: "t", Type: models.EventTypeTransfer, Date: "2025-07-02", Time: "10:00"},
			{ID: "h", Type: models.EventTypeHotel, Date: "2025-07-02", Time: "10:00"},
		},
		{
			{ID: "t", Type: models.EventTypeTransfer, Date: "2025-07-02", Time: "10:00"},
			{ID: "h", Type: models.EventTypeHotel, Date: "2025-07-02", Time: "10:00"},
			{ID: "r", Type: models.EventTypeReturn, Date: "2025-07-02", Time: "10:00"},
		},
	}
	for i, events := range inputs {
		days, err := BuildSchedule(events, "2025-07-02", "2025-07-02")
		if err != nil {
			t.Fatalf("input %d: %v", i, err)
		}
		var order []string
		for _, ev := range days[0].Events {
			order = append(order, ev.ID)
		}
		want := []string{"h", "t", "r"}
		if !reflect.DeepEqual(order, want) {
			t.Fatalf("input %d: order = %v, want %v", i, order, want)
		}
	}
}

func TestSortByTimeWithinDay(t *testing.T) {
	events := []models.Event{
		{ID: "late", Type: models.EventTypeVisit, Date: "2025-07-02", Time: "18:00"},
		{ID: "early", Type: models.EventTypeVisit, Date: "2025-07-02", Time: "08:30"},
		{ID: "mid", Type: models.EventTypeFood, Date: "2025-07-02", Time: "12:15"},
	}
	days, err := BuildSchedule(events, "2025-07-02", "2025-07-02")
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	var order []string
	for _, ev := range days[0].Events {
		order = append(order, ev.ID)
	}
	if !reflect.DeepEqual(order, []string{"early", "mid", "late"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestDayOfWeekNames(t *testing.T) {
	// 2025-07-01 was a Tuesday.
	days, err := BuildSchedule(nil, "2025-07-01", "2025-07-02")
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if days[0].DayOfWeek != "Terça-feira" {
		t.Fatalf("dayOfWeek = %q, want Terça-feira", days[0].DayOfWeek)
	}
	if days[1].DayOfWeek != "Quarta-feira" {
		t.Fatalf("dayOfWeek = %q, want Quarta-feira", days[1].DayOfWeek)
	}
}
