package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

const dayLayout = "2006-01-02"

// dayOfWeekNames holds the display names used by the dashboard, indexed by
// time.Weekday.
var dayOfWeekNames = [7]string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

// NormalizeDate converts an accepted input date (YYYY-MM-DD or DD/MM/YYYY)
// to the canonical zero-padded YYYY-MM-DD form. Canonical dates sort
// correctly as plain strings, which the conflict and linkage lookups rely on.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dayLayout, value); err == nil {
		return t.Format(dayLayout), nil
	}
	if t, err := time.Parse("02/01/2006", value); err == nil {
		return t.Format(dayLayout), nil
	}
	return "", fmt.Errorf("unrecognized date format: %q", value)
}

// sortRank is the tie-break precedence for events sharing a start time.
func sortRank(t models.EventType) int {
	switch t.Canonical() {
	case models.EventTypeHotel:
		return 0
	case models.EventTypeTransfer:
		return 1
	case models.EventTypeReturn:
		return 2
	default:
		return 3
	}
}

// BuildSchedule partitions a flat event list into one DayItinerary per
// calendar day of [startDate, endDate], inclusive. Events dated outside the
// window are dropped silently. The function is pure: same inputs always
// produce the same output and nothing is fetched or mutated.
func BuildSchedule(events []models.Event, startDate, endDate string) ([]models.DayItinerary, error) {
	start, err := NormalizeDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := NormalizeDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	startT, _ := time.Parse(dayLayout, start)
	endT, _ := time.Parse(dayLayout, end)
	if endT.Before(startT) {
		return nil, fmt.Errorf("end date %s before start date %s", end, start)
	}

	byDate := make(map[string][]models.Event)
	for _, ev := range events {
		date, err := NormalizeDate(ev.Date)
		if err != nil {
			// Unparseable event dates cannot match any day key.
			continue
		}
		byDate[date] = append(byDate[date], ev)
	}

	var days []models.DayItinerary
	for d := startT; !d.After(endT); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		// Never nil: an empty day must serialize as an empty array.
		dayEvents := make([]models.Event, 0, len(byDate[key]))
		dayEvents = append(dayEvents, byDate[key]...)
		sortDayEvents(dayEvents)

		var total float64
		for _, ev := range dayEvents {
			total += ev.Price
		}
		days = append(days, models.DayItinerary{
			Date:          key,
			DayOfWeek:     dayOfWeekNames[d.Weekday()],
			Events:        dayEvents,
			TotalExpenses: total,
		})
	}
	return days, nil
}

// sortDayEvents orders a day's events by start time ascending, breaking ties
// by type precedence (hotel before transfer before return) and then by title
// and id so the order is deterministic regardless of input order.
func sortDayEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		ri, rj := sortRank(events[i].Type), sortRank(events[j].Type)
		if ri != rj {
			return ri < rj
		}
		if events[i].Title != events[j].Title {
			return events[i].Title < events[j].Title
		}
		return events[i].ID < events[j].ID
	})
}
