package models

// EventType identifies the variant of an itinerary event.
type EventType string

const (
	EventTypeFlight   EventType = "flight"
	EventTypeHotel    EventType = "hotel"
	EventTypeCheckout EventType = "checkout" // legacy rows persisted for hotel check-outs
	EventTypeVisit    EventType = "visit"
	EventTypeFood     EventType = "food"
	EventTypeMeal     EventType = "meal" // legacy alias of food
	EventTypeLeisure  EventType = "leisure"
	EventTypeTransfer EventType = "transfer"
	EventTypeReturn   EventType = "return"
)

// Canonical collapses the legacy aliases onto their current type.
func (t EventType) Canonical() EventType {
	switch t {
	case EventTypeMeal:
		return EventTypeFood
	case EventTypeCheckout:
		return EventTypeHotel
	default:
		return t
	}
}

// IsActivity reports whether the type can be the origin of a return event.
func (t EventType) IsActivity() bool {
	switch t.Canonical() {
	case EventTypeHotel, EventTypeVisit, EventTypeFood, EventTypeLeisure:
		return true
	default:
		return false
	}
}

// Subtitle values carried by hotel rows. Pairing of a check-in with its
// check-out is inferred from (title, subtitle) equality, there is no id link.
const (
	SubtitleCheckIn  = "Check-in"
	SubtitleCheckOut = "Check-out"
)

// BookingStatus is the financial/booking state of an event.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusQuoting   BookingStatus = "quoting"
	StatusQuoted    BookingStatus = "quoted"
	StatusFree      BookingStatus = "free"
)

// ConnectionLeg is one connecting leg of a multi-leg flight.
type ConnectionLeg struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromCode string `json:"fromCode,omitempty"`
	ToCode   string `json:"toCode,omitempty"`
	FromTime string `json:"fromTime,omitempty"`
	ToTime   string `json:"toTime,omitempty"`
}

// Event is one schedulable unit of a group's itinerary. All variants share
// this shape; type-specific fields are zero-valued on the other variants.
type Event struct {
	ID      string    `json:"id"`
	GroupID string    `json:"groupId,omitempty"`
	Type    EventType `json:"type"`
	Date    string    `json:"date"` // canonical YYYY-MM-DD
	Time    string    `json:"time"` // HH:MM, trip-local
	EndTime string    `json:"endTime,omitempty"`

	Duration    string `json:"duration,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`

	Price  float64       `json:"price,omitempty"`
	Status BookingStatus `json:"status,omitempty"`

	// Flight-only.
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	FromCode    string          `json:"fromCode,omitempty"`
	ToCode      string          `json:"toCode,omitempty"`
	FromTime    string          `json:"fromTime,omitempty"`
	ToTime      string          `json:"toTime,omitempty"`
	Connections []ConnectionLeg `json:"connections,omitempty"`

	// Transfer-only.
	Driver string `json:"driver,omitempty"`

	// Linkage: this event owns a dependent transfer.
	HasTransfer  bool   `json:"hasTransfer,omitempty"`
	TransferDate string `json:"transferDate,omitempty"`
	TransferTime string `json:"transferTime,omitempty"`

	// Linkage: for return events, the origin activity being returned from.
	ReferenceEventID string `json:"referenceEventId,omitempty"`

	Passengers []string `json:"passengers,omitempty"`

	IsFavorite bool   `json:"isFavorite,omitempty"`
	IsDelayed  bool   `json:"isDelayed,omitempty"`
	Delay      string `json:"delay,omitempty"`
}

// IsCheckIn reports whether the event is the check-in row of a hotel stay.
func (e Event) IsCheckIn() bool {
	return e.Type.Canonical() == EventTypeHotel && e.Subtitle == SubtitleCheckIn
}

// IsCheckOut reports whether the event is the check-out row of a hotel stay.
func (e Event) IsCheckOut() bool {
	return e.Type.Canonical() == EventTypeHotel && e.Subtitle == SubtitleCheckOut
}

// DayItinerary groups the events of one calendar day of the trip window.
type DayItinerary struct {
	Date          string  `json:"date"` // canonical YYYY-MM-DD
	DayOfWeek     string  `json:"dayOfWeek"`
	Events        []Event `json:"events"`
	TotalExpenses float64 `json:"totalExpenses"`
}
