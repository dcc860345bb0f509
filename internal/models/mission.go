package models

import "time"

// MissionGroup is one traveling group within a mission. The itinerary
// service only reads groups for context (trip window, display); group CRUD
// lives in the mission service.
type MissionGroup struct {
	ID        string    `json:"id"`
	MissionID string    `json:"mission_id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	GuideID   *string   `json:"guide_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Traveler is a participant assignable to itinerary events. Read-only
// context here, used for passenger assignment display.
type Traveler struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	GroupID   *string `json:"group_id,omitempty"`
	MissionID string  `json:"mission_id"`
}

// TravelerFilter selects travelers by mission or by group. Exactly one of
// the two fields is expected to be set.
type TravelerFilter struct {
	MissionID string
	GroupID   string
}
