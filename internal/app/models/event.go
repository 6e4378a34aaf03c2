package models

import "time"

// EventType categorizes an event
type EventType string

const (
	EventTypeHackathon   EventType = "hackathon"
	EventTypeSeminar     EventType = "seminar"
	EventTypeWorkshop    EventType = "workshop"
	EventTypeCompetition EventType = "competition"
)

// Event represents a campus event with a registration window
type Event struct {
	ID                   int64     `json:"id" db:"id"`
	Title                string    `json:"title" db:"title"`
	Description          string    `json:"description" db:"description"`
	EventType            EventType `json:"eventType" db:"event_type"`
	StartDate            time.Time `json:"startDate" db:"start_date"`
	EndDate              time.Time `json:"endDate" db:"end_date"`
	Venue                *string   `json:"venue,omitempty" db:"venue"`
	VirtualLink          *string   `json:"virtualLink,omitempty" db:"virtual_link"`
	MaxParticipants      *int      `json:"maxParticipants,omitempty" db:"max_participants"`
	MinTeamSize          int       `json:"minTeamSize" db:"min_team_size"`
	MaxTeamSize          int       `json:"maxTeamSize" db:"max_team_size"`
	RegistrationDeadline time.Time `json:"registrationDeadline" db:"registration_deadline"`
	Rules                *string   `json:"rules,omitempty" db:"rules"`
	Prizes               *string   `json:"prizes,omitempty" db:"prizes"`
	IsActive             bool      `json:"isActive" db:"is_active"`
	CreatorID            int64     `json:"creatorId" db:"creator_id"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Creator *User `json:"creator,omitempty"`
}

// EventRegistration represents an individual registration for an event
type EventRegistration struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	EventID        int64     `json:"eventId" db:"event_id"`
	TeamName       *string   `json:"teamName,omitempty" db:"team_name"`
	AdditionalInfo *string   `json:"additionalInfo,omitempty" db:"additional_info"`
	RegisteredAt   time.Time `json:"registeredAt" db:"registered_at"`

	// Related entities
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}
