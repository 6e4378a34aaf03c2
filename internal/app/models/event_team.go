package models

import "time"

// TeamRegistrationStatus is the lifecycle state of an event team registration.
// registered is the only non-terminal state.
type TeamRegistrationStatus string

const (
	TeamRegistrationStatusRegistered   TeamRegistrationStatus = "registered"
	TeamRegistrationStatusQualified    TeamRegistrationStatus = "qualified"
	TeamRegistrationStatusDisqualified TeamRegistrationStatus = "disqualified"
)

// InvitationStatus is the lifecycle state of a team invitation.
// accepted, rejected and expired are all terminal.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// TeamRole is a member's role inside a team
type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

// InvitationTTL is how long a team invitation stays open
const InvitationTTL = 7 * 24 * time.Hour

// EventTeamRegistration represents a team registered for an event.
// The team leader is implicitly also a member (role=leader).
type EventTeamRegistration struct {
	ID           int64                  `json:"id" db:"id"`
	EventID      int64                  `json:"eventId" db:"event_id"`
	TeamName     string                 `json:"teamName" db:"team_name"`
	TeamLeaderID int64                  `json:"teamLeaderId" db:"team_leader_id"`
	Status       TeamRegistrationStatus `json:"status" db:"status"`
	RegisteredAt time.Time              `json:"registeredAt" db:"registered_at"`
	UpdatedAt    time.Time              `json:"updatedAt" db:"updated_at"`

	// Related entities
	Event      *Event            `json:"event,omitempty"`
	TeamLeader *User             `json:"teamLeader,omitempty"`
	Members    []EventTeamMember `json:"members,omitempty"`
}

// EventTeamMember belongs to exactly one team registration. A user may hold
// at most one membership across all team registrations for a given event.
type EventTeamMember struct {
	ID                 int64     `json:"id" db:"id"`
	TeamRegistrationID int64     `json:"teamRegistrationId" db:"team_registration_id"`
	UserID             int64     `json:"userId" db:"user_id"`
	Role               TeamRole  `json:"role" db:"role"`
	Skills             *string   `json:"skills,omitempty" db:"skills"`
	JoinedAt           time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// EventTeamInvitation is a pending invite to join a team registration
type EventTeamInvitation struct {
	ID                 int64            `json:"id" db:"id"`
	TeamRegistrationID int64            `json:"teamRegistrationId" db:"team_registration_id"`
	InvitedUserID      int64            `json:"invitedUserId" db:"invited_user_id"`
	InvitedByID        int64            `json:"invitedById" db:"invited_by_id"`
	Email              string           `json:"email" db:"email"`
	Role               TeamRole         `json:"role" db:"role"`
	Skills             *string          `json:"skills,omitempty" db:"skills"`
	Status             InvitationStatus `json:"status" db:"status"`
	InvitedAt          time.Time        `json:"invitedAt" db:"invited_at"`
	RespondedAt        *time.Time       `json:"respondedAt,omitempty" db:"responded_at"`
	ExpiresAt          time.Time        `json:"expiresAt" db:"expires_at"`

	// Related entities
	TeamRegistration *EventTeamRegistration `json:"teamRegistration,omitempty"`
	InvitedUser      *User                  `json:"invitedUser,omitempty"`
	InvitedBy        *User                  `json:"invitedBy,omitempty"`
}

// IsExpired reports whether the invitation has outlived its expiry at the
// given instant. Expiry is evaluated lazily at read time, never by a timer.
func (i *EventTeamInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
