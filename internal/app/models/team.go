package models

import "time"

// JoinRequestStatus is the lifecycle state of a team join request
type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

// Team represents an ad-hoc project team, independent of events
type Team struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	ProjectIdea  *string   `json:"projectIdea,omitempty" db:"project_idea"`
	MaxMembers   int       `json:"maxMembers" db:"max_members"`
	SkillsNeeded *string   `json:"skillsNeeded,omitempty" db:"skills_needed"`
	IsOpen       bool      `json:"isOpen" db:"is_open"`
	LeaderID     int64     `json:"leaderId" db:"leader_id"`
	EventID      *int64    `json:"eventId,omitempty" db:"event_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Leader  *User        `json:"leader,omitempty"`
	Members []TeamMember `json:"members,omitempty"`
}

// TeamMember is a (team, user) membership. Exactly one member per team
// holds the leader role at all times.
type TeamMember struct {
	ID       int64     `json:"id" db:"id"`
	TeamID   int64     `json:"teamId" db:"team_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	Role     TeamRole  `json:"role" db:"role"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// TeamJoinRequest is a request to join an open team.
// At most one pending request per (team, user).
type TeamJoinRequest struct {
	ID         int64             `json:"id" db:"id"`
	TeamID     int64             `json:"teamId" db:"team_id"`
	UserID     int64             `json:"userId" db:"user_id"`
	Message    *string           `json:"message,omitempty" db:"message"`
	Status     JoinRequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"createdAt" db:"created_at"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedBy *int64            `json:"reviewedBy,omitempty" db:"reviewed_by"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// TeamMessageType represents the type of a team message
type TeamMessageType string

const (
	TeamMessageTypeText  TeamMessageType = "text"
	TeamMessageTypeFile  TeamMessageType = "file"
	TeamMessageTypeImage TeamMessageType = "image"
)

// TeamMessage is an append-only, soft-deletable team discussion message
type TeamMessage struct {
	ID          int64           `json:"id" db:"id"`
	TeamID      int64           `json:"teamId" db:"team_id"`
	UserID      int64           `json:"userId" db:"user_id"`
	Message     string          `json:"message" db:"message"`
	MessageType TeamMessageType `json:"messageType" db:"message_type"`
	FileURL     *string         `json:"fileUrl,omitempty" db:"file_url"`
	IsDeleted   bool            `json:"isDeleted" db:"is_deleted"`
	DeletedBy   *int64          `json:"deletedBy,omitempty" db:"deleted_by"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Related entities
	Sender *User `json:"sender,omitempty"`
}
