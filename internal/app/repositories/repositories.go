package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	EventRepository        *EventRepository
	EventTeamRepository    *EventTeamRepository
	TeamRepository         *TeamRepository
	ForumRepository        *ForumRepository
	AnnouncementRepository *AnnouncementRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		EventRepository:        NewEventRepository(db),
		EventTeamRepository:    NewEventTeamRepository(db),
		TeamRepository:         NewTeamRepository(db),
		ForumRepository:        NewForumRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
