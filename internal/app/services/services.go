package services

import (
	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/repositories"
	"github.com/selimd/campuslink/internal/pkg/auth"
)

// Services holds all the service instances
type Services struct {
	AuthService         AuthService
	UserService         UserService
	EventService        EventService
	EventTeamService    EventTeamService
	TeamService         TeamService
	ForumService        ForumService
	AnnouncementService AnnouncementService
	NotificationService NotificationService
	DashboardService    DashboardService
}

// NewServices wires all services over the repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, mailer InvitationMailer, logger zerolog.Logger) *Services {
	return &Services{
		AuthService:         NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService, logger),
		UserService:         NewUserService(repos.UserRepository, logger),
		EventService:        NewEventService(repos.EventRepository, repos.EventTeamRepository, logger),
		EventTeamService:    NewEventTeamService(repos.EventTeamRepository, repos.EventRepository, repos.UserRepository, mailer, logger),
		TeamService:         NewTeamService(repos.TeamRepository, repos.NotificationRepository, logger),
		ForumService:        NewForumService(repos.ForumRepository, logger),
		AnnouncementService: NewAnnouncementService(repos.AnnouncementRepository, logger),
		NotificationService: NewNotificationService(repos.NotificationRepository, logger),
		DashboardService: NewDashboardService(
			repos.EventRepository,
			repos.AnnouncementRepository,
			repos.ForumRepository,
			repos.NotificationRepository,
			logger,
		),
	}
}
