package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/selimd/campuslink/internal/app/models"
	appRepos "github.com/selimd/campuslink/internal/app/repositories"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	pkgAuth "github.com/selimd/campuslink/internal/pkg/auth"
)

const adminEmail = "admin@campuslink.app"

// defaultCategories are the forum categories every deployment starts with.
var defaultCategories = []appModels.ForumCategory{
	{Name: "General", Description: strPtr("General discussion"), Icon: strPtr("chat"), Color: strPtr("#6B7280")},
	{Name: "Help & Questions", Description: strPtr("Ask for help with coursework and projects"), Icon: strPtr("help"), Color: strPtr("#3B82F6")},
	{Name: "Projects", Description: strPtr("Show off and discuss projects"), Icon: strPtr("code"), Color: strPtr("#10B981")},
	{Name: "Events", Description: strPtr("Event discussion and coordination"), Icon: strPtr("calendar"), Color: strPtr("#F59E0B")},
	{Name: "Careers", Description: strPtr("Internships, jobs and career advice"), Icon: strPtr("briefcase"), Color: strPtr("#8B5CF6")},
}

// CreateDefaultData creates the default admin user and forum categories
// if they don't exist, plus a couple of welcome announcements on a
// fresh database.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	forumRepo := appRepos.NewForumRepository(dbPool)
	announcementRepo := appRepos.NewAnnouncementRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error // To collect potential errors without stopping the process

	// --- Default Forum Categories --- //
	for i := range defaultCategories {
		cat := defaultCategories[i]
		err := forumRepo.CreateCategory(ctx, &cat)
		if err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("category", cat.Name).Msg("Error creating forum category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default Admin User --- //
	adminID, err := ensureAdminUser(ctx, userRepo, lgr)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	// --- Welcome Announcements --- //
	if adminID > 0 {
		if err := createWelcomeAnnouncements(ctx, announcementRepo, adminID, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureAdminUser(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger) (int64, error) {
	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return 0, err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		admin, err := userRepo.GetByEmail(ctx, adminEmail)
		if err != nil {
			return 0, err
		}
		return admin.ID, nil
	}

	lgr.Info().Msg("Creating default admin user...")

	hashedPassword, err := pkgAuth.HashPassword("Admin123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return 0, err
	}

	admin := &appModels.User{
		Username: "admin",
		Email:    adminEmail,
		Password: hashedPassword,
		FullName: "Platform Administrator",
		IsAdmin:  true,
		IsActive: true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return 0, err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return admin.ID, nil
}

// createWelcomeAnnouncements publishes starter announcements on an
// empty database so the dashboard has content on first login.
func createWelcomeAnnouncements(ctx context.Context, announcementRepo *appRepos.AnnouncementRepository, adminID int64, lgr zerolog.Logger) error {
	_, total, err := announcementRepo.List(ctx, nil, 1, 0)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for existing announcements")
		return err
	}
	if total > 0 {
		return nil
	}

	announcements := []*appModels.Announcement{
		{
			Title:    "Welcome to CampusLink",
			Content:  "CampusLink is the hub for the campus tech community: events, team-ups, discussions and announcements all in one place. Head to your dashboard to see what's happening.",
			Category: "platform",
			Priority: appModels.PriorityHigh,
			IsPinned: true,
			AuthorID: adminID,
		},
		{
			Title:    fmt.Sprintf("Community spotlight: %s", gofakeit.AppName()),
			Content:  fmt.Sprintf("Our featured student project this week is %s by %s. Check the Projects forum for the full writeup.", gofakeit.AppName(), gofakeit.Name()),
			Category: "community",
			Priority: appModels.PriorityNormal,
			AuthorID: adminID,
		},
	}

	for _, ann := range announcements {
		if err := announcementRepo.Create(ctx, ann); err != nil {
			lgr.Error().Err(err).Str("title", ann.Title).Msg("Error creating welcome announcement")
			return err
		}
	}

	lgr.Info().Int("count", len(announcements)).Msg("Welcome announcements created")
	return nil
}

func strPtr(s string) *string { return &s }
