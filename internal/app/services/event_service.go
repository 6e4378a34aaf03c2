package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

// EventStore is the event store surface the event service needs
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, eventType *string) ([]*models.Event, error)
	Deactivate(ctx context.Context, id int64) error
	CreateRegistration(ctx context.Context, reg *models.EventRegistration) error
	GetRegistration(ctx context.Context, eventID, userID int64) (*models.EventRegistration, error)
	DeleteRegistration(ctx context.Context, eventID, userID int64) error
	ListRegistrationsByEvent(ctx context.Context, eventID int64) ([]*models.EventRegistration, error)
	CountRegistrations(ctx context.Context, eventID int64) (int, error)
}

// EventTeamReader exposes the team registration lookups the event detail
// page needs
type EventTeamReader interface {
	GetByLeader(ctx context.Context, eventID, leaderID int64) (*models.EventTeamRegistration, error)
	GetMembershipForUser(ctx context.Context, eventID, userID int64) (*models.EventTeamMember, error)
	ListPendingInvitationsForUser(ctx context.Context, userID int64, eventID *int64) ([]*models.EventTeamInvitation, error)
}

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	ListEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error)
	GetEventDetail(ctx context.Context, eventID, userID int64) (*dto.EventDetailResponse, error)
	DeactivateEvent(ctx context.Context, eventID int64) error
	RegisterIndividual(ctx context.Context, eventID, userID int64, req *dto.RegisterIndividualRequest) (*dto.EventRegistrationResponse, error)
	Unregister(ctx context.Context, eventID, userID int64) error
	ListRegistrations(ctx context.Context, eventID int64) ([]dto.EventRegistrationResponse, error)
}

type eventServiceImpl struct {
	eventRepo EventStore
	teamRepo  EventTeamReader
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo EventStore, teamRepo EventTeamReader, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateEvent creates a new event. Events are immutable after creation
// except for deactivation.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if !req.StartDate.Before(req.EndDate) {
		return nil, apperrors.NewBadRequestError("event must start before it ends")
	}
	if req.RegistrationDeadline.After(req.StartDate) {
		return nil, apperrors.NewBadRequestError("registration deadline must not be after the event start")
	}
	if req.MinTeamSize > req.MaxTeamSize {
		return nil, apperrors.NewCustomError(apperrors.ErrTeamSizeOutOfRange, "minimum team size exceeds maximum")
	}

	event := &models.Event{
		Title:                req.Title,
		Description:          req.Description,
		EventType:            req.EventType,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Venue:                req.Venue,
		VirtualLink:          req.VirtualLink,
		MaxParticipants:      req.MaxParticipants,
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
		RegistrationDeadline: req.RegistrationDeadline,
		Rules:                req.Rules,
		Prizes:               req.Prizes,
		IsActive:             true,
		CreatorID:            creatorID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventId", event.ID).Str("title", event.Title).Msg("Event created")

	resp := dto.FromEvent(event)
	return &resp, nil
}

// ListEvents returns active events bucketed into upcoming, ongoing and past
// relative to now
func (s *eventServiceImpl) ListEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error) {
	events, err := s.eventRepo.List(ctx, filter.EventType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.EventListResponse{
		Upcoming: []dto.EventResponse{},
		Ongoing:  []dto.EventResponse{},
		Past:     []dto.EventResponse{},
	}
	for _, e := range events {
		er := dto.FromEvent(e)
		switch {
		case now.Before(e.StartDate):
			resp.Upcoming = append(resp.Upcoming, er)
		case now.After(e.EndDate):
			resp.Past = append(resp.Past, er)
		default:
			resp.Ongoing = append(resp.Ongoing, er)
		}
	}
	return resp, nil
}

// GetEventDetail returns the event page payload including the caller's
// registration state
func (s *eventServiceImpl) GetEventDetail(ctx context.Context, eventID, userID int64) (*dto.EventDetailResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	count, err := s.eventRepo.CountRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EventDetailResponse{
		Event:             dto.FromEvent(event),
		RegistrationCount: count,
	}

	if _, err := s.eventRepo.GetRegistration(ctx, eventID, userID); err == nil {
		resp.IsRegistered = true
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if reg, err := s.teamRepo.GetByLeader(ctx, eventID, userID); err == nil {
		tr := dto.FromTeamRegistration(reg)
		resp.TeamRegistration = &tr
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	if member, err := s.teamRepo.GetMembershipForUser(ctx, eventID, userID); err == nil {
		tm := dto.FromTeamMembership(member)
		resp.TeamMembership = &tm
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	invitations, err := s.teamRepo.ListPendingInvitationsForUser(ctx, userID, &eventID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invitations {
		resp.PendingInvitations = append(resp.PendingInvitations, dto.FromTeamInvitation(inv))
	}

	return resp, nil
}

// DeactivateEvent hides an event from listings
func (s *eventServiceImpl) DeactivateEvent(ctx context.Context, eventID int64) error {
	return s.eventRepo.Deactivate(ctx, eventID)
}

// RegisterIndividual registers the user for an event as an individual
func (s *eventServiceImpl) RegisterIndividual(ctx context.Context, eventID, userID int64, req *dto.RegisterIndividualRequest) (*dto.EventRegistrationResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, apperrors.ErrEventNotFound
	}
	if s.now().After(event.RegistrationDeadline) {
		return nil, apperrors.ErrDeadlinePassed
	}

	reg := &models.EventRegistration{
		UserID:         userID,
		EventID:        eventID,
		TeamName:       req.TeamName,
		AdditionalInfo: req.AdditionalInfo,
	}
	if err := s.eventRepo.CreateRegistration(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("eventId", eventID).Int64("userId", userID).Msg("Individual registration created")

	resp := dto.FromEventRegistration(reg)
	return &resp, nil
}

// Unregister removes the user's individual registration
func (s *eventServiceImpl) Unregister(ctx context.Context, eventID, userID int64) error {
	return s.eventRepo.DeleteRegistration(ctx, eventID, userID)
}

// ListRegistrations returns all individual registrations for an event
func (s *eventServiceImpl) ListRegistrations(ctx context.Context, eventID int64) ([]dto.EventRegistrationResponse, error) {
	regs, err := s.eventRepo.ListRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EventRegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		resp = append(resp, dto.FromEventRegistration(reg))
	}
	return resp, nil
}
