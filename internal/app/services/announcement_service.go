package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
	"github.com/selimd/campuslink/internal/pkg/helpers"
)

// AnnouncementStore is the announcement store surface the service needs
type AnnouncementStore interface {
	Create(ctx context.Context, ann *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	List(ctx context.Context, category *string, limit, offset int) ([]*models.Announcement, int, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id int64) error

	GetReaction(ctx context.Context, userID, announcementID int64) (*models.AnnouncementReaction, error)
	ReactionCounts(ctx context.Context, announcementID int64) (map[models.ReactionType]int, error)
	InsertReaction(ctx context.Context, reaction *models.AnnouncementReaction) error
	UpdateReaction(ctx context.Context, userID, announcementID int64, reactionType models.ReactionType) error
	DeleteReaction(ctx context.Context, userID, announcementID int64) error
	ReactionCountsBatch(ctx context.Context, announcementIDs []int64) (map[int64]map[models.ReactionType]int, error)
	ReactionsByUser(ctx context.Context, userID int64, announcementIDs []int64) (map[int64]models.ReactionType, error)
}

// AnnouncementService defines the interface for announcement operations
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, authorID int64, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, viewerID int64, category *string, page, pageSize int) (*dto.AnnouncementListResponse, error)
	GetAnnouncement(ctx context.Context, announcementID, viewerID int64) (*dto.AnnouncementResponse, error)
	DeleteAnnouncement(ctx context.Context, announcementID int64) error
	React(ctx context.Context, announcementID, userID int64, reactionType models.ReactionType) (*dto.ReactionResultResponse, error)
}

type announcementServiceImpl struct {
	announcementRepo AnnouncementStore
	logger           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcementRepo AnnouncementStore, logger zerolog.Logger) AnnouncementService {
	return &announcementServiceImpl{
		announcementRepo: announcementRepo,
		logger:           logger,
	}
}

// CreateAnnouncement publishes a new announcement. Callers are expected to
// have passed the admin guard already.
func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, authorID int64, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	ann := &models.Announcement{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		Priority: priority,
		IsPinned: req.IsPinned,
		AuthorID: authorID,
	}
	if err := s.announcementRepo.Create(ctx, ann); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("announcementId", ann.ID).Str("category", ann.Category).Msg("Announcement published")

	resp := dto.FromAnnouncement(ann)
	return &resp, nil
}

// ListAnnouncements returns a page of announcements, pinned first, with
// reaction counts, the viewer's own reaction, and the categories in use
func (s *announcementServiceImpl) ListAnnouncements(ctx context.Context, viewerID int64, category *string, page, pageSize int) (*dto.AnnouncementListResponse, error) {
	page, pageSize = helpers.NormalizePageParams(page, pageSize)

	anns, total, err := s.announcementRepo.List(ctx, category, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	categories, err := s.announcementRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(anns))
	for _, a := range anns {
		ids = append(ids, a.ID)
	}

	counts, err := s.announcementRepo.ReactionCountsBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	mine, err := s.announcementRepo.ReactionsByUser(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnnouncementListResponse{
		Announcements: make([]dto.AnnouncementResponse, 0, len(anns)),
		Categories:    categories,
		Pagination:    helpers.NewPaginationInfo(page, pageSize, int64(total)),
	}
	for _, a := range anns {
		item := dto.FromAnnouncement(a)
		item.Reactions = counts[a.ID]
		if rt, ok := mine[a.ID]; ok {
			reaction := rt
			item.MyReaction = &reaction
		}
		resp.Announcements = append(resp.Announcements, item)
	}
	return resp, nil
}

// GetAnnouncement returns a single announcement with reaction counts and
// the viewer's own reaction
func (s *announcementServiceImpl) GetAnnouncement(ctx context.Context, announcementID, viewerID int64) (*dto.AnnouncementResponse, error) {
	ann, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	counts, err := s.announcementRepo.ReactionCounts(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	mine, err := s.announcementRepo.GetReaction(ctx, viewerID, announcementID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromAnnouncement(ann)
	resp.Reactions = counts
	if mine != nil {
		reaction := mine.ReactionType
		resp.MyReaction = &reaction
	}
	return &resp, nil
}

// DeleteAnnouncement removes an announcement and its reactions
func (s *announcementServiceImpl) DeleteAnnouncement(ctx context.Context, announcementID int64) error {
	return s.announcementRepo.Delete(ctx, announcementID)
}

// React applies a reaction to an announcement. Reacting with the current
// type removes the reaction, a different type replaces it.
func (s *announcementServiceImpl) React(ctx context.Context, announcementID, userID int64, reactionType models.ReactionType) (*dto.ReactionResultResponse, error) {
	if !reactionType.Valid() {
		return nil, apperrors.NewBadRequestError("reaction type must be like, love or celebrate")
	}
	if _, err := s.announcementRepo.GetByID(ctx, announcementID); err != nil {
		return nil, err
	}

	existing, err := s.announcementRepo.GetReaction(ctx, userID, announcementID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		reaction := &models.AnnouncementReaction{
			UserID:         userID,
			AnnouncementID: announcementID,
			ReactionType:   reactionType,
		}
		if err := s.announcementRepo.InsertReaction(ctx, reaction); err != nil {
			return nil, err
		}
		return &dto.ReactionResultResponse{Action: dto.ReactionActionAdded}, nil

	case existing.ReactionType == reactionType:
		if err := s.announcementRepo.DeleteReaction(ctx, userID, announcementID); err != nil {
			return nil, err
		}
		return &dto.ReactionResultResponse{Action: dto.ReactionActionRemoved}, nil

	default:
		if err := s.announcementRepo.UpdateReaction(ctx, userID, announcementID, reactionType); err != nil {
			return nil, err
		}
		return &dto.ReactionResultResponse{Action: dto.ReactionActionUpdated}, nil
	}
}
