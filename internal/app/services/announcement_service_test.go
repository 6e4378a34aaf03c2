package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

type fakeAnnouncementStore struct {
	announcements map[int64]*models.Announcement
	reactions     map[voteKey]models.ReactionType // keyed by (userID, announcementID)
	nextID        int64
}

func newFakeAnnouncementStore() *fakeAnnouncementStore {
	return &fakeAnnouncementStore{
		announcements: make(map[int64]*models.Announcement),
		reactions:     make(map[voteKey]models.ReactionType),
	}
}

func (f *fakeAnnouncementStore) Create(_ context.Context, ann *models.Announcement) error {
	f.nextID++
	ann.ID = f.nextID
	ann.CreatedAt = time.Now()
	f.announcements[ann.ID] = ann
	return nil
}

func (f *fakeAnnouncementStore) GetByID(_ context.Context, id int64) (*models.Announcement, error) {
	ann, ok := f.announcements[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return ann, nil
}

func (f *fakeAnnouncementStore) List(_ context.Context, category *string, limit, offset int) ([]*models.Announcement, int, error) {
	var all []*models.Announcement
	for _, ann := range f.announcements {
		if category != nil && ann.Category != *category {
			continue
		}
		all = append(all, ann)
	}
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeAnnouncementStore) DistinctCategories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, ann := range f.announcements {
		if !seen[ann.Category] {
			seen[ann.Category] = true
			out = append(out, ann.Category)
		}
	}
	return out, nil
}

func (f *fakeAnnouncementStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.announcements[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.announcements, id)
	return nil
}

func (f *fakeAnnouncementStore) GetReaction(_ context.Context, userID, announcementID int64) (*models.AnnouncementReaction, error) {
	rt, ok := f.reactions[voteKey{userID, announcementID}]
	if !ok {
		return nil, nil
	}
	return &models.AnnouncementReaction{UserID: userID, AnnouncementID: announcementID, ReactionType: rt}, nil
}

func (f *fakeAnnouncementStore) InsertReaction(_ context.Context, reaction *models.AnnouncementReaction) error {
	f.reactions[voteKey{reaction.UserID, reaction.AnnouncementID}] = reaction.ReactionType
	return nil
}

func (f *fakeAnnouncementStore) UpdateReaction(_ context.Context, userID, announcementID int64, reactionType models.ReactionType) error {
	f.reactions[voteKey{userID, announcementID}] = reactionType
	return nil
}

func (f *fakeAnnouncementStore) DeleteReaction(_ context.Context, userID, announcementID int64) error {
	delete(f.reactions, voteKey{userID, announcementID})
	return nil
}

func (f *fakeAnnouncementStore) ReactionCounts(_ context.Context, announcementID int64) (map[models.ReactionType]int, error) {
	counts := make(map[models.ReactionType]int)
	for key, rt := range f.reactions {
		if key.targetID == announcementID {
			counts[rt]++
		}
	}
	return counts, nil
}

func (f *fakeAnnouncementStore) ReactionCountsBatch(_ context.Context, announcementIDs []int64) (map[int64]map[models.ReactionType]int, error) {
	out := make(map[int64]map[models.ReactionType]int)
	for key, rt := range f.reactions {
		for _, id := range announcementIDs {
			if key.targetID == id {
				if out[id] == nil {
					out[id] = make(map[models.ReactionType]int)
				}
				out[id][rt]++
			}
		}
	}
	return out, nil
}

func (f *fakeAnnouncementStore) ReactionsByUser(_ context.Context, userID int64, announcementIDs []int64) (map[int64]models.ReactionType, error) {
	out := make(map[int64]models.ReactionType)
	for _, id := range announcementIDs {
		if rt, ok := f.reactions[voteKey{userID, id}]; ok {
			out[id] = rt
		}
	}
	return out, nil
}

func newAnnouncementService(t *testing.T) (AnnouncementService, *fakeAnnouncementStore) {
	t.Helper()
	store := newFakeAnnouncementStore()
	return NewAnnouncementService(store, zerolog.Nop()), store
}

func publishAnnouncement(t *testing.T, svc AnnouncementService, title, category string) *dto.AnnouncementResponse {
	t.Helper()
	ann, err := svc.CreateAnnouncement(context.Background(), 1, &dto.CreateAnnouncementRequest{
		Title:    title,
		Content:  "content",
		Category: category,
	})
	require.NoError(t, err)
	return ann
}

func TestCreateAnnouncementDefaultsPriority(t *testing.T) {
	svc, _ := newAnnouncementService(t)

	ann, err := svc.CreateAnnouncement(context.Background(), 1, &dto.CreateAnnouncementRequest{
		Title:    "  Maintenance window  ",
		Content:  "content",
		Category: " general ",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityNormal, ann.Priority)
	assert.Equal(t, "Maintenance window", ann.Title)
	assert.Equal(t, "general", ann.Category)
}

func TestReactAddUpdateRemove(t *testing.T) {
	svc, store := newAnnouncementService(t)
	ann := publishAnnouncement(t, svc, "reactable", "general")

	result, err := svc.React(context.Background(), ann.ID, 2, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, dto.ReactionActionAdded, result.Action)

	// a different type replaces the reaction
	result, err = svc.React(context.Background(), ann.ID, 2, models.ReactionLove)
	require.NoError(t, err)
	assert.Equal(t, dto.ReactionActionUpdated, result.Action)
	assert.Equal(t, models.ReactionLove, store.reactions[voteKey{2, ann.ID}])

	// the same type removes it
	result, err = svc.React(context.Background(), ann.ID, 2, models.ReactionLove)
	require.NoError(t, err)
	assert.Equal(t, dto.ReactionActionRemoved, result.Action)
	assert.Empty(t, store.reactions)
}

func TestReactValidation(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ann := publishAnnouncement(t, svc, "strict", "general")

	_, err := svc.React(context.Background(), ann.ID, 2, models.ReactionType("sad"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.React(context.Background(), 999, 2, models.ReactionLike)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListAnnouncementsAnnotatesReactions(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	first := publishAnnouncement(t, svc, "first", "general")
	second := publishAnnouncement(t, svc, "second", "events")

	_, err := svc.React(context.Background(), first.ID, 2, models.ReactionLike)
	require.NoError(t, err)
	_, err = svc.React(context.Background(), first.ID, 3, models.ReactionCelebrate)
	require.NoError(t, err)

	page, err := svc.ListAnnouncements(context.Background(), 2, nil, 1, 10)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"general", "events"}, page.Categories)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)

	byID := map[int64]dto.AnnouncementResponse{}
	for _, ann := range page.Announcements {
		byID[ann.ID] = ann
	}

	assert.Equal(t, 1, byID[first.ID].Reactions[models.ReactionLike])
	assert.Equal(t, 1, byID[first.ID].Reactions[models.ReactionCelebrate])
	require.NotNil(t, byID[first.ID].MyReaction)
	assert.Equal(t, models.ReactionLike, *byID[first.ID].MyReaction)

	assert.Empty(t, byID[second.ID].Reactions)
	assert.Nil(t, byID[second.ID].MyReaction)
}

func TestListAnnouncementsCategoryFilter(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	publishAnnouncement(t, svc, "first", "general")
	publishAnnouncement(t, svc, "second", "events")

	category := "events"
	page, err := svc.ListAnnouncements(context.Background(), 2, &category, 1, 10)
	require.NoError(t, err)

	require.Len(t, page.Announcements, 1)
	assert.Equal(t, "second", page.Announcements[0].Title)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)
}

func TestGetAnnouncement(t *testing.T) {
	svc, _ := newAnnouncementService(t)
	ann := publishAnnouncement(t, svc, "standalone", "general")

	_, err := svc.React(context.Background(), ann.ID, 2, models.ReactionLike)
	require.NoError(t, err)
	_, err = svc.React(context.Background(), ann.ID, 3, models.ReactionLike)
	require.NoError(t, err)

	got, err := svc.GetAnnouncement(context.Background(), ann.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "standalone", got.Title)
	assert.Equal(t, 2, got.Reactions[models.ReactionLike])
	require.NotNil(t, got.MyReaction)
	assert.Equal(t, models.ReactionLike, *got.MyReaction)

	_, err = svc.GetAnnouncement(context.Background(), 999, 3)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
