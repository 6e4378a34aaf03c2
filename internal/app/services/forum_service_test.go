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

type voteKey struct {
	userID, targetID int64
}

type fakeForumStore struct {
	categories   map[int64]*models.ForumCategory
	posts        map[int64]*models.ForumPost
	comments     map[int64]*models.ForumComment
	postVotes    map[voteKey]models.VoteType
	commentVotes map[voteKey]models.VoteType
	nextID       int64
}

func newFakeForumStore() *fakeForumStore {
	f := &fakeForumStore{
		categories:   make(map[int64]*models.ForumCategory),
		posts:        make(map[int64]*models.ForumPost),
		comments:     make(map[int64]*models.ForumComment),
		postVotes:    make(map[voteKey]models.VoteType),
		commentVotes: make(map[voteKey]models.VoteType),
	}
	f.categories[1] = &models.ForumCategory{ID: 1, Name: "General"}
	f.nextID = 1
	return f
}

func (f *fakeForumStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeForumStore) ListCategories(_ context.Context) ([]*models.ForumCategory, error) {
	var out []*models.ForumCategory
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeForumStore) GetCategoryByID(_ context.Context, id int64) (*models.ForumCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return c, nil
}

func (f *fakeForumStore) CreatePost(_ context.Context, post *models.ForumPost) error {
	post.ID = f.id()
	post.CreatedAt = time.Now()
	f.posts[post.ID] = post
	return nil
}

func (f *fakeForumStore) GetPostByID(_ context.Context, id int64) (*models.ForumPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakeForumStore) ListPosts(_ context.Context, categoryID *int64, limit, offset int) ([]*models.ForumPost, int, error) {
	var all []*models.ForumPost
	for _, post := range f.posts {
		if categoryID == nil || post.CategoryID == *categoryID {
			all = append(all, post)
		}
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

func (f *fakeForumStore) IncrementViews(_ context.Context, postID int64) error {
	post, ok := f.posts[postID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	post.Views++
	return nil
}

func (f *fakeForumStore) CreateComment(_ context.Context, comment *models.ForumComment) error {
	comment.ID = f.id()
	comment.CreatedAt = time.Now()
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeForumStore) GetCommentByID(_ context.Context, id int64) (*models.ForumComment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return comment, nil
}

func (f *fakeForumStore) ListCommentsByPost(_ context.Context, postID int64) ([]*models.ForumComment, error) {
	// oldest first, parents before replies
	var out []*models.ForumComment
	for id := int64(0); id <= f.nextID; id++ {
		if c, ok := f.comments[id]; ok && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeForumStore) DeleteComment(_ context.Context, id int64) error {
	if _, ok := f.comments[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeForumStore) GetPostVote(_ context.Context, userID, postID int64) (*models.ForumVote, error) {
	vote, ok := f.postVotes[voteKey{userID, postID}]
	if !ok {
		return nil, nil
	}
	return &models.ForumVote{UserID: userID, PostID: postID, VoteType: vote}, nil
}

func (f *fakeForumStore) InsertPostVote(_ context.Context, userID, postID int64, vote models.VoteType) error {
	f.postVotes[voteKey{userID, postID}] = vote
	f.bumpPost(postID, vote, 1)
	return nil
}

func (f *fakeForumStore) RemovePostVote(_ context.Context, userID, postID int64, vote models.VoteType) error {
	delete(f.postVotes, voteKey{userID, postID})
	f.bumpPost(postID, vote, -1)
	return nil
}

func (f *fakeForumStore) FlipPostVote(_ context.Context, userID, postID int64, newVote models.VoteType) error {
	old := f.postVotes[voteKey{userID, postID}]
	f.postVotes[voteKey{userID, postID}] = newVote
	f.bumpPost(postID, old, -1)
	f.bumpPost(postID, newVote, 1)
	return nil
}

func (f *fakeForumStore) bumpPost(postID int64, vote models.VoteType, delta int) {
	post := f.posts[postID]
	if vote == models.VoteTypeUp {
		post.Upvotes += delta
	} else {
		post.Downvotes += delta
	}
}

func (f *fakeForumStore) GetPostVoteCounts(_ context.Context, postID int64) (int, int, error) {
	post, ok := f.posts[postID]
	if !ok {
		return 0, 0, apperrors.ErrResourceNotFound
	}
	return post.Upvotes, post.Downvotes, nil
}

func (f *fakeForumStore) GetCommentVote(_ context.Context, userID, commentID int64) (*models.ForumCommentVote, error) {
	vote, ok := f.commentVotes[voteKey{userID, commentID}]
	if !ok {
		return nil, nil
	}
	return &models.ForumCommentVote{UserID: userID, CommentID: commentID, VoteType: vote}, nil
}

func (f *fakeForumStore) InsertCommentVote(_ context.Context, userID, commentID int64, vote models.VoteType) error {
	f.commentVotes[voteKey{userID, commentID}] = vote
	f.bumpComment(commentID, vote, 1)
	return nil
}

func (f *fakeForumStore) RemoveCommentVote(_ context.Context, userID, commentID int64, vote models.VoteType) error {
	delete(f.commentVotes, voteKey{userID, commentID})
	f.bumpComment(commentID, vote, -1)
	return nil
}

func (f *fakeForumStore) FlipCommentVote(_ context.Context, userID, commentID int64, newVote models.VoteType) error {
	old := f.commentVotes[voteKey{userID, commentID}]
	f.commentVotes[voteKey{userID, commentID}] = newVote
	f.bumpComment(commentID, old, -1)
	f.bumpComment(commentID, newVote, 1)
	return nil
}

func (f *fakeForumStore) bumpComment(commentID int64, vote models.VoteType, delta int) {
	comment := f.comments[commentID]
	if vote == models.VoteTypeUp {
		comment.Upvotes += delta
	} else {
		comment.Downvotes += delta
	}
}

func (f *fakeForumStore) GetCommentVoteCounts(_ context.Context, commentID int64) (int, int, error) {
	comment, ok := f.comments[commentID]
	if !ok {
		return 0, 0, apperrors.ErrResourceNotFound
	}
	return comment.Upvotes, comment.Downvotes, nil
}

func newForumService(t *testing.T) (ForumService, *fakeForumStore) {
	t.Helper()
	store := newFakeForumStore()
	return NewForumService(store, zerolog.Nop()), store
}

func createPost(t *testing.T, svc ForumService, authorID int64, title string) *dto.PostResponse {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), authorID, &dto.CreatePostRequest{
		Title:      title,
		Content:    "content",
		CategoryID: 1,
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostRequiresExistingCategory(t *testing.T) {
	svc, _ := newForumService(t)

	_, err := svc.CreatePost(context.Background(), 1, &dto.CreatePostRequest{
		Title:      "orphan",
		Content:    "content",
		CategoryID: 99,
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestVotePostToggleAndFlip(t *testing.T) {
	svc, store := newForumService(t)
	post := createPost(t, svc, 1, "votable")

	// first vote inserts
	result, err := svc.VotePost(context.Background(), post.ID, 2, models.VoteTypeUp)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)

	// same vote again removes it
	result, err = svc.VotePost(context.Background(), post.ID, 2, models.VoteTypeUp)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)
	assert.Empty(t, store.postVotes)

	// opposite vote flips
	_, err = svc.VotePost(context.Background(), post.ID, 2, models.VoteTypeUp)
	require.NoError(t, err)
	result, err = svc.VotePost(context.Background(), post.ID, 2, models.VoteTypeDown)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, 1, result.Downvotes)

	// votes from different users accumulate
	result, err = svc.VotePost(context.Background(), post.ID, 3, models.VoteTypeDown)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Downvotes)
}

func TestVotePostRejectsUnknownDirection(t *testing.T) {
	svc, _ := newForumService(t)
	post := createPost(t, svc, 1, "strict")

	_, err := svc.VotePost(context.Background(), post.ID, 2, models.VoteType("sideways"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestVoteCommentToggle(t *testing.T) {
	svc, _ := newForumService(t)
	post := createPost(t, svc, 1, "commented")

	comment, err := svc.CreateComment(context.Background(), post.ID, 2, &dto.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	result, err := svc.VoteComment(context.Background(), comment.ID, 3, models.VoteTypeDown)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Downvotes)

	result, err = svc.VoteComment(context.Background(), comment.ID, 3, models.VoteTypeDown)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Downvotes)
}

func TestCommentTreeNestsReplies(t *testing.T) {
	svc, _ := newForumService(t)
	post := createPost(t, svc, 1, "threaded")

	root, err := svc.CreateComment(context.Background(), post.ID, 2, &dto.CreateCommentRequest{Content: "root"})
	require.NoError(t, err)
	reply, err := svc.CreateComment(context.Background(), post.ID, 3, &dto.CreateCommentRequest{
		Content:  "reply",
		ParentID: &root.ID,
	})
	require.NoError(t, err)
	_, err = svc.CreateComment(context.Background(), post.ID, 4, &dto.CreateCommentRequest{
		Content:  "nested reply",
		ParentID: &reply.ID,
	})
	require.NoError(t, err)

	detail, err := svc.GetPostDetail(context.Background(), post.ID)
	require.NoError(t, err)

	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "root", detail.Comments[0].Content)
	require.Len(t, detail.Comments[0].Replies, 1)
	assert.Equal(t, "reply", detail.Comments[0].Replies[0].Content)
	require.Len(t, detail.Comments[0].Replies[0].Replies, 1)
}

func TestCreateCommentParentMustBelongToPost(t *testing.T) {
	svc, _ := newForumService(t)
	postA := createPost(t, svc, 1, "post A")
	postB := createPost(t, svc, 1, "post B")

	parent, err := svc.CreateComment(context.Background(), postA.ID, 2, &dto.CreateCommentRequest{Content: "on A"})
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), postB.ID, 2, &dto.CreateCommentRequest{
		Content:  "cross post reply",
		ParentID: &parent.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestGetPostDetailCountsView(t *testing.T) {
	svc, store := newForumService(t)
	post := createPost(t, svc, 1, "viewed")

	detail, err := svc.GetPostDetail(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Post.Views)
	assert.Equal(t, 1, store.posts[post.ID].Views)
}

func TestDeleteCommentPermissions(t *testing.T) {
	svc, store := newForumService(t)
	post := createPost(t, svc, 1, "moderated")

	comment, err := svc.CreateComment(context.Background(), post.ID, 2, &dto.CreateCommentRequest{Content: "mine"})
	require.NoError(t, err)

	// neither a stranger nor the post author may delete it
	err = svc.DeleteComment(context.Background(), comment.ID, 3, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	err = svc.DeleteComment(context.Background(), comment.ID, 1, false)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// admins may
	require.NoError(t, svc.DeleteComment(context.Background(), comment.ID, 3, true))
	_, ok := store.comments[comment.ID]
	assert.False(t, ok)
}

func TestListPostsPagination(t *testing.T) {
	svc, _ := newForumService(t)
	for i := 0; i < 12; i++ {
		createPost(t, svc, 1, "post")
	}

	page, err := svc.ListPosts(context.Background(), nil, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 5)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, int64(12), page.Pagination.TotalItems)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestResolveVoteAction(t *testing.T) {
	up := models.VoteTypeUp
	down := models.VoteTypeDown

	assert.Equal(t, voteInsert, resolveVoteAction(nil, up))
	assert.Equal(t, voteRemove, resolveVoteAction(&up, up))
	assert.Equal(t, voteFlip, resolveVoteAction(&down, up))
	assert.Equal(t, voteFlip, resolveVoteAction(&up, down))
}
