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

type fakeTeamStore struct {
	teams    map[int64]*models.Team
	requests map[int64]*models.TeamJoinRequest
	messages map[int64]*models.TeamMessage
	notified []*models.Notification
	nextID   int64
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{
		teams:    make(map[int64]*models.Team),
		requests: make(map[int64]*models.TeamJoinRequest),
		messages: make(map[int64]*models.TeamMessage),
	}
}

func (f *fakeTeamStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeTeamStore) Create(_ context.Context, team *models.Team) error {
	team.ID = f.id()
	team.CreatedAt = time.Now()
	team.Members = []models.TeamMember{{
		ID:     f.id(),
		TeamID: team.ID,
		UserID: team.LeaderID,
		Role:   models.TeamRoleLeader,
	}}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id int64) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return team, nil
}

func (f *fakeTeamStore) List(_ context.Context) ([]*models.Team, []int, error) {
	var teams []*models.Team
	var counts []int
	for _, team := range f.teams {
		teams = append(teams, team)
		counts = append(counts, len(team.Members))
	}
	return teams, counts, nil
}

func (f *fakeTeamStore) Update(_ context.Context, team *models.Team) error {
	if _, ok := f.teams[team.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.teams[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamStore) GetMember(_ context.Context, teamID, userID int64) (*models.TeamMember, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	for i := range team.Members {
		if team.Members[i].UserID == userID {
			return &team.Members[i], nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeTeamStore) RemoveMember(_ context.Context, teamID, userID int64) error {
	team, ok := f.teams[teamID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	for i := range team.Members {
		if team.Members[i].UserID == userID {
			team.Members = append(team.Members[:i], team.Members[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *fakeTeamStore) UpdateMemberRole(_ context.Context, teamID, userID int64, role models.TeamRole) error {
	team, ok := f.teams[teamID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	for i := range team.Members {
		if team.Members[i].UserID == userID {
			team.Members[i].Role = role
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *fakeTeamStore) TransferLeadership(_ context.Context, teamID, currentLeaderID, newLeaderID int64) error {
	team, ok := f.teams[teamID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	for i := range team.Members {
		switch team.Members[i].UserID {
		case currentLeaderID:
			team.Members[i].Role = models.TeamRoleMember
		case newLeaderID:
			team.Members[i].Role = models.TeamRoleLeader
		}
	}
	team.LeaderID = newLeaderID
	return nil
}

func (f *fakeTeamStore) ListMembershipTeamIDs(_ context.Context, userID int64) ([]int64, error) {
	var out []int64
	for _, team := range f.teams {
		for _, m := range team.Members {
			if m.UserID == userID {
				out = append(out, team.ID)
			}
		}
	}
	return out, nil
}

func (f *fakeTeamStore) ListPendingRequestTeamIDs(_ context.Context, userID int64) ([]int64, error) {
	var out []int64
	for _, req := range f.requests {
		if req.UserID == userID && req.Status == models.JoinRequestStatusPending {
			out = append(out, req.TeamID)
		}
	}
	return out, nil
}

func (f *fakeTeamStore) CreateJoinRequest(_ context.Context, req *models.TeamJoinRequest) error {
	for _, existing := range f.requests {
		if existing.TeamID == req.TeamID && existing.UserID == req.UserID &&
			existing.Status == models.JoinRequestStatusPending {
			return apperrors.ErrPendingJoinRequest
		}
	}
	req.ID = f.id()
	req.CreatedAt = time.Now()
	f.requests[req.ID] = req
	return nil
}

func (f *fakeTeamStore) GetJoinRequest(_ context.Context, id int64) (*models.TeamJoinRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return req, nil
}

func (f *fakeTeamStore) ListPendingJoinRequests(_ context.Context, teamID int64) ([]*models.TeamJoinRequest, error) {
	var out []*models.TeamJoinRequest
	for _, req := range f.requests {
		if req.TeamID == teamID && req.Status == models.JoinRequestStatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeTeamStore) ApproveJoinRequest(_ context.Context, req *models.TeamJoinRequest, reviewerID int64, notification *models.Notification) error {
	now := time.Now()
	req.Status = models.JoinRequestStatusApproved
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID
	team := f.teams[req.TeamID]
	team.Members = append(team.Members, models.TeamMember{
		ID:     f.id(),
		TeamID: req.TeamID,
		UserID: req.UserID,
		Role:   models.TeamRoleMember,
	})
	if notification != nil {
		f.notified = append(f.notified, notification)
	}
	return nil
}

func (f *fakeTeamStore) RejectJoinRequest(_ context.Context, req *models.TeamJoinRequest, reviewerID int64, notification *models.Notification) error {
	now := time.Now()
	req.Status = models.JoinRequestStatusRejected
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID
	if notification != nil {
		f.notified = append(f.notified, notification)
	}
	return nil
}

func (f *fakeTeamStore) CreateMessage(_ context.Context, msg *models.TeamMessage) error {
	msg.ID = f.id()
	msg.CreatedAt = time.Now()
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeTeamStore) GetMessage(_ context.Context, id int64) (*models.TeamMessage, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return msg, nil
}

func (f *fakeTeamStore) ListMessages(_ context.Context, teamID int64, limit, offset int) ([]*models.TeamMessage, error) {
	var out []*models.TeamMessage
	for _, msg := range f.messages {
		if msg.TeamID == teamID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeTeamStore) SoftDeleteMessage(_ context.Context, messageID, deletedBy int64) error {
	msg, ok := f.messages[messageID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	msg.IsDeleted = true
	msg.DeletedBy = &deletedBy
	return nil
}

type fakeNotifier struct {
	created []*models.Notification
}

func (f *fakeNotifier) Create(_ context.Context, n *models.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func newTeamService(t *testing.T) (TeamService, *fakeTeamStore, *fakeNotifier) {
	t.Helper()
	store := newFakeTeamStore()
	notifier := &fakeNotifier{}
	return NewTeamService(store, notifier, zerolog.Nop()), store, notifier
}

func createTeam(t *testing.T, svc TeamService, leaderID int64, name string, maxMembers int) *dto.TeamResponse {
	t.Helper()
	team, err := svc.CreateTeam(context.Background(), leaderID, &dto.CreateTeamRequest{
		Name:       name,
		MaxMembers: maxMembers,
	})
	require.NoError(t, err)
	return team
}

func TestCreateTeamDefaultsMaxMembers(t *testing.T) {
	svc, store, _ := newTeamService(t)

	team, err := svc.CreateTeam(context.Background(), 1, &dto.CreateTeamRequest{Name: "Compilers"})
	require.NoError(t, err)

	assert.Equal(t, 4, team.MaxMembers)
	assert.True(t, team.IsOpen)

	stored := store.teams[team.ID]
	require.Len(t, stored.Members, 1)
	assert.Equal(t, models.TeamRoleLeader, stored.Members[0].Role)
}

func TestJoinRequestFlow(t *testing.T) {
	svc, store, notifier := newTeamService(t)
	team := createTeam(t, svc, 1, "Joinable", 3)

	req, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestStatusPending, req.Status)

	// the leader hears about the request
	require.Len(t, notifier.created, 1)
	assert.Equal(t, int64(1), notifier.created[0].UserID)
	assert.Equal(t, models.NotificationJoinRequest, notifier.created[0].Type)

	// a second pending request for the same team is rejected
	_, err = svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPendingJoinRequest)

	// only the leader reviews
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 3, "approve")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	approved, err := svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	require.NoError(t, err)
	assert.Equal(t, models.JoinRequestStatusApproved, approved.Status)
	assert.Len(t, store.teams[team.ID].Members, 2)

	// requests are one-shot
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyResponded)

	// the requester is notified of the outcome
	approvedNotice := false
	for _, n := range store.notified {
		if n.UserID == 2 && n.Type == models.NotificationJoinApproved {
			approvedNotice = true
		}
	}
	assert.True(t, approvedNotice)
}

func TestJoinRequestClosedOrFullTeam(t *testing.T) {
	svc, store, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Exclusive", 2)

	// fill the team
	req, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	require.NoError(t, err)

	_, err = svc.RequestJoin(context.Background(), team.ID, 3, &dto.JoinTeamRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// existing members cannot request again
	store.teams[team.ID].MaxMembers = 5
	_, err = svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)

	// closed teams do not take requests at all
	store.teams[team.ID].IsOpen = false
	_, err = svc.RequestJoin(context.Background(), team.ID, 4, &dto.JoinTeamRequest{})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestApproveRechecksCapacity(t *testing.T) {
	svc, store, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Race", 2)

	first, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	second, err := svc.RequestJoin(context.Background(), team.ID, 3, &dto.JoinTeamRequest{})
	require.NoError(t, err)

	_, err = svc.ReviewJoinRequest(context.Background(), first.ID, 1, "approve")
	require.NoError(t, err)

	// the team filled up between the two reviews
	_, err = svc.ReviewJoinRequest(context.Background(), second.ID, 1, "approve")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, models.JoinRequestStatusPending, store.requests[second.ID].Status)
}

func TestLeaveTeamRules(t *testing.T) {
	svc, store, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Leavers", 4)

	req, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	require.NoError(t, err)

	// the leader is stuck until leadership moves
	err = svc.LeaveTeam(context.Background(), team.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, svc.TransferLeadership(context.Background(), team.ID, 1, 2))
	assert.Equal(t, int64(2), store.teams[team.ID].LeaderID)

	// now the old leader is a plain member and free to go
	require.NoError(t, svc.LeaveTeam(context.Background(), team.ID, 1))
	assert.Len(t, store.teams[team.ID].Members, 1)
}

func TestTransferLeadershipValidation(t *testing.T) {
	svc, _, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Handover", 4)

	// only the leader can transfer
	err := svc.TransferLeadership(context.Background(), team.ID, 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// transferring to yourself is meaningless
	err = svc.TransferLeadership(context.Background(), team.ID, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	// the new leader must already be a member
	err = svc.TransferLeadership(context.Background(), team.ID, 1, 99)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUpdateMemberRolePromotionTransfersLeadership(t *testing.T) {
	svc, store, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Promote", 4)

	req, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateMemberRole(context.Background(), team.ID, 1, 2, models.TeamRoleLeader))
	assert.Equal(t, int64(2), store.teams[team.ID].LeaderID)

	member, err := store.GetMember(context.Background(), team.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TeamRoleMember, member.Role)
}

func TestTeamMessages(t *testing.T) {
	svc, store, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Chatty", 4)

	req, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	require.NoError(t, err)

	// non-members cannot post or read
	_, err = svc.SendMessage(context.Background(), team.ID, 99, &dto.SendTeamMessageRequest{Message: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = svc.ListMessages(context.Background(), team.ID, 99, 50, 0)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	msg, err := svc.SendMessage(context.Background(), team.ID, 2, &dto.SendTeamMessageRequest{Message: "  hello team  "})
	require.NoError(t, err)
	assert.Equal(t, "hello team", msg.Message)

	_, err = svc.SendMessage(context.Background(), team.ID, 2, &dto.SendTeamMessageRequest{Message: "   "})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	// sender deletes their own message; readers see a placeholder
	require.NoError(t, svc.DeleteMessage(context.Background(), msg.ID, 2))
	assert.True(t, store.messages[msg.ID].IsDeleted)

	messages, err := svc.ListMessages(context.Background(), team.ID, 1, 50, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, deletedMessagePlaceholder, messages[0].Message)
}

func TestDeleteMessagePermissions(t *testing.T) {
	svc, _, _ := newTeamService(t)
	team := createTeam(t, svc, 1, "Moderated", 4)

	req, err := svc.RequestJoin(context.Background(), team.ID, 2, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(context.Background(), req.ID, 1, "approve")
	require.NoError(t, err)

	msg, err := svc.SendMessage(context.Background(), team.ID, 2, &dto.SendTeamMessageRequest{Message: "off topic"})
	require.NoError(t, err)

	req2, err := svc.RequestJoin(context.Background(), team.ID, 3, &dto.JoinTeamRequest{})
	require.NoError(t, err)
	_, err = svc.ReviewJoinRequest(context.Background(), req2.ID, 1, "approve")
	require.NoError(t, err)

	// another member cannot delete it
	err = svc.DeleteMessage(context.Background(), msg.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// the leader can
	require.NoError(t, svc.DeleteMessage(context.Background(), msg.ID, 1))
}

func TestListTeamsAnnotatesRelationship(t *testing.T) {
	svc, _, _ := newTeamService(t)
	mine := createTeam(t, svc, 1, "Mine", 4)
	other := createTeam(t, svc, 2, "Theirs", 4)

	_, err := svc.RequestJoin(context.Background(), other.ID, 1, &dto.JoinTeamRequest{})
	require.NoError(t, err)

	teams, err := svc.ListTeams(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, teams, 2)

	byID := map[int64]dto.TeamListItemResponse{}
	for _, team := range teams {
		byID[team.ID] = team
	}
	assert.True(t, byID[mine.ID].IsMember)
	assert.False(t, byID[mine.ID].HasPendingRequest)
	assert.False(t, byID[other.ID].IsMember)
	assert.True(t, byID[other.ID].HasPendingRequest)
}
