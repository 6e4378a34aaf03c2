package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimd/campuslink/internal/app/models"
	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

type fakeEventTeamStore struct {
	regs        map[int64]*models.EventTeamRegistration
	invitations map[int64]*models.EventTeamInvitation
	notified    []*models.Notification
	nextID      int64
}

func newFakeEventTeamStore() *fakeEventTeamStore {
	return &fakeEventTeamStore{
		regs:        make(map[int64]*models.EventTeamRegistration),
		invitations: make(map[int64]*models.EventTeamInvitation),
	}
}

func (f *fakeEventTeamStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeEventTeamStore) CreateTeamRegistration(_ context.Context, reg *models.EventTeamRegistration, leaderSkills *string,
	invitations []*models.EventTeamInvitation, notifications []*models.Notification) error {
	reg.ID = f.id()
	reg.RegisteredAt = time.Now()
	reg.Members = []models.EventTeamMember{{
		ID:                 f.id(),
		TeamRegistrationID: reg.ID,
		UserID:             reg.TeamLeaderID,
		Role:               models.TeamRoleLeader,
		Skills:             leaderSkills,
	}}
	f.regs[reg.ID] = reg
	for _, inv := range invitations {
		inv.ID = f.id()
		inv.TeamRegistrationID = reg.ID
		inv.InvitedAt = time.Now()
		inv.TeamRegistration = reg
		f.invitations[inv.ID] = inv
	}
	f.notified = append(f.notified, notifications...)
	return nil
}

func (f *fakeEventTeamStore) GetByID(_ context.Context, id int64) (*models.EventTeamRegistration, error) {
	reg, ok := f.regs[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return reg, nil
}

func (f *fakeEventTeamStore) GetByLeader(_ context.Context, eventID, leaderID int64) (*models.EventTeamRegistration, error) {
	for _, reg := range f.regs {
		if reg.EventID == eventID && reg.TeamLeaderID == leaderID {
			return reg, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeEventTeamStore) ListByEvent(_ context.Context, eventID int64) ([]*models.EventTeamRegistration, error) {
	var out []*models.EventTeamRegistration
	for _, reg := range f.regs {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeEventTeamStore) GetMembershipForUser(_ context.Context, eventID, userID int64) (*models.EventTeamMember, error) {
	for _, reg := range f.regs {
		if reg.EventID != eventID {
			continue
		}
		for i := range reg.Members {
			if reg.Members[i].UserID == userID {
				return &reg.Members[i], nil
			}
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeEventTeamStore) RemoveMember(_ context.Context, teamRegistrationID, userID int64) error {
	reg, ok := f.regs[teamRegistrationID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	for i := range reg.Members {
		if reg.Members[i].UserID == userID {
			reg.Members = append(reg.Members[:i], reg.Members[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *fakeEventTeamStore) GetInvitationByID(_ context.Context, id int64) (*models.EventTeamInvitation, error) {
	inv, ok := f.invitations[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return inv, nil
}

func (f *fakeEventTeamStore) ListPendingInvitationsForUser(_ context.Context, userID int64, eventID *int64) ([]*models.EventTeamInvitation, error) {
	var out []*models.EventTeamInvitation
	for _, inv := range f.invitations {
		if inv.InvitedUserID != userID || inv.Status != models.InvitationStatusPending {
			continue
		}
		if eventID != nil && inv.TeamRegistration != nil && inv.TeamRegistration.EventID != *eventID {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeEventTeamStore) AcceptInvitation(_ context.Context, inv *models.EventTeamInvitation, notifications []*models.Notification) error {
	stored, ok := f.invitations[inv.ID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	if stored.Status != models.InvitationStatusPending {
		return apperrors.ErrAlreadyResponded
	}
	now := time.Now()
	stored.Status = models.InvitationStatusAccepted
	stored.RespondedAt = &now
	inv.Status = models.InvitationStatusAccepted
	inv.RespondedAt = &now
	reg := f.regs[stored.TeamRegistrationID]
	reg.Members = append(reg.Members, models.EventTeamMember{
		ID:                 f.id(),
		TeamRegistrationID: reg.ID,
		UserID:             stored.InvitedUserID,
		Role:               stored.Role,
		Skills:             stored.Skills,
	})
	f.notified = append(f.notified, notifications...)
	return nil
}

func (f *fakeEventTeamStore) ResolveInvitation(_ context.Context, invitationID int64, status models.InvitationStatus) error {
	inv, ok := f.invitations[invitationID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	if inv.Status != models.InvitationStatusPending {
		return apperrors.ErrAlreadyResponded
	}
	inv.Status = status
	return nil
}

func (f *fakeEventTeamStore) ReplaceMembers(_ context.Context, teamRegistrationID int64, teamName string,
	members []*models.EventTeamMember, notifications []*models.Notification) error {
	reg, ok := f.regs[teamRegistrationID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	reg.TeamName = teamName
	kept := []models.EventTeamMember{}
	for i := range reg.Members {
		if reg.Members[i].Role == models.TeamRoleLeader {
			kept = append(kept, reg.Members[i])
		}
	}
	for _, m := range members {
		m.ID = f.id()
		m.TeamRegistrationID = teamRegistrationID
		kept = append(kept, *m)
	}
	reg.Members = kept
	f.notified = append(f.notified, notifications...)
	return nil
}

func (f *fakeEventTeamStore) Delete(_ context.Context, teamRegistrationID int64) error {
	if _, ok := f.regs[teamRegistrationID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.regs, teamRegistrationID)
	return nil
}

func (f *fakeEventTeamStore) UpdateStatus(_ context.Context, teamRegistrationID int64, status models.TeamRegistrationStatus) error {
	reg, ok := f.regs[teamRegistrationID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	reg.Status = status
	return nil
}

type fakeEventReader struct {
	events map[int64]*models.Event
}

func (f *fakeEventReader) GetByID(_ context.Context, id int64) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

type fakeInviteeResolver struct {
	users []*models.User
}

func (f *fakeInviteeResolver) GetByEmails(_ context.Context, emails []string) ([]*models.User, error) {
	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}
	var out []*models.User
	for _, u := range f.users {
		if wanted[u.Email] {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendTeamInvitation(to, _, _ string, _ time.Time) error {
	f.sent = append(f.sent, to)
	return f.err
}

type teamFixture struct {
	store   *fakeEventTeamStore
	events  *fakeEventReader
	users   *fakeInviteeResolver
	mailer  *fakeMailer
	service *eventTeamServiceImpl
}

func newTeamFixture(t *testing.T, now time.Time) *teamFixture {
	t.Helper()
	f := &teamFixture{
		store: newFakeEventTeamStore(),
		events: &fakeEventReader{events: map[int64]*models.Event{
			1: {
				ID:                   1,
				Title:                "Spring Hackathon",
				EventType:            models.EventTypeHackathon,
				MinTeamSize:          2,
				MaxTeamSize:          4,
				RegistrationDeadline: now.Add(48 * time.Hour),
				IsActive:             true,
			},
		}},
		users: &fakeInviteeResolver{users: []*models.User{
			{ID: 10, Username: "leader", Email: "leader@campus.edu"},
			{ID: 11, Username: "alice", Email: "alice@campus.edu"},
			{ID: 12, Username: "bob", Email: "bob@campus.edu"},
			{ID: 13, Username: "carol", Email: "carol@campus.edu"},
		}},
		mailer: &fakeMailer{},
	}
	f.service = &eventTeamServiceImpl{
		teamRepo:  f.store,
		eventRepo: f.events,
		userRepo:  f.users,
		mailer:    f.mailer,
		logger:    zerolog.Nop(),
		now:       func() time.Time { return now },
	}
	return f
}

func TestRegisterTeamSendsInvitations(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Null Pointers",
		Invitees: []dto.TeamInvitee{
			{Email: "alice@campus.edu"},
			{Email: "bob@campus.edu"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.InvitationsSent)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "Null Pointers", result.Registration.TeamName)
	assert.Equal(t, models.TeamRegistrationStatusRegistered, result.Registration.Status)

	// leader is implicitly the only member until invitations are accepted
	require.Len(t, result.Registration.Members, 1)
	assert.Equal(t, models.TeamRoleLeader, result.Registration.Members[0].Role)

	assert.ElementsMatch(t, []string{"alice@campus.edu", "bob@campus.edu"}, f.mailer.sent)
	assert.Len(t, f.store.notified, 2)
	for _, inv := range f.store.invitations {
		assert.Equal(t, now.Add(models.InvitationTTL), inv.ExpiresAt)
	}
}

func TestRegisterTeamUnresolvableInviteesBecomeWarnings(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Warnings",
		Invitees: []dto.TeamInvitee{
			{Email: "alice@campus.edu"},
			{Email: "ALICE@campus.edu"}, // duplicate after normalization
			{Email: "ghost@campus.edu"}, // no account
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.InvitationsSent)
	assert.Len(t, result.Warnings, 2)
	assert.Equal(t, []string{"alice@campus.edu"}, f.mailer.sent)
}

func TestRegisterTeamSizeCheckUsesRawInviteeCount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	// one unknown invitee still satisfies the raw size check of 2
	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Solo in Practice",
		Invitees: []dto.TeamInvitee{{Email: "ghost@campus.edu"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.InvitationsSent)
	assert.Len(t, result.Warnings, 1)

	// no invitees at all fails the size check
	_, err = f.service.RegisterTeam(context.Background(), 1, 11, &dto.RegisterTeamRequest{
		TeamName: "Actually Solo",
	})
	assert.ErrorIs(t, err, apperrors.ErrTeamSizeOutOfRange)

	// five including the leader exceeds the maximum of four
	_, err = f.service.RegisterTeam(context.Background(), 1, 12, &dto.RegisterTeamRequest{
		TeamName: "Crowd",
		Invitees: []dto.TeamInvitee{
			{Email: "a@campus.edu"}, {Email: "b@campus.edu"},
			{Email: "c@campus.edu"}, {Email: "d@campus.edu"},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrTeamSizeOutOfRange)
}

func TestRegisterTeamAfterDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)
	f.events.events[1].RegistrationDeadline = now.Add(-time.Minute)

	_, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Too Late",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrDeadlinePassed)
}

func TestRegisterTeamTwiceAsLeader(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	_, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "First",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)

	_, err = f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Second",
		Invitees: []dto.TeamInvitee{{Email: "bob@campus.edu"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
}

func TestRegisterTeamWhileMemberOfAnotherTeam(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "First",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)

	acceptOnlyInvitation(t, f, result.Registration.ID, 11)

	// alice now belongs to First; she cannot lead her own team for the event
	_, err = f.service.RegisterTeam(context.Background(), 1, 11, &dto.RegisterTeamRequest{
		TeamName: "Breakaway",
		Invitees: []dto.TeamInvitee{{Email: "bob@campus.edu"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)

	// and inviting her to yet another team is a warning, not an invitation
	other, err := f.service.RegisterTeam(context.Background(), 1, 12, &dto.RegisterTeamRequest{
		TeamName: "Poachers",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}, {Email: "carol@campus.edu"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, other.InvitationsSent)
	require.Len(t, other.Warnings, 1)
	assert.Contains(t, other.Warnings[0], "already in another team")
}

func acceptOnlyInvitation(t *testing.T, f *teamFixture, teamRegistrationID, userID int64) int64 {
	t.Helper()
	for id, inv := range f.store.invitations {
		if inv.TeamRegistrationID == teamRegistrationID && inv.InvitedUserID == userID &&
			inv.Status == models.InvitationStatusPending {
			_, err := f.service.RespondToInvitation(context.Background(), id, userID, "accept")
			require.NoError(t, err)
			return id
		}
	}
	t.Fatalf("no pending invitation for user %d on team %d", userID, teamRegistrationID)
	return 0
}

func TestRespondToInvitationAccept(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Acceptors",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)

	acceptOnlyInvitation(t, f, result.Registration.ID, 11)

	reg, err := f.store.GetByID(context.Background(), result.Registration.ID)
	require.NoError(t, err)
	require.Len(t, reg.Members, 2)

	// the leader hears about it
	leaderNotified := false
	for _, n := range f.store.notified {
		if n.UserID == 10 && n.Title == "Invitation accepted" {
			leaderNotified = true
		}
	}
	assert.True(t, leaderNotified)
}

func TestRespondToInvitationIsOneShot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "One Shot",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)

	invID := acceptOnlyInvitation(t, f, result.Registration.ID, 11)

	_, err = f.service.RespondToInvitation(context.Background(), invID, 11, "reject")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyResponded)
}

func TestRespondToInvitationWrongUser(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	_, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Private",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)

	var invID int64
	for id := range f.store.invitations {
		invID = id
	}
	_, err = f.service.RespondToInvitation(context.Background(), invID, 12, "accept")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestExpiredInvitationAcceptFailsRejectSucceeds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	_, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Expired",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}, {Email: "bob@campus.edu"}},
	})
	require.NoError(t, err)

	var aliceInv, bobInv int64
	for id, inv := range f.store.invitations {
		switch inv.InvitedUserID {
		case 11:
			aliceInv = id
		case 12:
			bobInv = id
		}
	}

	// jump past the invitation TTL
	f.service.now = func() time.Time { return now.Add(models.InvitationTTL + time.Hour) }

	_, err = f.service.RespondToInvitation(context.Background(), aliceInv, 11, "accept")
	assert.ErrorIs(t, err, apperrors.ErrInvitationExpired)
	assert.Equal(t, models.InvitationStatusExpired, f.store.invitations[aliceInv].Status)

	// rejecting is honored even past expiry
	resp, err := f.service.RespondToInvitation(context.Background(), bobInv, 12, "reject")
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusRejected, resp.Status)
}

func TestListMyInvitationsPresentsExpiredLazily(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	_, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Lazy",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)

	f.service.now = func() time.Time { return now.Add(models.InvitationTTL + time.Hour) }

	invitations, err := f.service.ListMyInvitations(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	assert.Equal(t, models.InvitationStatusExpired, invitations[0].Status)

	// the stored row is untouched until someone responds
	for _, inv := range f.store.invitations {
		assert.Equal(t, models.InvitationStatusPending, inv.Status)
	}
}

func TestQuitTeam(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Quitters",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)
	acceptOnlyInvitation(t, f, result.Registration.ID, 11)

	// leaders cannot quit their own team
	err = f.service.QuitTeam(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)

	// members can
	require.NoError(t, f.service.QuitTeam(context.Background(), 1, 11))
	reg, err := f.store.GetByID(context.Background(), result.Registration.ID)
	require.NoError(t, err)
	assert.Len(t, reg.Members, 1)

	// a non-member has nothing to quit
	err = f.service.QuitTeam(context.Background(), 1, 12)
	assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)
}

func TestEvaluateAndListTeams(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	full, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Full Strength",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)
	acceptOnlyInvitation(t, f, full.Registration.ID, 11)

	short, err := f.service.RegisterTeam(context.Background(), 1, 12, &dto.RegisterTeamRequest{
		TeamName: "Understaffed",
		Invitees: []dto.TeamInvitee{{Email: "carol@campus.edu"}},
	})
	require.NoError(t, err)

	// before the deadline nothing is settled
	teams, err := f.service.EvaluateAndListTeams(context.Background(), 1)
	require.NoError(t, err)
	for _, team := range teams {
		assert.Equal(t, models.TeamRegistrationStatusRegistered, team.Status)
	}

	// carol never accepted, so her team stays below the minimum
	f.service.now = func() time.Time { return now.Add(72 * time.Hour) }

	teams, err = f.service.EvaluateAndListTeams(context.Background(), 1)
	require.NoError(t, err)
	statuses := map[int64]models.TeamRegistrationStatus{}
	for _, team := range teams {
		statuses[team.ID] = team.Status
	}
	// adequately staffed teams are left alone, only understaffed ones are
	// written to
	assert.Equal(t, models.TeamRegistrationStatusRegistered, statuses[full.Registration.ID])
	assert.Equal(t, models.TeamRegistrationStatusDisqualified, statuses[short.Registration.ID])

	// disqualification is terminal even if membership recovers afterwards
	f.store.regs[short.Registration.ID].Members = append(f.store.regs[short.Registration.ID].Members,
		models.EventTeamMember{UserID: 13, Role: models.TeamRoleMember, TeamRegistrationID: short.Registration.ID})
	teams, err = f.service.EvaluateAndListTeams(context.Background(), 1)
	require.NoError(t, err)
	for _, team := range teams {
		if team.ID == short.Registration.ID {
			assert.Equal(t, models.TeamRegistrationStatusDisqualified, team.Status)
		}
	}
}

func TestRegisterTeamMailerFailureIsNotFatal(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)
	f.mailer.err = errors.New("smtp unavailable")

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Unreachable",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.InvitationsSent)
}

func TestEditRegistrationReplacesMembers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Original",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)
	acceptOnlyInvitation(t, f, result.Registration.ID, 11)

	edited, err := f.service.EditRegistration(context.Background(), 1, 10, &dto.EditTeamRegistrationRequest{
		TeamName: "Renamed",
		Invitees: []dto.TeamInvitee{{Email: "bob@campus.edu"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", edited.Registration.TeamName)
	memberIDs := []int64{}
	for _, m := range edited.Registration.Members {
		memberIDs = append(memberIDs, m.UserID)
	}
	assert.ElementsMatch(t, []int64{10, 12}, memberIDs)
}

func TestEditRegistrationBelowMinimumSucceeds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newTeamFixture(t, now)

	result, err := f.service.RegisterTeam(context.Background(), 1, 10, &dto.RegisterTeamRequest{
		TeamName: "Shrinking",
		Invitees: []dto.TeamInvitee{{Email: "alice@campus.edu"}},
	})
	require.NoError(t, err)
	acceptOnlyInvitation(t, f, result.Registration.ID, 11)

	// dropping every member leaves the team below the minimum; the edit
	// still goes through and the team stays registered until evaluation
	edited, err := f.service.EditRegistration(context.Background(), 1, 10, &dto.EditTeamRegistrationRequest{
		TeamName: "Shrinking",
		Invitees: []dto.TeamInvitee{},
	})
	require.NoError(t, err)
	require.Len(t, edited.Registration.Members, 1)
	assert.Equal(t, models.TeamRegistrationStatusRegistered, edited.Registration.Status)

	f.service.now = func() time.Time { return now.Add(72 * time.Hour) }
	teams, err := f.service.EvaluateAndListTeams(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, models.TeamRegistrationStatusDisqualified, teams[0].Status)
}
