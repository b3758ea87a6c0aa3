package services

import (
	"context"
	"testing"
	"time"

	"github.com/Aidyn07/esports-arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture() (*fakeData, DashboardService) {
	data := newFakeData()
	svc := NewDashboardService(
		&fakeTournamentRepo{data: data},
		&fakeRegistrationRepo{data: data},
		&fakePaymentRepo{data: data},
		&fakeMatchRepo{data: data},
		&fakeDisputeRepo{data: data},
		&fakeUserRepo{data: data},
	)
	return data, svc
}

func intPtr(v int) *int { return &v }

func confirmedRegistration(data *fakeData, tournamentID, userID int, createdAt time.Time) *models.Registration {
	return data.addRegistration(models.Registration{
		TournamentID: tournamentID,
		UserID:       intPtr(userID),
		Status:       models.RegistrationConfirmed,
		CreatedAt:    createdAt,
	})
}

func TestGetOrganizerStats_AggregatesAcrossTournaments(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})

	live := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})
	open := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusRegistrationOpen})
	data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusCompleted})

	now := time.Now()
	reg1 := confirmedRegistration(data, live.ID, data.addUser(models.User{}).ID, now)
	reg2 := confirmedRegistration(data, open.ID, data.addUser(models.User{}).ID, now)
	data.addPayment(models.Payment{RegistrationID: reg1.ID, Amount: 500, Status: models.PaymentVerified})
	data.addPayment(models.Payment{RegistrationID: reg2.ID, Amount: 500, Status: models.PaymentVerified})

	stats, err := svc.GetOrganizerStats(context.Background(), organizer.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalTournaments)
	assert.Equal(t, 2, stats.ActiveTournaments, "only registration_open and live count as active")
	assert.Equal(t, 2, stats.TotalParticipants)
	assert.Equal(t, 1000.0, stats.TotalRevenue)
	assert.Equal(t, 0, stats.PendingActions.PendingPayments)
	assert.Equal(t, 0, stats.PendingActions.OpenDisputes)
}

func TestGetOrganizerStats_NoTournamentsIsZeroNotError(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})

	stats, err := svc.GetOrganizerStats(context.Background(), organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrganizerStats{}, stats)
}

func TestGetOrganizerStats_IgnoresOtherOrganizersAndDeleted(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	rival := data.addUser(models.User{Role: models.RoleOrganizer})

	deletedAt := time.Now()
	data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive, DeletedAt: &deletedAt})
	rivalTrn := data.addTournament(models.Tournament{OrganizerID: rival.ID, Status: models.StatusLive})
	reg := confirmedRegistration(data, rivalTrn.ID, data.addUser(models.User{}).ID, time.Now())
	data.addPayment(models.Payment{RegistrationID: reg.ID, Amount: 250, Status: models.PaymentVerified})

	stats, err := svc.GetOrganizerStats(context.Background(), organizer.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalTournaments, "soft-deleted tournaments are invisible")
	assert.Equal(t, 0, stats.TotalParticipants)
	assert.Equal(t, 0.0, stats.TotalRevenue)
}

func TestGetOrganizerStats_PendingActions(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	now := time.Now()
	r1 := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now)
	r2 := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now)
	r3 := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now)
	data.addPayment(models.Payment{RegistrationID: r1.ID, Amount: 100, Status: models.PaymentPending})
	data.addPayment(models.Payment{RegistrationID: r2.ID, Amount: 100, Status: models.PaymentSubmitted})
	data.addPayment(models.Payment{RegistrationID: r3.ID, Amount: 100, Status: models.PaymentRejected})

	m1 := data.addMatch(models.Match{TournamentID: trn.ID, State: models.MatchDisputed})
	m2 := data.addMatch(models.Match{TournamentID: trn.ID, State: models.MatchCompleted})
	data.addDispute(models.Dispute{MatchID: m1.ID, Status: models.DisputeOpen})
	data.addDispute(models.Dispute{MatchID: m1.ID, Status: models.DisputeUnderReview})
	data.addDispute(models.Dispute{MatchID: m2.ID, Status: models.DisputeResolved})

	stats, err := svc.GetOrganizerStats(context.Background(), organizer.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PendingActions.PendingPayments, "pending + submitted, not rejected")
	assert.Equal(t, 2, stats.PendingActions.OpenDisputes, "open + under_review, not resolved")
}

func TestGetTournamentHealth_NotFoundBeforePermission(t *testing.T) {
	data, svc := newDashboardFixture()
	stranger := data.addUser(models.User{Role: models.RolePlayer})

	// Несуществующий турнир даёт not found любому актёру, даже тому,
	// у кого не было бы прав.
	_, err := svc.GetTournamentHealth(context.Background(), 9999, stranger.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGetTournamentHealth_PermissionDenied(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	stranger := data.addUser(models.User{Role: models.RolePlayer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	health, err := svc.GetTournamentHealth(context.Background(), trn.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
	assert.Equal(t, models.TournamentHealth{}, health, "refusal must not leak tournament data")
}

func TestGetTournamentHealth_StaffBypassesOwnership(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	admin := data.addUser(models.User{Role: models.RoleAdmin})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	health, err := svc.GetTournamentHealth(context.Background(), trn.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, trn.ID, health.TournamentID)
}

func TestGetTournamentHealth_ZeroMatchesZeroCompletionRate(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusRegistrationOpen})

	health, err := svc.GetTournamentHealth(context.Background(), trn.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, health.CompletionRate)
}

func TestGetTournamentHealth_CompletionRateRounded(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	// 2 из 3 завершено: 0.666... округляется до 0.67.
	data.addMatch(models.Match{TournamentID: trn.ID, State: models.MatchCompleted})
	data.addMatch(models.Match{TournamentID: trn.ID, State: models.MatchCompleted})
	data.addMatch(models.Match{TournamentID: trn.ID, State: models.MatchLive})

	health, err := svc.GetTournamentHealth(context.Background(), trn.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.67, health.CompletionRate)
}

func TestGetTournamentHealth_RegistrationProgress(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})

	t.Run("limited capacity", func(t *testing.T) {
		trn := data.addTournament(models.Tournament{
			OrganizerID:   organizer.ID,
			Status:        models.StatusRegistrationOpen,
			CapacityLimit: 16,
		})
		now := time.Now()
		for i := 0; i < 10; i++ {
			confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now)
		}
		// Pending-заявки в прогресс не входят.
		data.addRegistration(models.Registration{
			TournamentID: trn.ID,
			UserID:       intPtr(data.addUser(models.User{}).ID),
			Status:       models.RegistrationPending,
			CreatedAt:    now,
		})

		health, err := svc.GetTournamentHealth(context.Background(), trn.ID, organizer.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, health.RegistrationProgress.Registered)
		assert.Equal(t, 16, health.RegistrationProgress.Capacity)
		assert.Equal(t, 62.5, health.RegistrationProgress.Percentage)
	})

	t.Run("unlimited capacity has no percentage", func(t *testing.T) {
		trn := data.addTournament(models.Tournament{
			OrganizerID: organizer.ID,
			Status:      models.StatusRegistrationOpen,
		})
		confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, time.Now())

		health, err := svc.GetTournamentHealth(context.Background(), trn.ID, organizer.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, health.RegistrationProgress.Registered)
		assert.Equal(t, 0, health.RegistrationProgress.Capacity)
		assert.Equal(t, 0.0, health.RegistrationProgress.Percentage)
	})

	t.Run("overbooked exceeds one hundred", func(t *testing.T) {
		trn := data.addTournament(models.Tournament{
			OrganizerID:   organizer.ID,
			Status:        models.StatusRegistrationOpen,
			CapacityLimit: 3,
		})
		now := time.Now()
		for i := 0; i < 4; i++ {
			confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now)
		}

		health, err := svc.GetTournamentHealth(context.Background(), trn.ID, organizer.ID)
		require.NoError(t, err)
		assert.Equal(t, 133.3, health.RegistrationProgress.Percentage, "percentage is not capped")
	})
}

func TestGetParticipantBreakdown_NegativePaginationRejected(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	_, err := svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{Offset: -1})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{Limit: -5})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestGetParticipantBreakdown_ExistenceCheckedFirst(t *testing.T) {
	data, svc := newDashboardFixture()
	stranger := data.addUser(models.User{Role: models.RolePlayer})

	_, err := svc.GetParticipantBreakdown(context.Background(), 404, stranger.ID, ParticipantBreakdownFilter{})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGetParticipantBreakdown_CountIsPrePagination(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, base.Add(time.Duration(i)*time.Minute))
	}

	breakdown, err := svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)

	assert.Equal(t, 5, breakdown.Count, "count reflects the filtered set, not the page")
	assert.Len(t, breakdown.Results, 2)
}

func TestGetParticipantBreakdown_OrderAndFields(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	early := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, base)
	late := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, base.Add(time.Hour))
	data.addPayment(models.Payment{RegistrationID: late.ID, Amount: 50, Status: models.PaymentVerified})
	require.NoError(t, (&fakeRegistrationRepo{data: data}).SetCheckedIn(context.Background(), late.ID))

	breakdown, err := svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{OrderDesc: true})
	require.NoError(t, err)
	require.Len(t, breakdown.Results, 2)

	first := breakdown.Results[0]
	assert.Equal(t, late.ID, first.RegistrationID)
	assert.Equal(t, *late.UserID, first.ParticipantID)
	assert.Equal(t, "solo", first.ParticipantType)
	assert.Equal(t, base.Add(time.Hour).UTC().Format(time.RFC3339), first.RegistrationDate)
	require.NotNil(t, first.PaymentStatus)
	assert.Equal(t, models.PaymentVerified, *first.PaymentStatus)
	assert.Equal(t, "CHECKED_IN", first.CheckInStatus)

	second := breakdown.Results[1]
	assert.Equal(t, early.ID, second.RegistrationID)
	assert.Nil(t, second.PaymentStatus, "no payment row yields null, not a default status")
	assert.Equal(t, "NOT_CHECKED_IN", second.CheckInStatus)
}

func TestGetParticipantBreakdown_Filters(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{OrganizerID: organizer.ID, Status: models.StatusLive})

	now := time.Now()
	paid := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now)
	unpaid := confirmedRegistration(data, trn.ID, data.addUser(models.User{}).ID, now.Add(time.Minute))
	data.addPayment(models.Payment{RegistrationID: paid.ID, Amount: 25, Status: models.PaymentVerified})
	require.NoError(t, (&fakeRegistrationRepo{data: data}).SetCheckedIn(context.Background(), unpaid.ID))

	verified := models.PaymentVerified
	breakdown, err := svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{PaymentStatus: &verified})
	require.NoError(t, err)
	require.Len(t, breakdown.Results, 1)
	assert.Equal(t, paid.ID, breakdown.Results[0].RegistrationID)
	assert.Equal(t, 1, breakdown.Count)

	checkedIn := true
	breakdown, err = svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{CheckedIn: &checkedIn})
	require.NoError(t, err)
	require.Len(t, breakdown.Results, 1)
	assert.Equal(t, unpaid.ID, breakdown.Results[0].RegistrationID)
}

func TestGetParticipantBreakdown_MatchStats(t *testing.T) {
	data, svc := newDashboardFixture()
	organizer := data.addUser(models.User{Role: models.RoleOrganizer})
	trn := data.addTournament(models.Tournament{
		OrganizerID:       organizer.ID,
		Status:            models.StatusLive,
		ParticipationMode: models.ModeTeam,
	})

	now := time.Now()
	teamA := data.addTeam(models.Team{Name: "Alpha", MemberCount: 5})
	teamB := data.addTeam(models.Team{Name: "Bravo", MemberCount: 5})
	regA := data.addRegistration(models.Registration{
		TournamentID: trn.ID, TeamID: intPtr(teamA.ID),
		Status: models.RegistrationConfirmed, CreatedAt: now,
	})
	data.addRegistration(models.Registration{
		TournamentID: trn.ID, TeamID: intPtr(teamB.ID),
		Status: models.RegistrationConfirmed, CreatedAt: now.Add(time.Minute),
	})

	// A выигрывает у B, проигрывает B, и одна завершённая встреча без
	// записанного победителя: играна, но ни победа, ни поражение.
	data.addMatch(models.Match{
		TournamentID: trn.ID, State: models.MatchCompleted,
		HomeID: intPtr(teamA.ID), AwayID: intPtr(teamB.ID),
		WinnerID: intPtr(teamA.ID), LoserID: intPtr(teamB.ID),
	})
	data.addMatch(models.Match{
		TournamentID: trn.ID, State: models.MatchCompleted,
		HomeID: intPtr(teamB.ID), AwayID: intPtr(teamA.ID),
		WinnerID: intPtr(teamB.ID), LoserID: intPtr(teamA.ID),
	})
	data.addMatch(models.Match{
		TournamentID: trn.ID, State: models.MatchCompleted,
		HomeID: intPtr(teamA.ID), AwayID: intPtr(teamB.ID),
	})
	// Незавершённый матч не учитывается вовсе.
	data.addMatch(models.Match{
		TournamentID: trn.ID, State: models.MatchLive,
		HomeID: intPtr(teamA.ID), AwayID: intPtr(teamB.ID),
	})

	breakdown, err := svc.GetParticipantBreakdown(context.Background(), trn.ID, organizer.ID, ParticipantBreakdownFilter{})
	require.NoError(t, err)
	require.Len(t, breakdown.Results, 2)

	entryA := breakdown.Results[0]
	require.Equal(t, regA.ID, entryA.RegistrationID)
	assert.Equal(t, "team", entryA.ParticipantType)
	assert.Equal(t, teamA.ID, entryA.ParticipantID)
	assert.Equal(t, models.MatchStats{MatchesPlayed: 3, Wins: 1, Losses: 1}, entryA.MatchStats)
}
