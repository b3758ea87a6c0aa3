package lifecycle

import (
	"testing"
	"time"

	"github.com/Aidyn07/esports-arena/models"
	"github.com/stretchr/testify/assert"
)

func eligibleActor() Actor {
	return Actor{
		Authenticated: true,
		UserID:        42,
		TeamSize:      5,
		EmailVerified: true,
		Region:        "EU",
	}
}

func TestCanRegister_AnonymousDeniedFirst(t *testing.T) {
	// Анонимному актёру отказывается раньше любых других проверок,
	// даже на завершённом турнире.
	trn := tournament(models.StatusCompleted)
	decision := CanRegister(trn, baseNow, 0, Actor{})

	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, decision.Reason)
	assert.NotEmpty(t, decision.Message)
}

func TestCanRegister_StateRefusals(t *testing.T) {
	open := baseNow.Add(-time.Hour)
	close := baseNow.Add(time.Hour)

	tests := []struct {
		name       string
		trn        *models.Tournament
		now        time.Time
		confirmed  int
		wantReason ReasonCode
	}{
		{
			name:       "not open yet",
			trn:        tournament(models.StatusPublished, withWindow(baseNow.Add(time.Hour), baseNow.Add(48*time.Hour))),
			now:        baseNow,
			wantReason: ReasonNotOpen,
		},
		{
			name:       "already closed",
			trn:        tournament(models.StatusPublished, withWindow(open, close)),
			now:        close.Add(time.Minute),
			wantReason: ReasonClosed,
		},
		{
			name:       "full",
			trn:        tournament(models.StatusRegistrationOpen, withWindow(open, close), withCapacity(8)),
			now:        baseNow,
			confirmed:  8,
			wantReason: ReasonFull,
		},
		{
			name:       "started",
			trn:        tournament(models.StatusLive),
			now:        baseNow,
			wantReason: ReasonStarted,
		},
		{
			name:       "completed",
			trn:        tournament(models.StatusCompleted),
			now:        baseNow,
			wantReason: ReasonCompleted,
		},
		{
			name:       "hidden draft",
			trn:        tournament(models.StatusDraft),
			now:        baseNow,
			wantReason: ReasonNotOpen,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decision := CanRegister(tc.trn, tc.now, tc.confirmed, eligibleActor())
			assert.False(t, decision.Allowed)
			assert.Equal(t, tc.wantReason, decision.Reason)
			assert.NotEmpty(t, decision.Message)
		})
	}
}

func TestCanRegister_NotOpenMessageNamesOpeningTime(t *testing.T) {
	opensAt := baseNow.Add(6 * time.Hour)
	trn := tournament(models.StatusPublished, withWindow(opensAt, baseNow.Add(48*time.Hour)))

	decision := CanRegister(trn, baseNow, 0, eligibleActor())

	assert.Equal(t, ReasonNotOpen, decision.Reason)
	assert.Contains(t, decision.Message, opensAt.Format(time.RFC3339))
}

func TestCanRegister_TeamSizeBounds(t *testing.T) {
	trn := tournament(models.StatusRegistrationOpen, withCapacity(32))
	trn.ParticipationMode = models.ModeTeam
	trn.MinTeamSize = 3
	trn.MaxTeamSize = 5

	tests := []struct {
		size       int
		wantAllow  bool
		wantReason ReasonCode
	}{
		{size: 2, wantAllow: false, wantReason: ReasonTeamTooSmall},
		{size: 3, wantAllow: true},
		{size: 5, wantAllow: true},
		{size: 6, wantAllow: false, wantReason: ReasonTeamTooLarge},
	}

	for _, tc := range tests {
		actor := eligibleActor()
		actor.TeamSize = tc.size
		decision := CanRegister(trn, baseNow, 0, actor)

		assert.Equal(t, tc.wantAllow, decision.Allowed, "team size %d", tc.size)
		assert.Equal(t, tc.wantReason, decision.Reason, "team size %d", tc.size)
	}
}

func TestCanRegister_TeamSizeIgnoredForSolo(t *testing.T) {
	trn := tournament(models.StatusRegistrationOpen)
	trn.MinTeamSize = 5
	trn.MaxTeamSize = 5

	actor := eligibleActor()
	actor.TeamSize = 0
	decision := CanRegister(trn, baseNow, 0, actor)

	assert.True(t, decision.Allowed)
}

func TestCanRegister_VerificationAndRegion(t *testing.T) {
	trn := tournament(models.StatusRegistrationOpen)
	trn.RequireVerifiedEmail = true
	trn.AllowedRegions = []string{"EU", "NA"}

	t.Run("unverified email", func(t *testing.T) {
		actor := eligibleActor()
		actor.EmailVerified = false
		decision := CanRegister(trn, baseNow, 0, actor)

		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonEmailUnverified, decision.Reason)
	})

	t.Run("region not allowed", func(t *testing.T) {
		actor := eligibleActor()
		actor.Region = "KR"
		decision := CanRegister(trn, baseNow, 0, actor)

		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonRegionRestricted, decision.Reason)
	})

	t.Run("all requirements met", func(t *testing.T) {
		decision := CanRegister(trn, baseNow, 0, eligibleActor())

		assert.True(t, decision.Allowed)
		assert.Equal(t, ReasonNone, decision.Reason)
	})
}

func TestCanRegister_CheckOrderIsFixed(t *testing.T) {
	// Актёр нарушает сразу всё: размер команды, верификацию и регион.
	// Побеждает первая проверка по порядку.
	trn := tournament(models.StatusRegistrationOpen)
	trn.ParticipationMode = models.ModeTeam
	trn.MinTeamSize = 5
	trn.RequireVerifiedEmail = true
	trn.AllowedRegions = []string{"EU"}

	actor := Actor{Authenticated: true, UserID: 1, TeamSize: 2, Region: "KR"}
	decision := CanRegister(trn, baseNow, 0, actor)
	assert.Equal(t, ReasonTeamTooSmall, decision.Reason)

	actor.TeamSize = 5
	decision = CanRegister(trn, baseNow, 0, actor)
	assert.Equal(t, ReasonEmailUnverified, decision.Reason)

	actor.EmailVerified = true
	decision = CanRegister(trn, baseNow, 0, actor)
	assert.Equal(t, ReasonRegionRestricted, decision.Reason)

	actor.Region = "EU"
	decision = CanRegister(trn, baseNow, 0, actor)
	assert.True(t, decision.Allowed)
}

func TestCanRegister_PublishedNoWindowFutureStart(t *testing.T) {
	// Опубликованный турнир без окна, старт через 10 дней, 0/32 мест.
	trn := tournament(models.StatusPublished,
		withStart(baseNow.Add(240*time.Hour)),
		withCapacity(32),
	)
	decision := CanRegister(trn, baseNow, 0, eligibleActor())

	assert.True(t, decision.Allowed)
	assert.Equal(t, "Registration is open.", decision.Message)
}
