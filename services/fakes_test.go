package services

import (
	"context"
	"sort"
	"time"

	"github.com/Aidyn07/esports-arena/models"
	"github.com/Aidyn07/esports-arena/repositories"
)

// fakeData — общее in-memory хранилище для фейковых репозиториев.
// Каждый фейк оборачивает один и тот же экземпляр, чтобы join-подобные
// выборки (платёж заявки, турнир организатора) видели согласованные данные.
type fakeData struct {
	tournaments   map[int]*models.Tournament
	users         map[int]*models.User
	teams         map[int]*models.Team
	registrations map[int]*models.Registration
	payments      map[int]*models.Payment
	matches       map[int]*models.Match
	disputes      map[int]*models.Dispute
	nextID        int
}

func newFakeData() *fakeData {
	return &fakeData{
		tournaments:   make(map[int]*models.Tournament),
		users:         make(map[int]*models.User),
		teams:         make(map[int]*models.Team),
		registrations: make(map[int]*models.Registration),
		payments:      make(map[int]*models.Payment),
		matches:       make(map[int]*models.Match),
		disputes:      make(map[int]*models.Dispute),
	}
}

func (d *fakeData) id() int {
	d.nextID++
	return d.nextID
}

func (d *fakeData) addUser(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = d.id()
	}
	d.users[u.ID] = &u
	return &u
}

func (d *fakeData) addTeam(t models.Team) *models.Team {
	if t.ID == 0 {
		t.ID = d.id()
	}
	d.teams[t.ID] = &t
	return &t
}

func (d *fakeData) addTournament(t models.Tournament) *models.Tournament {
	if t.ID == 0 {
		t.ID = d.id()
	}
	d.tournaments[t.ID] = &t
	return &t
}

func (d *fakeData) addRegistration(r models.Registration) *models.Registration {
	if r.ID == 0 {
		r.ID = d.id()
	}
	d.registrations[r.ID] = &r
	return &r
}

func (d *fakeData) addPayment(p models.Payment) *models.Payment {
	if p.ID == 0 {
		p.ID = d.id()
	}
	d.payments[p.ID] = &p
	return &p
}

func (d *fakeData) addMatch(m models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = d.id()
	}
	d.matches[m.ID] = &m
	return &m
}

func (d *fakeData) addDispute(dp models.Dispute) *models.Dispute {
	if dp.ID == 0 {
		dp.ID = d.id()
	}
	d.disputes[dp.ID] = &dp
	return &dp
}

// tournamentOf разрешает цепочку payment/dispute → турнир; nil для
// повисших ссылок и мягко удалённых турниров.
func (d *fakeData) tournamentOfRegistration(registrationID int) *models.Tournament {
	reg, ok := d.registrations[registrationID]
	if !ok {
		return nil
	}
	t, ok := d.tournaments[reg.TournamentID]
	if !ok || t.IsDeleted() {
		return nil
	}
	return t
}

func (d *fakeData) tournamentOfMatch(matchID int) *models.Tournament {
	m, ok := d.matches[matchID]
	if !ok {
		return nil
	}
	t, ok := d.tournaments[m.TournamentID]
	if !ok || t.IsDeleted() {
		return nil
	}
	return t
}

func statusIn[T comparable](status T, statuses []T) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// --- TournamentRepository ---

type fakeTournamentRepo struct{ data *fakeData }

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = r.data.id()
	copied := *t
	r.data.tournaments[t.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.data.tournaments[id]
	if !ok || t.IsDeleted() {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range r.data.tournaments {
		if t.IsDeleted() {
			continue
		}
		if filter.OrganizerID != nil && t.OrganizerID != *filter.OrganizerID {
			continue
		}
		if filter.GameID != nil && t.GameID != *filter.GameID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.data.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *t
	r.data.tournaments[t.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.data.tournaments[id]
	if !ok || t.IsDeleted() {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateBannerKey(_ context.Context, id int, bannerKey *string) error {
	t, ok := r.data.tournaments[id]
	if !ok || t.IsDeleted() {
		return repositories.ErrTournamentNotFound
	}
	t.BannerKey = bannerKey
	return nil
}

func (r *fakeTournamentRepo) SoftDelete(_ context.Context, id int) error {
	t, ok := r.data.tournaments[id]
	if !ok || t.IsDeleted() {
		return repositories.ErrTournamentNotFound
	}
	now := time.Now()
	t.DeletedAt = &now
	return nil
}

func (r *fakeTournamentRepo) CountByOrganizer(_ context.Context, organizerID int, statuses []models.TournamentStatus) (int, error) {
	count := 0
	for _, t := range r.data.tournaments {
		if t.IsDeleted() || t.OrganizerID != organizerID {
			continue
		}
		if len(statuses) > 0 && !statusIn(t.Status, statuses) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeTournamentRepo) GetDueForStatusUpdate(_ context.Context, now time.Time) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.data.tournaments {
		if t.IsDeleted() {
			continue
		}
		switch t.Status {
		case models.StatusPublished, models.StatusRegistrationOpen, models.StatusRegistrationClosed:
		default:
			continue
		}
		due := t.StartAt != nil && !now.Before(*t.StartAt) ||
			t.RegistrationOpensAt != nil && !now.Before(*t.RegistrationOpensAt) ||
			t.RegistrationClosesAt != nil && now.After(*t.RegistrationClosesAt)
		if due {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- RegistrationRepository ---

type fakeRegistrationRepo struct{ data *fakeData }

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	for _, existing := range r.data.registrations {
		if existing.TournamentID != reg.TournamentID || existing.Status == models.RegistrationCancelled {
			continue
		}
		sameUser := reg.UserID != nil && existing.UserID != nil && *reg.UserID == *existing.UserID
		sameTeam := reg.TeamID != nil && existing.TeamID != nil && *reg.TeamID == *existing.TeamID
		if sameUser || sameTeam {
			return repositories.ErrRegistrationConflict
		}
	}
	reg.ID = r.data.id()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	copied := *reg
	r.data.registrations[reg.ID] = &copied
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.Registration, error) {
	reg, ok := r.data.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) FindByUserAndTournament(_ context.Context, userID, tournamentID int) (*models.Registration, error) {
	for _, reg := range r.data.registrations {
		if reg.TournamentID == tournamentID && reg.UserID != nil && *reg.UserID == userID &&
			reg.Status != models.RegistrationCancelled {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) FindByTeamAndTournament(_ context.Context, teamID, tournamentID int) (*models.Registration, error) {
	for _, reg := range r.data.registrations {
		if reg.TournamentID == tournamentID && reg.TeamID != nil && *reg.TeamID == teamID &&
			reg.Status != models.RegistrationCancelled {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.RegistrationStatus) error {
	reg, ok := r.data.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.Status = status
	return nil
}

func (r *fakeRegistrationRepo) SetCheckedIn(_ context.Context, id int) error {
	reg, ok := r.data.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	if reg.CheckedInAt == nil {
		now := time.Now()
		reg.CheckedInAt = &now
	}
	return nil
}

func (r *fakeRegistrationRepo) CountByTournamentAndStatus(_ context.Context, tournamentID int, status models.RegistrationStatus) (int, error) {
	count := 0
	for _, reg := range r.data.registrations {
		if reg.TournamentID == tournamentID && reg.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) CountConfirmedByOrganizer(_ context.Context, organizerID int) (int, error) {
	count := 0
	for _, reg := range r.data.registrations {
		if reg.Status != models.RegistrationConfirmed {
			continue
		}
		t, ok := r.data.tournaments[reg.TournamentID]
		if ok && !t.IsDeleted() && t.OrganizerID == organizerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) paymentStatusOf(registrationID int) *models.PaymentStatus {
	for _, p := range r.data.payments {
		if p.RegistrationID == registrationID {
			status := p.Status
			return &status
		}
	}
	return nil
}

func (r *fakeRegistrationRepo) confirmedRows(tournamentID int, filter repositories.ParticipantListFilter) []models.RegistrationWithPayment {
	var rows []models.RegistrationWithPayment
	for _, reg := range r.data.registrations {
		if reg.TournamentID != tournamentID || reg.Status != models.RegistrationConfirmed {
			continue
		}
		payment := r.paymentStatusOf(reg.ID)
		if filter.PaymentStatus != nil && (payment == nil || *payment != *filter.PaymentStatus) {
			continue
		}
		if filter.CheckedIn != nil && (reg.CheckedInAt != nil) != *filter.CheckedIn {
			continue
		}
		rows = append(rows, models.RegistrationWithPayment{Registration: *reg, PaymentStatus: payment})
	}
	sort.Slice(rows, func(i, j int) bool {
		if filter.OrderDesc {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows
}

func (r *fakeRegistrationRepo) ListConfirmedWithPayments(_ context.Context, tournamentID int, filter repositories.ParticipantListFilter) ([]models.RegistrationWithPayment, error) {
	rows := r.confirmedRows(tournamentID, filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			return nil, nil
		}
		rows = rows[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(rows) {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r *fakeRegistrationRepo) CountConfirmedWithPayments(_ context.Context, tournamentID int, filter repositories.ParticipantListFilter) (int, error) {
	return len(r.confirmedRows(tournamentID, filter)), nil
}

// --- PaymentRepository ---

type fakePaymentRepo struct{ data *fakeData }

func (r *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	if _, ok := r.data.registrations[p.RegistrationID]; !ok {
		return repositories.ErrPaymentRegistrationInvalid
	}
	p.ID = r.data.id()
	copied := *p
	r.data.payments[p.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id int) (*models.Payment, error) {
	p, ok := r.data.payments[id]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) GetByRegistrationID(_ context.Context, registrationID int) (*models.Payment, error) {
	for _, p := range r.data.payments {
		if p.RegistrationID == registrationID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.PaymentStatus) error {
	p, ok := r.data.payments[id]
	if !ok {
		return repositories.ErrPaymentNotFound
	}
	p.Status = status
	return nil
}

func (r *fakePaymentRepo) CountByTournamentAndStatuses(_ context.Context, tournamentID int, statuses []models.PaymentStatus) (int, error) {
	count := 0
	for _, p := range r.data.payments {
		reg, ok := r.data.registrations[p.RegistrationID]
		if ok && reg.TournamentID == tournamentID && statusIn(p.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (r *fakePaymentRepo) CountByOrganizerAndStatuses(_ context.Context, organizerID int, statuses []models.PaymentStatus) (int, error) {
	count := 0
	for _, p := range r.data.payments {
		t := r.data.tournamentOfRegistration(p.RegistrationID)
		if t != nil && t.OrganizerID == organizerID && statusIn(p.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (r *fakePaymentRepo) SumVerifiedByOrganizer(_ context.Context, organizerID int) (float64, error) {
	sum := 0.0
	for _, p := range r.data.payments {
		if p.Status != models.PaymentVerified {
			continue
		}
		t := r.data.tournamentOfRegistration(p.RegistrationID)
		if t != nil && t.OrganizerID == organizerID {
			sum += p.Amount
		}
	}
	return sum, nil
}

// --- MatchRepository ---

type fakeMatchRepo struct{ data *fakeData }

func (r *fakeMatchRepo) Create(_ context.Context, m *models.Match) error {
	m.ID = r.data.id()
	copied := *m
	r.data.matches[m.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.data.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) SetResult(_ context.Context, id int, state models.MatchState, winnerID, loserID *int) error {
	m, ok := r.data.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.State = state
	m.WinnerID = winnerID
	m.LoserID = loserID
	return nil
}

func (r *fakeMatchRepo) CountByTournament(_ context.Context, tournamentID int) (int, error) {
	count := 0
	for _, m := range r.data.matches {
		if m.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) CountByTournamentAndState(_ context.Context, tournamentID int, state models.MatchState) (int, error) {
	count := 0
	for _, m := range r.data.matches {
		if m.TournamentID == tournamentID && m.State == state {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) ListCompletedByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.data.matches {
		if m.TournamentID == tournamentID && m.State == models.MatchCompleted {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- DisputeRepository ---

type fakeDisputeRepo struct{ data *fakeData }

func (r *fakeDisputeRepo) Create(_ context.Context, d *models.Dispute) error {
	d.ID = r.data.id()
	copied := *d
	r.data.disputes[d.ID] = &copied
	return nil
}

func (r *fakeDisputeRepo) UpdateStatus(_ context.Context, id int, status models.DisputeStatus) error {
	d, ok := r.data.disputes[id]
	if !ok {
		return repositories.ErrDisputeNotFound
	}
	d.Status = status
	return nil
}

func (r *fakeDisputeRepo) CountByTournamentAndStatuses(_ context.Context, tournamentID int, statuses []models.DisputeStatus) (int, error) {
	count := 0
	for _, d := range r.data.disputes {
		m, ok := r.data.matches[d.MatchID]
		if ok && m.TournamentID == tournamentID && statusIn(d.Status, statuses) {
			count++
		}
	}
	return count, nil
}

func (r *fakeDisputeRepo) CountByOrganizerAndStatuses(_ context.Context, organizerID int, statuses []models.DisputeStatus) (int, error) {
	count := 0
	for _, d := range r.data.disputes {
		t := r.data.tournamentOfMatch(d.MatchID)
		if t != nil && t.OrganizerID == organizerID && statusIn(d.Status, statuses) {
			count++
		}
	}
	return count, nil
}

// --- UserRepository ---

type fakeUserRepo struct{ data *fakeData }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.data.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	u.ID = r.data.id()
	copied := *u
	r.data.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.data.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.data.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// --- TeamRepository ---

type fakeTeamRepo struct{ data *fakeData }

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.data.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}
