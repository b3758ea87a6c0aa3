package handlers

import (
	"net/http"
	"time"

	"github.com/Aidyn07/esports-arena/lifecycle"
	"github.com/Aidyn07/esports-arena/middleware"
	"github.com/Aidyn07/esports-arena/models"
	"github.com/Aidyn07/esports-arena/repositories"
	"github.com/Aidyn07/esports-arena/services"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
	userRepo          repositories.UserRepository
}

func NewTournamentHandler(tournamentService *services.TournamentService, userRepo repositories.UserRepository) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		userRepo:          userRepo,
	}
}

type createTournamentRequest struct {
	Name                 string     `json:"name"`
	Description          *string    `json:"description"`
	GameID               int        `json:"game_id"`
	StartAt              *time.Time `json:"start_at"`
	RegistrationOpensAt  *time.Time `json:"registration_opens_at"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at"`
	CapacityLimit        int        `json:"capacity_limit"`
	ParticipationMode    string     `json:"participation_mode"`
	MinTeamSize          int        `json:"min_team_size"`
	MaxTeamSize          int        `json:"max_team_size"`
	RequireVerifiedEmail bool       `json:"require_verified_email"`
	AllowedRegions       []string   `json:"allowed_regions"`
	EntryFee             float64    `json:"entry_fee"`
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), organizerID, services.CreateTournamentInput{
		Name:                 req.Name,
		Description:          req.Description,
		GameID:               req.GameID,
		StartAt:              req.StartAt,
		RegistrationOpensAt:  req.RegistrationOpensAt,
		RegistrationClosesAt: req.RegistrationClosesAt,
		CapacityLimit:        req.CapacityLimit,
		ParticipationMode:    models.ParticipationMode(req.ParticipationMode),
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
		RequireVerifiedEmail: req.RequireVerifiedEmail,
		AllowedRegions:       req.AllowedRegions,
		EntryFee:             req.EntryFee,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tournament, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tournament, nil)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.TournamentStatus(raw)
		filter.Status = &status
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	tournaments, err := h.tournamentService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

// RegistrationStatus отдаёт проекцию состояния регистрации. Для анонимных
// запросов can_register всегда false с причиной not_authenticated.
func (h *TournamentHandler) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actor := lifecycle.Actor{}
	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		if user, err := h.userRepo.GetByID(r.Context(), userID); err == nil {
			actor = lifecycle.Actor{
				Authenticated: true,
				UserID:        user.ID,
				EmailVerified: user.EmailVerified,
				PhoneVerified: user.PhoneVerified,
				Region:        user.Region,
			}
		}
	}

	projection, err := h.tournamentService.GetRegistrationStatus(r.Context(), id, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projection, nil)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *TournamentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req updateStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.UpdateStatus(r.Context(), id, actorID, models.TournamentStatus(req.Status)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const maxBannerSize = 5 << 20 // 5MB

func (h *TournamentHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBannerSize)
	if err := r.ParseMultipartForm(maxBannerSize); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadBanner(r.Context(), id, actorID, file, header.Header.Get("Content-Type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tournament, nil)
}
