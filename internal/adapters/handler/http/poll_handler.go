package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Options            []string `json:"options"`
	ExpiresAt          string   `json:"expiresAt"`
	AllowMultipleVotes bool     `json:"allowMultipleVotes"`
	RequireAuthToVote  bool     `json:"requireAuthToVote"`
}

// CreatePoll godoc
// @Summary      Creates a poll with its options
// @Description  Accepts JSON or a form submission (title, description, repeated options, expiresAt, allowMultipleVotes, requireAuthToVote)
// @Tags         polls
// @Success      201
// @Failure      400
// @Failure      401
// @Router       /api/polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		respondError(w, domain.ErrAuthRequired)
		return
	}

	input, err := parseCreatePollRequest(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	input.CreatedBy = userID

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondMessage(w, http.StatusBadRequest, "missing poll id")
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) GetPollByShareToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	poll, err := h.service.GetPollByShareToken(r.Context(), token)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListPublicPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPublicPolls(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}

	respondJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) ListMyPolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFrom(r.Context())
	if !ok {
		respondError(w, domain.ErrAuthRequired)
		return
	}

	summaries, err := h.service.ListUserPolls(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if summaries == nil {
		summaries = []*domain.PollSummary{}
	}

	respondJSON(w, http.StatusOK, summaries)
}

func parseCreatePollRequest(r *http.Request) (ports.CreatePollInput, error) {
	var req createPollRequest

	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ports.CreatePollInput{}, domain.NewValidationError("invalid request body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return ports.CreatePollInput{}, domain.NewValidationError("failed to parse form")
		}
		req.Title = r.PostForm.Get("title")
		req.Description = r.PostForm.Get("description")
		req.Options = r.PostForm["options"]
		req.ExpiresAt = r.PostForm.Get("expiresAt")
		req.AllowMultipleVotes = r.PostForm.Get("allowMultipleVotes") == "on"
		req.RequireAuthToVote = r.PostForm.Get("requireAuthToVote") == "on"
	}

	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		return ports.CreatePollInput{}, err
	}

	return ports.CreatePollInput{
		Title:              req.Title,
		Description:        req.Description,
		Options:            req.Options,
		ExpiresAt:          expiresAt,
		AllowMultipleVotes: req.AllowMultipleVotes,
		RequireAuthToVote:  req.RequireAuthToVote,
	}, nil
}

// parseExpiresAt accepts the HTML datetime-local format or RFC 3339; an
// empty value means the poll never expires.
func parseExpiresAt(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError("invalid expiration date")
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
