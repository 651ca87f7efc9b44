package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pollbox/api/internal/core/domain"
	"github.com/pollbox/api/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	PollID     string `json:"poll_id"`
	OptionID   string `json:"option_id"`
	VoterEmail string `json:"voter_email"`
	VoterName  string `json:"voter_name"`
}

// SubmitVote godoc
// @Summary      Casts a vote on a poll
// @Description  Accepts JSON or a form submission (poll_id, option_id, voter_email, voter_name). Anonymous votes carry a voter email.
// @Tags         votes
// @Success      201
// @Failure      400
// @Failure      401
// @Failure      409
// @Failure      410
// @Router       /api/polls/{id}/votes [post]
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondMessage(w, http.StatusBadRequest, "failed to parse form")
			return
		}
		req.PollID = r.PostForm.Get("poll_id")
		req.OptionID = r.PostForm.Get("option_id")
		req.VoterEmail = r.PostForm.Get("voter_email")
		req.VoterName = r.PostForm.Get("voter_name")
	}

	// The URL carries the poll id; the form field is accepted as a
	// fallback for plain form posts.
	pollIDStr := chi.URLParam(r, "id")
	if pollIDStr == "" {
		pollIDStr = req.PollID
	}
	pollID, err := uuid.Parse(pollIDStr)
	if err != nil {
		respondError(w, domain.ErrInvalidPollID)
		return
	}

	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		respondError(w, domain.ErrInvalidOption)
		return
	}

	input := ports.SubmitVoteInput{
		PollID:     pollID,
		OptionID:   optionID,
		VoterEmail: req.VoterEmail,
		VoterName:  req.VoterName,
	}
	if userID, ok := UserIDFrom(r.Context()); ok {
		input.UserID = &userID
	}

	if err := h.service.Submit(r.Context(), input); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// MyVotes returns the option ids the caller already voted for on a poll,
// for pre-selecting the form. Anonymous callers pass ?voter_email=. The
// lookup is advisory and always answers with a list, possibly empty.
func (h *VoteHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, domain.ErrInvalidPollID)
		return
	}

	var optionIDs []uuid.UUID
	if userID, ok := UserIDFrom(r.Context()); ok {
		optionIDs = h.service.UserVotes(r.Context(), pollID, &userID)
	} else {
		optionIDs = h.service.AnonymousVotes(r.Context(), pollID, r.URL.Query().Get("voter_email"))
	}

	respondJSON(w, http.StatusOK, map[string][]uuid.UUID{"option_ids": optionIDs})
}
