package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/workhive/workhive/internal/api/dto"
	"github.com/workhive/workhive/internal/api/middleware"
	"github.com/workhive/workhive/internal/votes"
	"github.com/workhive/workhive/internal/workspaces"
)

type VoteHandler struct {
	workspaceService *workspaces.Service
	voteService      *votes.Service
}

func NewVoteHandler(workspaceService *workspaces.Service, voteService *votes.Service) *VoteHandler {
	return &VoteHandler{
		workspaceService: workspaceService,
		voteService:      voteService,
	}
}

func (h *VoteHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := resolveWorkspaceID(w, r, h.workspaceService)
	if !ok {
		return
	}

	list, err := h.voteService.ListByWorkspace(r.Context(), workspaceID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.Error("Listing failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(list))
}

func (h *VoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := resolveWorkspaceID(w, r, h.workspaceService)
	if !ok {
		return
	}

	var req dto.CreateVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	creatorID := middleware.GetUserID(r.Context())
	vote, err := h.voteService.Create(r.Context(), workspaceID, creatorID, req.Title, req.Options, req.DueDate)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.Error("Vote creation failed"))
		return
	}

	writeJSON(w, http.StatusCreated, dto.Data(vote))
}

func (h *VoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	voteID, ok := pathUUID(w, r, "voteID")
	if !ok {
		return
	}

	vote, err := h.voteService.Get(r.Context(), voteID)
	if err != nil {
		if errors.Is(err, votes.ErrVoteNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Vote not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Lookup failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(vote))
}

func (h *VoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	voteID, ok := pathUUID(w, r, "voteID")
	if !ok {
		return
	}

	var req dto.UpdateVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	vote, err := h.voteService.Update(r.Context(), voteID, votes.VotePatch{
		Title:   req.Title,
		Options: req.Options,
		DueDate: req.DueDate,
	})
	if err != nil {
		if errors.Is(err, votes.ErrVoteNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Vote not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Update failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(vote))
}

// Delete removes the vote, its options and all submitted results.
func (h *VoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	voteID, ok := pathUUID(w, r, "voteID")
	if !ok {
		return
	}

	if err := h.voteService.Delete(r.Context(), voteID); err != nil {
		if errors.Is(err, votes.ErrVoteNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Vote not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Vote deletion failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Success("Vote deleted"))
}

// SubmitResult records the caller's choice; one per (vote, user).
func (h *VoteHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	voteID, err := uuid.Parse(req.VoteID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid vote id"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.voteService.SubmitResult(r.Context(), voteID, userID, req.Option)
	if err != nil {
		switch {
		case errors.Is(err, votes.ErrVoteNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Vote not found"))
		case errors.Is(err, votes.ErrAlreadyVoted):
			writeJSON(w, http.StatusBadRequest, dto.Error("Already voted"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Submission failed"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.Data(result))
}

// UpdateResult changes the caller's own submitted choice.
func (h *VoteHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ValidationError(errs))
		return
	}

	resultID, err := uuid.Parse(req.ResultID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Error("Invalid result id"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.voteService.UpdateResult(r.Context(), resultID, userID, req.Option)
	if err != nil {
		switch {
		case errors.Is(err, votes.ErrResultNotFound):
			writeJSON(w, http.StatusNotFound, dto.Error("Result not found"))
		case errors.Is(err, votes.ErrNotOwner):
			writeJSON(w, http.StatusForbidden, dto.Error("Not your result"))
		default:
			writeJSON(w, http.StatusInternalServerError, dto.Error("Update failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(result))
}

// Results returns the per-option tally for one vote.
func (h *VoteHandler) Results(w http.ResponseWriter, r *http.Request) {
	voteID, ok := pathUUID(w, r, "voteID")
	if !ok {
		return
	}

	counts, err := h.voteService.Aggregate(r.Context(), voteID)
	if err != nil {
		if errors.Is(err, votes.ErrVoteNotFound) {
			writeJSON(w, http.StatusNotFound, dto.Error("Vote not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.Error("Aggregation failed"))
		return
	}

	writeJSON(w, http.StatusOK, dto.Data(counts))
}
