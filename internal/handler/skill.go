package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobtracker/jobtracker-go/internal/middleware"
	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

// SkillHandler handles HTTP requests for tracked skills.
type SkillHandler struct {
	service *service.SkillService
}

func NewSkillHandler(svc *service.SkillService) *SkillHandler {
	return &SkillHandler{service: svc}
}

func (h *SkillHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	skills, err := h.service.ListSkills(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, skills)
}

func (h *SkillHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req model.CreateSkillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	skill, err := h.service.CreateSkill(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, skill)
}

func (h *SkillHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	skill, err := h.service.GetSkill(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, skill)
}

func (h *SkillHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var patch model.SkillPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	skill, err := h.service.UpdateSkill(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, skill)
}

func (h *SkillHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	if err := h.service.DeleteSkill(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Skill removed")
}
