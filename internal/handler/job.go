package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobtracker/jobtracker-go/internal/middleware"
	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

// JobHandler handles HTTP requests for job applications.
type JobHandler struct {
	service *service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{service: svc}
}

// HandleList handles GET /api/jobs requests.
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	jobs, err := h.service.ListJobs(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// HandleCreate handles POST /api/jobs requests.
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req model.CreateJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	job, err := h.service.CreateJob(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// HandleStats handles GET /api/jobs/stats requests.
func (h *JobHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleGet handles GET /api/jobs/{id} requests.
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	job, err := h.service.GetJob(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleUpdate handles PUT /api/jobs/{id} requests.
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var patch model.JobPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	job, err := h.service.UpdateJob(r.Context(), userID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleDelete handles DELETE /api/jobs/{id} requests.
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "not authorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteJob(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.DeletedJobResponse{ID: id})
}
