package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/repository"
)

var ErrJobNotFound = errors.New("job not found")

// JobService handles job applications for their owners.
type JobService struct {
	jobs *repository.JobRepository
	now  func() time.Time
}

// NewJobService creates a new JobService.
func NewJobService(jobs *repository.JobRepository) *JobService {
	return &JobService{
		jobs: jobs,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// CreateJob stores a new job owned by userID.
func (s *JobService) CreateJob(ctx context.Context, userID string, req model.CreateJobRequest) (model.Job, error) {
	req.Company = strings.TrimSpace(req.Company)
	req.Position = strings.TrimSpace(req.Position)
	if err := validateStruct(req); err != nil {
		return model.Job{}, err
	}

	applied, err := parseDate("appliedDate", req.AppliedDate)
	if err != nil {
		return model.Job{}, err
	}
	interview, err := parseDate("interviewDate", req.InterviewDate)
	if err != nil {
		return model.Job{}, err
	}

	now := s.now()
	job := model.Job{
		ID:          uuid.NewString(),
		UserID:      userID,
		Company:     req.Company,
		Position:    req.Position,
		Location:    strings.TrimSpace(req.Location),
		Status:      req.Status,
		Notes:       strings.TrimSpace(req.Notes),
		AppliedDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if job.Status == "" {
		job.Status = model.JobApplied
	}
	if applied != nil {
		job.AppliedDate = *applied
	}
	if job.Status == model.JobInterview {
		job.InterviewDate = interview
	}

	if err := s.jobs.Create(ctx, &job); err != nil {
		return model.Job{}, err
	}
	return job, nil
}

// ListJobs returns the caller's jobs only.
func (s *JobService) ListJobs(ctx context.Context, userID string) ([]model.Job, error) {
	return s.jobs.ListByUser(ctx, userID)
}

// GetJob returns one of the caller's jobs.
func (s *JobService) GetJob(ctx context.Context, userID, jobID string) (model.Job, error) {
	job, err := s.loadOwned(ctx, userID, jobID)
	if err != nil {
		return model.Job{}, err
	}
	return *job, nil
}

// UpdateJob applies patch to one of the caller's jobs.
func (s *JobService) UpdateJob(ctx context.Context, userID, jobID string, patch model.JobPatch) (model.Job, error) {
	job, err := s.loadOwned(ctx, userID, jobID)
	if err != nil {
		return model.Job{}, err
	}

	if err := validateStruct(patch); err != nil {
		return model.Job{}, err
	}
	if err := applyJobPatch(job, patch); err != nil {
		return model.Job{}, err
	}
	job.UpdatedAt = s.now()

	if err := s.jobs.Update(ctx, job); err != nil {
		return model.Job{}, err
	}
	return *job, nil
}

// DeleteJob removes one of the caller's jobs.
func (s *JobService) DeleteJob(ctx context.Context, userID, jobID string) error {
	if _, err := s.loadOwned(ctx, userID, jobID); err != nil {
		return err
	}

	err := s.jobs.Delete(ctx, jobID)
	if errors.Is(err, repository.ErrJobNotFound) {
		return ErrJobNotFound
	}
	return err
}

// Stats counts the caller's jobs per status. It queries the store on every
// call so the numbers always reflect the latest writes.
func (s *JobService) Stats(ctx context.Context, userID string) (model.JobStats, error) {
	counts, err := s.jobs.CountByStatus(ctx, userID)
	if err != nil {
		return model.JobStats{}, err
	}

	stats := model.JobStats{
		Applied:   counts[model.JobApplied],
		Interview: counts[model.JobInterview],
		Offer:     counts[model.JobOffer],
		Rejected:  counts[model.JobRejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *JobService) loadOwned(ctx context.Context, userID, jobID string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if err := checkOwner(job.UserID, userID); err != nil {
		return nil, err
	}
	return job, nil
}

func applyJobPatch(job *model.Job, p model.JobPatch) error {
	if p.Company != nil {
		c := strings.TrimSpace(*p.Company)
		if c == "" {
			return fieldError("company", "is required")
		}
		job.Company = c
	}
	if p.Position != nil {
		pos := strings.TrimSpace(*p.Position)
		if pos == "" {
			return fieldError("position", "is required")
		}
		job.Position = pos
	}
	if p.Location != nil {
		job.Location = strings.TrimSpace(*p.Location)
	}
	if p.Notes != nil {
		job.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.Status != nil && *p.Status != "" {
		job.Status = *p.Status
	}

	if p.AppliedDate != nil {
		applied, err := parseDate("appliedDate", *p.AppliedDate)
		if err != nil {
			return err
		}
		if applied != nil {
			job.AppliedDate = *applied
		}
	}
	if p.InterviewDate != nil {
		interview, err := parseDate("interviewDate", *p.InterviewDate)
		if err != nil {
			return err
		}
		job.InterviewDate = interview
	}

	// An interview date only means something while the job is at that stage.
	if job.Status != model.JobInterview {
		job.InterviewDate = nil
	}
	return nil
}

// checkOwner is the single ownership rule for jobs and skills.
func checkOwner(ownerID, callerID string) error {
	if ownerID == "" || ownerID != callerID {
		return fmt.Errorf("%w for this record", ErrNotAuthorized)
	}
	return nil
}
