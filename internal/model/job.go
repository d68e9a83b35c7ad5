package model

import "time"

// JobStatus is the stage of an application.
type JobStatus string

const (
	JobApplied   JobStatus = "Applied"
	JobInterview JobStatus = "Interview"
	JobOffer     JobStatus = "Offer"
	JobRejected  JobStatus = "Rejected"
)

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobApplied, JobInterview, JobOffer, JobRejected:
		return true
	}
	return false
}

// Job is a tracked application owned by a single user.
type Job struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user"`
	Company       string     `json:"company"`
	Position      string     `json:"position"`
	Location      string     `json:"location"`
	Status        JobStatus  `json:"status"`
	Notes         string     `json:"notes"`
	AppliedDate   time.Time  `json:"appliedDate"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreateJobRequest is the body of POST /api/jobs. Dates are "", YYYY-MM-DD
// or RFC 3339.
type CreateJobRequest struct {
	Company       string    `json:"company" validate:"required"`
	Position      string    `json:"position" validate:"required"`
	Location      string    `json:"location"`
	Status        JobStatus `json:"status" validate:"omitempty,job-status"`
	Notes         string    `json:"notes"`
	AppliedDate   string    `json:"appliedDate"`
	InterviewDate string    `json:"interviewDate"`
}

// JobPatch lists the fields a client may change on a job. Nil means
// "leave as is"; anything else in the request body is ignored.
type JobPatch struct {
	Company       *string    `json:"company"`
	Position      *string    `json:"position"`
	Location      *string    `json:"location"`
	Status        *JobStatus `json:"status" validate:"omitempty,job-status"`
	Notes         *string    `json:"notes"`
	AppliedDate   *string    `json:"appliedDate"`
	InterviewDate *string    `json:"interviewDate"`
}

// JobStats counts a user's jobs per status.
type JobStats struct {
	Total     int `json:"total"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
}

// DeletedJobResponse is returned by DELETE /api/jobs/{id}.
type DeletedJobResponse struct {
	ID string `json:"id"`
}
