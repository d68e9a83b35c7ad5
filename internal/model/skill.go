package model

import "time"

type SkillStatus string

const (
	SkillLearning    SkillStatus = "Learning"
	SkillLearnt      SkillStatus = "Learnt"
	SkillNeedToLearn SkillStatus = "Need to Learn"
)

func (s SkillStatus) Valid() bool {
	switch s {
	case SkillLearning, SkillLearnt, SkillNeedToLearn:
		return true
	}
	return false
}

const (
	MinProficiency = 0
	MaxProficiency = 100
)

type Skill struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user"`
	Name        string      `json:"name"`
	Status      SkillStatus `json:"status"`
	Proficiency int         `json:"proficiency"`
	Notes       string      `json:"notes"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type CreateSkillRequest struct {
	Name        string      `json:"name" validate:"required"`
	Status      SkillStatus `json:"status" validate:"omitempty,skill-status"`
	Proficiency *int        `json:"proficiency" validate:"omitempty,min=0,max=100"`
	Notes       string      `json:"notes"`
}

// SkillPatch is the allow-list of mutable skill fields.
type SkillPatch struct {
	Name        *string      `json:"name"`
	Status      *SkillStatus `json:"status" validate:"omitempty,skill-status"`
	Proficiency *int         `json:"proficiency" validate:"omitempty,min=0,max=100"`
	Notes       *string      `json:"notes"`
}
