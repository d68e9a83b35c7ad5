package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/repository"
)

var ErrSkillNotFound = errors.New("skill not found")

// SkillService handles the skills a user is tracking.
type SkillService struct {
	skills *repository.SkillRepository
	now    func() time.Time
}

func NewSkillService(skills *repository.SkillRepository) *SkillService {
	return &SkillService{
		skills: skills,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func (s *SkillService) CreateSkill(ctx context.Context, userID string, req model.CreateSkillRequest) (model.Skill, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return model.Skill{}, err
	}

	now := s.now()
	skill := model.Skill{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Status:    req.Status,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if skill.Status == "" {
		skill.Status = model.SkillNeedToLearn
	}
	if req.Proficiency != nil {
		skill.Proficiency = *req.Proficiency
	}

	if err := s.skills.Create(ctx, &skill); err != nil {
		return model.Skill{}, err
	}
	return skill, nil
}

func (s *SkillService) ListSkills(ctx context.Context, userID string) ([]model.Skill, error) {
	return s.skills.ListByUser(ctx, userID)
}

func (s *SkillService) GetSkill(ctx context.Context, userID, skillID string) (model.Skill, error) {
	skill, err := s.loadOwned(ctx, userID, skillID)
	if err != nil {
		return model.Skill{}, err
	}
	return *skill, nil
}

// UpdateSkill applies patch to one of the caller's skills. Proficiency
// outside 0..100 is rejected rather than clamped.
func (s *SkillService) UpdateSkill(ctx context.Context, userID, skillID string, patch model.SkillPatch) (model.Skill, error) {
	skill, err := s.loadOwned(ctx, userID, skillID)
	if err != nil {
		return model.Skill{}, err
	}

	if err := validateStruct(patch); err != nil {
		return model.Skill{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Skill{}, fieldError("name", "is required")
		}
		skill.Name = name
	}
	if patch.Status != nil && *patch.Status != "" {
		skill.Status = *patch.Status
	}
	if patch.Proficiency != nil {
		skill.Proficiency = *patch.Proficiency
	}
	if patch.Notes != nil {
		skill.Notes = strings.TrimSpace(*patch.Notes)
	}
	skill.UpdatedAt = s.now()

	if err := s.skills.Update(ctx, skill); err != nil {
		return model.Skill{}, err
	}
	return *skill, nil
}

func (s *SkillService) DeleteSkill(ctx context.Context, userID, skillID string) error {
	if _, err := s.loadOwned(ctx, userID, skillID); err != nil {
		return err
	}

	err := s.skills.Delete(ctx, skillID)
	if errors.Is(err, repository.ErrSkillNotFound) {
		return ErrSkillNotFound
	}
	return err
}

func (s *SkillService) loadOwned(ctx context.Context, userID, skillID string) (*model.Skill, error) {
	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	if err := checkOwner(skill.UserID, userID); err != nil {
		return nil, err
	}
	return skill, nil
}
