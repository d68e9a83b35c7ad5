package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jobtracker/jobtracker-go/internal/model"
)

var ErrSkillNotFound = errors.New("skill not found")

const skillColumns = `id, user_id, name, status, proficiency, notes, created_at, updated_at`

// SkillRepository handles skill persistence operations.
type SkillRepository struct {
	db DBTX
}

func NewSkillRepository(db DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) Create(ctx context.Context, skill *model.Skill) error {
	query := `INSERT INTO skills (` + skillColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		skill.ID, skill.UserID, skill.Name, string(skill.Status), skill.Proficiency, skill.Notes,
		skill.CreatedAt, skill.UpdatedAt,
	)
	return err
}

func (r *SkillRepository) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	skill := &model.Skill{}
	err := scanSkill(r.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id), skill)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return skill, nil
}

func (r *SkillRepository) ListByUser(ctx context.Context, userID string) ([]model.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE user_id = ? ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []model.Skill{}
	for rows.Next() {
		var s model.Skill
		if err := scanSkill(rows, &s); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}

	return skills, rows.Err()
}

func (r *SkillRepository) Update(ctx context.Context, skill *model.Skill) error {
	query := `UPDATE skills SET name = ?, status = ?, proficiency = ?, notes = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		skill.Name, string(skill.Status), skill.Proficiency, skill.Notes, skill.UpdatedAt, skill.ID,
	)
	return err
}

func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrSkillNotFound)
}

func (r *SkillRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSkill(s scanner, sk *model.Skill) error {
	var status string
	if err := s.Scan(&sk.ID, &sk.UserID, &sk.Name, &status, &sk.Proficiency, &sk.Notes, &sk.CreatedAt, &sk.UpdatedAt); err != nil {
		return err
	}
	sk.Status = model.SkillStatus(status)
	return nil
}
