package repository

import (
	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Preload("Answers").First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByQuiz returns every attempt for the quiz with its answers loaded,
// oldest first.
func (r *SubmissionRepository) FindByQuiz(quizID string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.
		Preload("Answers").
		Where("quiz_id = ?", quizID).
		Order("submitted_at asc").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) CountByQuiz(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}
