package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/model"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindByID loads the quiz with its questions in position order and each
// question's answer list in position order. Answer order is load-bearing: it
// is the index submissions refer to.
func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) List(studyYear *int) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, created_at asc")
		})
	if studyYear != nil {
		query = query.Where("study_year = ?", *studyYear)
	}
	err := query.Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

// ListScheduledBetween returns quizzes whose scheduled_at falls inside
// [from, to), for the calendar view.
func (r *QuizRepository) ListScheduledBetween(from, to time.Time) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at asc").
		Find(&quizzes).Error
	return quizzes, err
}

// Update replaces the quiz row and its whole question list in one
// transaction. Submissions referencing removed questions are kept; the
// aggregator degrades them to unmatched answers.
func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quiz).Error
	})
}

// Delete removes the quiz with its questions and answers. Submission rows
// are append-only and survive; their quiz reference simply dangles.
func (r *QuizRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Quiz{}, "id = ?", id).Error
	})
}
