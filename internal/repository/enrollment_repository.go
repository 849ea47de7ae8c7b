package repository

import (
	"time"

	"codingclass_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func withProgress(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lessons").
		Preload("Lessons.CompletedBlocks")
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := withProgress(r.DB).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByUser(userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := withProgress(r.DB).
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&enrollments).Error
	return enrollments, err
}

// FindOrCreateProgress returns the lesson progress row for an enrollment,
// creating it with a fresh startedAt on first touch. Callers pass the
// surrounding transaction.
func (r *EnrollmentRepository) FindOrCreateProgress(tx *gorm.DB, enrollmentID, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := tx.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	now := time.Now()
	progress = model.LessonProgress{
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		StartedAt:    &now,
	}
	if err := tx.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// AddCompletedBlock records a block completion. Repeats are no-ops; the
// unique index backstops races.
func (r *EnrollmentRepository) AddCompletedBlock(tx *gorm.DB, progressID, blockID string) error {
	var existing model.CompletedBlock
	err := tx.Where("lesson_progress_id = ? AND block_id = ?", progressID, blockID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return tx.Create(&model.CompletedBlock{
		LessonProgressID: progressID,
		BlockID:          blockID,
	}).Error
}

// CountCompletedBlocks counts recorded completions that still point at live
// blocks of the lesson. Stale records for deleted blocks do not inflate the
// total.
func (r *EnrollmentRepository) CountCompletedBlocks(tx *gorm.DB, progressID, lessonID string) (int64, error) {
	var count int64
	err := tx.Model(&model.CompletedBlock{}).
		Where("lesson_progress_id = ?", progressID).
		Where("block_id IN (?)",
			tx.Model(&model.ContentBlock{}).Select("id").Where("lesson_id = ?", lessonID)).
		Count(&count).Error
	return count, err
}

// CountCompletedBlocksInCourse counts an enrollment's recorded completions
// that still point at live blocks of the course. Stale records for deleted
// blocks do not count.
func (r *EnrollmentRepository) CountCompletedBlocksInCourse(enrollmentID, courseID string) (int64, error) {
	lessonIDs := r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)
	progressIDs := r.DB.Model(&model.LessonProgress{}).Select("id").
		Where("enrollment_id = ?", enrollmentID)
	var count int64
	err := r.DB.Model(&model.CompletedBlock{}).
		Where("lesson_progress_id IN (?)", progressIDs).
		Where("block_id IN (?)",
			r.DB.Model(&model.ContentBlock{}).Select("id").Where("lesson_id IN (?)", lessonIDs)).
		Count(&count).Error
	return count, err
}
