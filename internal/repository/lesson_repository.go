package repository

import (
	"codingclass_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(courseID, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("ContentBlocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		Where("id = ? AND course_id = ?", id, courseID).
		First(&lesson).Error
	return &lesson, err
}

// MaxOrder returns the highest order among a course's lessons, 0 when empty.
func (r *LessonRepository) MaxOrder(courseID string) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&max).Error
	return max, err
}

func (r *LessonRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.DB.Model(&model.Lesson{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteAndResequence removes a lesson with its blocks and progress, then
// renumbers the surviving siblings to a dense 1..N sequence. The whole
// operation is one transaction; the course's updated_at refreshes with it.
func (r *LessonRepository) DeleteAndResequence(courseRepo *CourseRepository, courseID, lessonID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		progressIDs := tx.Model(&model.LessonProgress{}).Select("id").Where("lesson_id = ?", lessonID)
		if err := tx.Where("lesson_progress_id IN (?)", progressIDs).
			Delete(&model.CompletedBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.ContentBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Lesson{}, "id = ?", lessonID).Error; err != nil {
			return err
		}

		var survivors []model.Lesson
		if err := tx.Where("course_id = ?", courseID).
			Order("`order` ASC").Find(&survivors).Error; err != nil {
			return err
		}
		for i, lesson := range survivors {
			if lesson.Order == i+1 {
				continue
			}
			if err := tx.Model(&model.Lesson{}).Where("id = ?", lesson.ID).
				Update("order", i+1).Error; err != nil {
				return err
			}
		}

		return courseRepo.Touch(tx, courseID)
	})
}
