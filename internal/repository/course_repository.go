package repository

import (
	"time"

	"codingclass_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		}).
		Preload("Lessons.ContentBlocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC")
		})
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// FindByID loads a course with its lessons and blocks in display order.
func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := withContent(r.DB).First(&course, "id = ?", id).Error
	return &course, err
}

// FindRow loads only the course row, without nested content.
func (r *CourseRepository) FindRow(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	return &course, err
}

func (r *CourseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	err := withContent(r.DB).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindPublished() ([]model.Course, error) {
	var courses []model.Course
	err := withContent(r.DB).Where("is_published = ?", true).
		Order("created_at DESC").Find(&courses).Error
	return courses, err
}

// FindPublishedOrOwned returns published courses plus the instructor's own
// unpublished ones.
func (r *CourseRepository) FindPublishedOrOwned(instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := withContent(r.DB).
		Where("is_published = ? OR instructor_id = ?", true, instructorID).
		Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByInstructor(instructorID string) ([]model.Course, error) {
	var courses []model.Course
	err := withContent(r.DB).Where("instructor_id = ?", instructorID).
		Order("created_at DESC").Find(&courses).Error
	return courses, err
}

// UpdateFields applies a partial update; absent fields stay untouched.
// updated_at refreshes on every call.
func (r *CourseRepository) UpdateFields(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.DB.Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

// Touch refreshes a course's updated_at, used when nested lessons or blocks
// change.
func (r *CourseRepository) Touch(tx *gorm.DB, id string) error {
	return tx.Model(&model.Course{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// Delete removes a course and everything under it (lessons, blocks,
// enrollments, progress) as one transaction.
func (r *CourseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		lessonIDs := tx.Model(&model.Lesson{}).Select("id").Where("course_id = ?", id)
		enrollmentIDs := tx.Model(&model.Enrollment{}).Select("id").Where("course_id = ?", id)
		progressIDs := tx.Model(&model.LessonProgress{}).Select("id").Where("enrollment_id IN (?)", enrollmentIDs)

		if err := tx.Where("lesson_progress_id IN (?)", progressIDs).
			Delete(&model.CompletedBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("enrollment_id IN (?)", tx.Model(&model.Enrollment{}).Select("id").Where("course_id = ?", id)).
			Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id IN (?)", lessonIDs).
			Delete(&model.ContentBlock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, "id = ?", id).Error
	})
}
