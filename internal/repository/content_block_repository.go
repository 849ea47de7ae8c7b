package repository

import (
	"codingclass_backend/internal/model"

	"gorm.io/gorm"
)

type ContentBlockRepository struct {
	DB *gorm.DB
}

func NewContentBlockRepository(db *gorm.DB) *ContentBlockRepository {
	return &ContentBlockRepository{DB: db}
}

func (r *ContentBlockRepository) Create(block *model.ContentBlock) error {
	return r.DB.Create(block).Error
}

func (r *ContentBlockRepository) FindByID(lessonID, id string) (*model.ContentBlock, error) {
	var block model.ContentBlock
	err := r.DB.Where("id = ? AND lesson_id = ?", id, lessonID).First(&block).Error
	return &block, err
}

func (r *ContentBlockRepository) MaxOrder(lessonID string) (int, error) {
	var max int
	err := r.DB.Model(&model.ContentBlock{}).
		Where("lesson_id = ?", lessonID).
		Select("COALESCE(MAX(`order`), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ContentBlockRepository) Save(block *model.ContentBlock) error {
	return r.DB.Save(block).Error
}

// CountByCourse counts blocks across all of a course's lessons, the
// denominator of the completion percentage.
func (r *ContentBlockRepository) CountByCourse(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ContentBlock{}).
		Where("lesson_id IN (?)",
			r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)).
		Count(&count).Error
	return count, err
}

// DeleteAndResequence removes a block and renumbers the lesson's surviving
// blocks to a dense 1..N sequence in one transaction.
func (r *ContentBlockRepository) DeleteAndResequence(courseRepo *CourseRepository, courseID, lessonID, blockID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ContentBlock{}, "id = ?", blockID).Error; err != nil {
			return err
		}

		var survivors []model.ContentBlock
		if err := tx.Where("lesson_id = ?", lessonID).
			Order("`order` ASC").Find(&survivors).Error; err != nil {
			return err
		}
		for i, block := range survivors {
			if block.Order == i+1 {
				continue
			}
			if err := tx.Model(&model.ContentBlock{}).Where("id = ?", block.ID).
				Update("order", i+1).Error; err != nil {
				return err
			}
		}

		return courseRepo.Touch(tx, courseID)
	})
}
