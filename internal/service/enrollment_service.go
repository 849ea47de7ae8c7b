package service

import (
	"errors"
	"math"
	"time"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/repository"
	"codingclass_backend/internal/util"
	"codingclass_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	DB          *gorm.DB
	Enrollments *repository.EnrollmentRepository
	Courses     *repository.CourseRepository
	Lessons     *repository.LessonRepository
	Blocks      *repository.ContentBlockRepository
}

func NewEnrollmentService(db *gorm.DB, enrollments *repository.EnrollmentRepository, courses *repository.CourseRepository, lessons *repository.LessonRepository, blocks *repository.ContentBlockRepository) *EnrollmentService {
	return &EnrollmentService{
		DB:          db,
		Enrollments: enrollments,
		Courses:     courses,
		Lessons:     lessons,
		Blocks:      blocks,
	}
}

// EnrollmentView is the wire shape of an enrollment with its per-lesson
// progress expanded.
type EnrollmentView struct {
	ID          string               `json:"id"`
	CourseID    string               `json:"courseId"`
	EnrolledAt  time.Time            `json:"enrolledAt"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	Lessons     []LessonProgressView `json:"lessons"`
}

type LessonProgressView struct {
	LessonID        string     `json:"lessonId"`
	Completed       bool       `json:"completed"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CompletedBlocks []string   `json:"completedBlocks"`
}

func toView(e *model.Enrollment) EnrollmentView {
	view := EnrollmentView{
		ID:          e.ID,
		CourseID:    e.CourseID,
		EnrolledAt:  e.CreatedAt,
		CompletedAt: e.CompletedAt,
		Lessons:     []LessonProgressView{},
	}
	for _, lp := range e.Lessons {
		blocks := make([]string, 0, len(lp.CompletedBlocks))
		for _, cb := range lp.CompletedBlocks {
			blocks = append(blocks, cb.BlockID)
		}
		view.Lessons = append(view.Lessons, LessonProgressView{
			LessonID:        lp.LessonID,
			Completed:       lp.Completed,
			StartedAt:       lp.StartedAt,
			CompletedAt:     lp.CompletedAt,
			CompletedBlocks: blocks,
		})
	}
	return view
}

// ListEnrollments returns all of a user's enrollments with progress.
func (s *EnrollmentService) ListEnrollments(userID string) ([]EnrollmentView, error) {
	enrollments, err := s.Enrollments.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	views := make([]EnrollmentView, 0, len(enrollments))
	for i := range enrollments {
		views = append(views, toView(&enrollments[i]))
	}
	return views, nil
}

// GetEnrollment reports whether the user is enrolled in a course, with the
// enrollment expanded when they are. Not being enrolled is a normal answer,
// not an error.
func (s *EnrollmentService) GetEnrollment(userID, courseID string) (bool, *EnrollmentView, error) {
	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	view := toView(enrollment)
	return true, &view, nil
}

// Enroll joins a user to a published course. Unpublished courses answer
// not-found, same as absent ones; double enrollment conflicts.
func (s *EnrollmentService) Enroll(userID, courseID string) (*EnrollmentView, error) {
	course, err := s.Courses.FindRow(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotFound
	}

	if _, err := s.Enrollments.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.Enrollments.Create(enrollment); err != nil {
		return nil, err
	}
	logger.Log.Info("user enrolled",
		zap.String("userID", userID),
		zap.String("courseID", courseID))
	view := toView(enrollment)
	return &view, nil
}

// MarkBlockCompleted records one block done for a user, creating the
// enrollment and lesson progress lazily when missing, and returns the updated
// enrollment. Repeats are no-ops. When the recorded completions cover every
// live block of the lesson, the lesson flips to completed; when every lesson
// of the course is completed, the enrollment itself completes.
func (s *EnrollmentService) MarkBlockCompleted(userID, courseID, lessonID, blockID string) (*EnrollmentView, error) {
	course, err := s.Courses.FindRow(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	lesson, err := s.Lessons.FindByID(course.ID, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if _, err := s.Blocks.FindByID(lesson.ID, blockID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBlockNotFound
		}
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment model.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, course.ID).
			First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			enrollment = model.Enrollment{UserID: userID, CourseID: course.ID}
			if err := tx.Create(&enrollment).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		progress, err := s.Enrollments.FindOrCreateProgress(tx, enrollment.ID, lesson.ID)
		if err != nil {
			return err
		}
		if err := s.Enrollments.AddCompletedBlock(tx, progress.ID, blockID); err != nil {
			return err
		}

		completed, err := s.Enrollments.CountCompletedBlocks(tx, progress.ID, lesson.ID)
		if err != nil {
			return err
		}
		var total int64
		if err := tx.Model(&model.ContentBlock{}).
			Where("lesson_id = ?", lesson.ID).Count(&total).Error; err != nil {
			return err
		}

		if total > 0 && completed >= total && !progress.Completed {
			now := time.Now()
			progress.Completed = true
			progress.CompletedAt = &now
			if err := tx.Save(progress).Error; err != nil {
				return err
			}

			var lessonTotal, lessonsDone int64
			if err := tx.Model(&model.Lesson{}).
				Where("course_id = ?", course.ID).Count(&lessonTotal).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.LessonProgress{}).
				Where("enrollment_id = ? AND completed = ?", enrollment.ID, true).
				Where("lesson_id IN (?)",
					tx.Model(&model.Lesson{}).Select("id").Where("course_id = ?", course.ID)).
				Count(&lessonsDone).Error; err != nil {
				return err
			}
			if lessonTotal > 0 && lessonsDone >= lessonTotal && enrollment.CompletedAt == nil {
				if err := tx.Model(&model.Enrollment{}).
					Where("id = ?", enrollment.ID).
					Update("completed_at", now).Error; err != nil {
					return err
				}
				logger.Log.Info("course completed",
					zap.String("userID", userID),
					zap.String("courseID", course.ID))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, course.ID)
	if err != nil {
		return nil, err
	}
	view := toView(enrollment)
	return &view, nil
}

// CompletionPercent derives the user's completion of a course as a rounded
// whole percent of its blocks. A pure read: no enrollment, an unknown course
// or a course with no blocks all answer 0 rather than an error.
func (s *EnrollmentService) CompletionPercent(userID, courseID string) (int, error) {
	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	total, err := s.Blocks.CountByCourse(courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	done, err := s.Enrollments.CountCompletedBlocksInCourse(enrollment.ID, courseID)
	if err != nil {
		return 0, err
	}
	return int(math.Round(float64(done) / float64(total) * 100)), nil
}
