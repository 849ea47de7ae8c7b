package service

import (
	"encoding/json"
	"errors"
	"strings"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/policy"
	"codingclass_backend/internal/repository"
	"codingclass_backend/internal/util"
	"codingclass_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	Courses *repository.CourseRepository
	Lessons *repository.LessonRepository
	Blocks  *repository.ContentBlockRepository
}

func NewCourseService(courses *repository.CourseRepository, lessons *repository.LessonRepository, blocks *repository.ContentBlockRepository) *CourseService {
	return &CourseService{Courses: courses, Lessons: lessons, Blocks: blocks}
}

// ListCourses returns what the viewer is allowed to see. Anonymous users and
// students get published courses only; instructors additionally see their own
// drafts; admin and owner see everything.
func (s *CourseService) ListCourses(viewer *model.User) ([]model.Course, error) {
	switch {
	case viewer == nil:
		return s.Courses.FindPublished()
	case policy.IsAdmin(viewer):
		return s.Courses.FindAll()
	case policy.IsInstructorCapable(viewer):
		return s.Courses.FindPublishedOrOwned(viewer.ID)
	default:
		return s.Courses.FindPublished()
	}
}

// GetCourse loads one course. An unpublished course answers not-found to
// anyone who cannot edit it, so drafts stay invisible rather than forbidden.
func (s *CourseService) GetCourse(viewer *model.User, id string) (*model.Course, error) {
	course, err := s.Courses.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished && !policy.CanEditCourse(viewer, course) {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

type CreateCourseInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
}

// CreateCourse creates an unpublished course owned by the instructor. The
// instructor's display name is denormalized onto the course at this point.
func (s *CourseService) CreateCourse(instructor *model.User, input CreateCourseInput) (*model.Course, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, util.Validation("title is required")
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	course := &model.Course{
		Title:          title,
		Description:    input.Description,
		Thumbnail:      input.Thumbnail,
		InstructorID:   instructor.ID,
		InstructorName: instructor.Name,
		Tags:           tags,
		IsPublished:    input.IsPublished,
		Lessons:        []model.Lesson{},
	}
	if err := s.Courses.Create(course); err != nil {
		return nil, err
	}
	logger.Log.Info("course created",
		zap.String("courseID", course.ID),
		zap.String("instructorID", instructor.ID))
	return course, nil
}

type UpdateCourseInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Thumbnail   *string   `json:"thumbnail"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
}

// UpdateCourse applies a partial update; absent fields keep their values.
func (s *CourseService) UpdateCourse(actor *model.User, id string, input UpdateCourseInput) (*model.Course, error) {
	course, err := s.editableCourse(actor, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, util.Validation("title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Thumbnail != nil {
		fields["thumbnail"] = *input.Thumbnail
	}
	if input.Tags != nil {
		raw, err := json.Marshal(*input.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = string(raw)
	}
	if input.IsPublished != nil {
		fields["is_published"] = *input.IsPublished
	}

	if len(fields) > 0 {
		if err := s.Courses.UpdateFields(course.ID, fields); err != nil {
			return nil, err
		}
	}
	return s.Courses.FindByID(course.ID)
}

// DeleteCourse removes a course and everything under it, including every
// student's enrollment and progress.
func (s *CourseService) DeleteCourse(actor *model.User, id string) error {
	course, err := s.editableCourse(actor, id)
	if err != nil {
		return err
	}
	if err := s.Courses.Delete(course.ID); err != nil {
		return err
	}
	logger.Log.Info("course deleted",
		zap.String("courseID", course.ID),
		zap.String("actorID", actor.ID))
	return nil
}

type LessonInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
	Duration    *int   `json:"duration"`
	IsPublished *bool  `json:"isPublished"`
}

// AddLesson appends a lesson to a course. With no explicit order it lands at
// the end; an explicit order is stored verbatim.
func (s *CourseService) AddLesson(actor *model.User, courseID string, input LessonInput) (*model.Lesson, error) {
	course, err := s.editableCourse(actor, courseID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, util.Validation("title is required")
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		max, err := s.Lessons.MaxOrder(course.ID)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}

	lesson := &model.Lesson{
		CourseID:      course.ID,
		Title:         title,
		Description:   input.Description,
		Order:         order,
		Duration:      input.Duration,
		ContentBlocks: []model.ContentBlock{},
	}
	if input.IsPublished != nil {
		lesson.IsPublished = *input.IsPublished
	}
	if err := s.Lessons.Create(lesson); err != nil {
		return nil, err
	}
	if err := s.Courses.Touch(s.Courses.DB, course.ID); err != nil {
		return nil, err
	}
	return lesson, nil
}

type UpdateLessonInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	Duration    *int    `json:"duration"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CourseService) UpdateLesson(actor *model.User, courseID, lessonID string, input UpdateLessonInput) (*model.Lesson, error) {
	course, err := s.editableCourse(actor, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findLesson(course.ID, lessonID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, util.Validation("title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Order != nil {
		fields["order"] = *input.Order
	}
	if input.Duration != nil {
		fields["duration"] = *input.Duration
	}
	if input.IsPublished != nil {
		fields["is_published"] = *input.IsPublished
	}

	if len(fields) > 0 {
		if err := s.Lessons.UpdateFields(lessonID, fields); err != nil {
			return nil, err
		}
		if err := s.Courses.Touch(s.Courses.DB, course.ID); err != nil {
			return nil, err
		}
	}
	return s.findLesson(course.ID, lessonID)
}

// DeleteLesson removes a lesson and renumbers the survivors so lesson orders
// stay dense.
func (s *CourseService) DeleteLesson(actor *model.User, courseID, lessonID string) error {
	course, err := s.editableCourse(actor, courseID)
	if err != nil {
		return err
	}
	if _, err := s.findLesson(course.ID, lessonID); err != nil {
		return err
	}
	return s.Lessons.DeleteAndResequence(s.Courses, course.ID, lessonID)
}

type BlockInput struct {
	Type    model.BlockType        `json:"type" binding:"required"`
	Order   *int                   `json:"order"`
	Payload map[string]interface{} `json:"-"`
}

// AddBlock appends a content block to a lesson. The payload is everything in
// the request body besides type and order, validated per block type.
func (s *CourseService) AddBlock(actor *model.User, courseID, lessonID string, input BlockInput) (*model.ContentBlock, error) {
	course, err := s.editableCourse(actor, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findLesson(course.ID, lessonID); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, util.Validation("invalid block type")
	}
	if err := model.ValidateBlockPayload(input.Type, input.Payload); err != nil {
		return nil, util.Validation(err.Error())
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		max, err := s.Blocks.MaxOrder(lessonID)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}

	raw, err := json.Marshal(input.Payload)
	if err != nil {
		return nil, err
	}
	block := &model.ContentBlock{
		LessonID: lessonID,
		Type:     input.Type,
		Order:    order,
		Data:     raw,
	}
	if err := s.Blocks.Create(block); err != nil {
		return nil, err
	}
	if err := s.Courses.Touch(s.Courses.DB, course.ID); err != nil {
		return nil, err
	}
	return block, nil
}

type UpdateBlockInput struct {
	Type    *model.BlockType
	Order   *int
	Payload map[string]interface{}
}

// UpdateBlock merges payload fields into the block; type and order are
// replaced wholesale when present. A type change revalidates the merged
// payload against the new type.
func (s *CourseService) UpdateBlock(actor *model.User, courseID, lessonID, blockID string, input UpdateBlockInput) (*model.ContentBlock, error) {
	course, err := s.editableCourse(actor, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findLesson(course.ID, lessonID); err != nil {
		return nil, err
	}
	block, err := s.findBlock(lessonID, blockID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, util.Validation("invalid block type")
		}
		block.Type = *input.Type
	}
	if input.Order != nil {
		block.Order = *input.Order
	}
	if len(input.Payload) > 0 {
		if err := block.MergePayload(input.Payload); err != nil {
			return nil, err
		}
	}
	if input.Type != nil || len(input.Payload) > 0 {
		merged := map[string]interface{}{}
		if len(block.Data) > 0 {
			if err := json.Unmarshal(block.Data, &merged); err != nil {
				return nil, err
			}
		}
		if err := model.ValidateBlockPayload(block.Type, merged); err != nil {
			return nil, util.Validation(err.Error())
		}
	}

	if err := s.Blocks.Save(block); err != nil {
		return nil, err
	}
	if err := s.Courses.Touch(s.Courses.DB, course.ID); err != nil {
		return nil, err
	}
	return block, nil
}

// DeleteBlock removes a block and renumbers the lesson's surviving blocks.
func (s *CourseService) DeleteBlock(actor *model.User, courseID, lessonID, blockID string) error {
	course, err := s.editableCourse(actor, courseID)
	if err != nil {
		return err
	}
	if _, err := s.findLesson(course.ID, lessonID); err != nil {
		return err
	}
	if _, err := s.findBlock(lessonID, blockID); err != nil {
		return err
	}
	return s.Blocks.DeleteAndResequence(s.Courses, course.ID, lessonID, blockID)
}

// editableCourse loads a course and checks edit rights. A course the actor
// cannot even see answers not-found; one they can see but not edit answers
// permission denied.
func (s *CourseService) editableCourse(actor *model.User, id string) (*model.Course, error) {
	course, err := s.Courses.FindRow(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if policy.CanEditCourse(actor, course) {
		return course, nil
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotFound
	}
	return nil, util.ErrPermissionDenied
}

func (s *CourseService) findLesson(courseID, lessonID string) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByID(courseID, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) findBlock(lessonID, blockID string) (*model.ContentBlock, error) {
	block, err := s.Blocks.FindByID(lessonID, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBlockNotFound
		}
		return nil, err
	}
	return block, nil
}
