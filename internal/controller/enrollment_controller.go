package controller

import (
	"errors"

	"codingclass_backend/internal/middleware"
	"codingclass_backend/internal/service"
	"codingclass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// List godoc
// @Summary List the caller's enrollments with progress
// @Tags enrollments
// @Produce  json
// @Success 200 {object} object{enrollments=[]service.EnrollmentView}
// @Failure 401 {object} util.ErrorResponse
// @Router /api/enrollments [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	user := middleware.GetUser(ctx)
	enrollments, err := c.EnrollmentService.ListEnrollments(user.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enrollments": enrollments})
}

// Get godoc
// @Summary Check enrollment in one course
// @Description Not being enrolled is a normal answer with enrolled=false, not an error.
// @Tags enrollments
// @Produce  json
// @Param   courseId path string true "Course id"
// @Success 200 {object} object{enrolled=bool,enrollment=service.EnrollmentView}
// @Failure 401 {object} util.ErrorResponse
// @Router /api/enrollments/{courseId} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
	user := middleware.GetUser(ctx)
	enrolled, enrollment, err := c.EnrollmentService.GetEnrollment(user.ID, ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !enrolled {
		util.Success(ctx, gin.H{"enrolled": false})
		return
	}
	util.Success(ctx, gin.H{"enrolled": true, "enrollment": enrollment})
}

// Enroll godoc
// @Summary Enroll in a published course
// @Tags enrollments
// @Produce  json
// @Param   courseId path string true "Course id"
// @Success 201 {object} object{enrollment=service.EnrollmentView}
// @Failure 404 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse
// @Router /api/enrollments/{courseId} [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := middleware.GetUser(ctx)
	enrollment, err := c.EnrollmentService.Enroll(user.ID, ctx.Param("courseId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, "Already enrolled in this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"enrollment": enrollment})
}

type ProgressRequest struct {
	LessonID string `json:"lessonId" binding:"required"`
	BlockID  string `json:"blockId" binding:"required"`
}

// MarkProgress godoc
// @Summary Mark a content block completed
// @Description Enrolls the caller and starts the lesson's progress record automatically when missing. Re-marking a block is a no-op. Answers the updated enrollment.
// @Tags enrollments
// @Accept  json
// @Produce  json
// @Param   courseId path string true "Course id"
// @Param   body body ProgressRequest true "Lesson and block ids"
// @Success 200 {object} object{enrollment=service.EnrollmentView}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/enrollments/{courseId}/progress [post]
func (c *EnrollmentController) MarkProgress(ctx *gin.Context) {
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := middleware.GetUser(ctx)
	enrollment, err := c.EnrollmentService.MarkBlockCompleted(user.ID, ctx.Param("courseId"), req.LessonID, req.BlockID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, "Lesson not found")
		case errors.Is(err, util.ErrBlockNotFound):
			util.NotFound(ctx, "Block not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"enrollment": enrollment})
}

// Completion godoc
// @Summary Course completion percentage
// @Description Derived from completed blocks over the course's total blocks, rounded to a whole percent. No enrollment, an unknown course or an empty course answers 0.
// @Tags enrollments
// @Produce  json
// @Param   courseId path string true "Course id"
// @Success 200 {object} object{percent=int}
// @Router /api/enrollments/{courseId}/completion [get]
func (c *EnrollmentController) Completion(ctx *gin.Context) {
	user := middleware.GetUser(ctx)
	percent, err := c.EnrollmentService.CompletionPercent(user.ID, ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"percent": percent})
}
