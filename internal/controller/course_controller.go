package controller

import (
	"errors"

	"codingclass_backend/internal/middleware"
	"codingclass_backend/internal/model"
	"codingclass_backend/internal/service"
	"codingclass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// List godoc
// @Summary List courses visible to the caller
// @Description Anonymous and student viewers see published courses; instructors also see their own drafts; admin and owner see everything.
// @Tags courses
// @Produce  json
// @Success 200 {object} object{courses=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(middleware.GetUser(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courses": courses})
}

// ListMine godoc
// @Summary List the caller's own courses
// @Tags courses
// @Produce  json
// @Success 200 {object} object{courses=[]model.Course}
// @Failure 403 {object} util.ErrorResponse
// @Router /api/courses/my [get]
func (c *CourseController) ListMine(ctx *gin.Context) {
	user := middleware.GetUser(ctx)
	courses, err := c.CourseService.Courses.FindByInstructor(user.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courses": courses})
}

// Get godoc
// @Summary Get one course with lessons and blocks
// @Description Unpublished courses answer 404 to viewers who cannot edit them.
// @Tags courses
// @Produce  json
// @Param   id path string true "Course id"
// @Success 200 {object} object{course=model.Course}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.GetCourse(middleware.GetUser(ctx), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"course": course})
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept  json
// @Produce  json
// @Param   body body service.CreateCourseInput true "Course payload"
// @Success 201 {object} object{course=model.Course}
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var input service.CreateCourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(middleware.GetUser(ctx), input)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, gin.H{"course": course})
}

// Update godoc
// @Summary Partially update a course
// @Description Only fields present in the body change; publishing happens by sending isPublished.
// @Tags courses
// @Accept  json
// @Produce  json
// @Param   id path string true "Course id"
// @Param   body body service.UpdateCourseInput true "Fields to change"
// @Success 200 {object} object{course=model.Course}
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id} [patch]
func (c *CourseController) Update(ctx *gin.Context) {
	var input service.UpdateCourseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(middleware.GetUser(ctx), ctx.Param("id"), input)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"course": course})
}

// Delete godoc
// @Summary Delete a course and everything under it
// @Tags courses
// @Produce  json
// @Param   id path string true "Course id"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	if err := c.CourseService.DeleteCourse(middleware.GetUser(ctx), ctx.Param("id")); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

// AddLesson godoc
// @Summary Add a lesson to a course
// @Description Without an explicit order the lesson is appended after the current last one.
// @Tags lessons
// @Accept  json
// @Produce  json
// @Param   id path string true "Course id"
// @Param   body body service.LessonInput true "Lesson payload"
// @Success 201 {object} object{lesson=model.Lesson}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id}/lessons [post]
func (c *CourseController) AddLesson(ctx *gin.Context) {
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.AddLesson(middleware.GetUser(ctx), ctx.Param("id"), input)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"lesson": lesson})
}

// UpdateLesson godoc
// @Summary Partially update a lesson
// @Tags lessons
// @Accept  json
// @Produce  json
// @Param   id path string true "Course id"
// @Param   lessonId path string true "Lesson id"
// @Param   body body service.UpdateLessonInput true "Fields to change"
// @Success 200 {object} object{lesson=model.Lesson}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id}/lessons/{lessonId} [patch]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	var input service.UpdateLessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.UpdateLesson(middleware.GetUser(ctx), ctx.Param("id"), ctx.Param("lessonId"), input)
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"lesson": lesson})
}

// DeleteLesson godoc
// @Summary Delete a lesson and renumber the survivors
// @Tags lessons
// @Produce  json
// @Param   id path string true "Course id"
// @Param   lessonId path string true "Lesson id"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id}/lessons/{lessonId} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	if err := c.CourseService.DeleteLesson(middleware.GetUser(ctx), ctx.Param("id"), ctx.Param("lessonId")); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

// AddBlock godoc
// @Summary Add a content block to a lesson
// @Description The body carries type, optional order, and the variant payload flattened alongside them.
// @Tags blocks
// @Accept  json
// @Produce  json
// @Param   id path string true "Course id"
// @Param   lessonId path string true "Lesson id"
// @Success 201 {object} object{block=model.ContentBlock}
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id}/lessons/{lessonId}/blocks [post]
func (c *CourseController) AddBlock(ctx *gin.Context) {
	input, err := bindBlockBody(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if input.Type == nil {
		util.BadRequest(ctx, "type is required")
		return
	}

	block, err := c.CourseService.AddBlock(middleware.GetUser(ctx), ctx.Param("id"), ctx.Param("lessonId"), service.BlockInput{
		Type:    *input.Type,
		Order:   input.Order,
		Payload: input.Payload,
	})
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"block": block})
}

// UpdateBlock godoc
// @Summary Partially update a content block
// @Description Payload fields merge shallowly; type and order are replaced wholesale when present.
// @Tags blocks
// @Accept  json
// @Produce  json
// @Param   id path string true "Course id"
// @Param   lessonId path string true "Lesson id"
// @Param   blockId path string true "Block id"
// @Success 200 {object} object{block=model.ContentBlock}
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id}/lessons/{lessonId}/blocks/{blockId} [patch]
func (c *CourseController) UpdateBlock(ctx *gin.Context) {
	input, err := bindBlockBody(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	block, err := c.CourseService.UpdateBlock(middleware.GetUser(ctx), ctx.Param("id"), ctx.Param("lessonId"), ctx.Param("blockId"), service.UpdateBlockInput{
		Type:    input.Type,
		Order:   input.Order,
		Payload: input.Payload,
	})
	if err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"block": block})
}

// DeleteBlock godoc
// @Summary Delete a content block and renumber the survivors
// @Tags blocks
// @Produce  json
// @Param   id path string true "Course id"
// @Param   lessonId path string true "Lesson id"
// @Param   blockId path string true "Block id"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/courses/{id}/lessons/{lessonId}/blocks/{blockId} [delete]
func (c *CourseController) DeleteBlock(ctx *gin.Context) {
	if err := c.CourseService.DeleteBlock(middleware.GetUser(ctx), ctx.Param("id"), ctx.Param("lessonId"), ctx.Param("blockId")); err != nil {
		c.respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

// blockBody is a block request body split into the structural fields and the
// variant payload. type and order are lifted out; everything else stays in
// Payload.
type blockBody struct {
	Type    *model.BlockType
	Order   *int
	Payload map[string]interface{}
}

func bindBlockBody(ctx *gin.Context) (*blockBody, error) {
	raw := map[string]interface{}{}
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}

	body := &blockBody{Payload: raw}
	if v, ok := raw["type"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("type must be a string")
		}
		t := model.BlockType(s)
		body.Type = &t
		delete(raw, "type")
	}
	if v, ok := raw["order"]; ok {
		n, ok := v.(float64)
		if !ok || n != float64(int(n)) {
			return nil, errors.New("order must be an integer")
		}
		order := int(n)
		body.Order = &order
		delete(raw, "order")
	}
	delete(raw, "id")
	return body, nil
}

func (c *CourseController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx, "Course not found")
	case errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx, "Lesson not found")
	case errors.Is(err, util.ErrBlockNotFound):
		util.NotFound(ctx, "Block not found")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, "")
	case isValidationError(err):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func isValidationError(err error) bool {
	var ve *util.ValidationError
	return errors.As(err, &ve)
}
