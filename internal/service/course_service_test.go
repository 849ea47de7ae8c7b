package service

import (
	"encoding/json"
	"testing"
	"time"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCoursesVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	env.createCourse(t, owner, "published", true)
	draft := env.createCourse(t, owner, "draft", false)

	// Anonymous viewers only see published courses.
	anon, err := env.course.ListCourses(nil)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, "published", anon[0].Title)

	// Students are the same as anonymous.
	forStudent, err := env.course.ListCourses(student)
	require.NoError(t, err)
	assert.Len(t, forStudent, 1)

	// The owning instructor also sees their draft.
	forOwner, err := env.course.ListCourses(owner)
	require.NoError(t, err)
	assert.Len(t, forOwner, 2)

	// Visibility of the draft via direct fetch follows the same rule.
	_, err = env.course.GetCourse(student, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	_, err = env.course.GetCourse(nil, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	got, err := env.course.GetCourse(owner, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestUpdateCoursePartialSemantics(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "Go basics", false)

	published := true
	updated, err := env.course.UpdateCourse(owner, course.ID, UpdateCourseInput{IsPublished: &published})
	require.NoError(t, err)

	assert.True(t, updated.IsPublished)
	assert.Equal(t, "Go basics", updated.Title)
	assert.Equal(t, "about Go basics", updated.Description)
}

func TestLessonDefaultOrderAppends(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "c", true)

	l1 := env.addLesson(t, owner, course.ID, "one")
	l2 := env.addLesson(t, owner, course.ID, "two")
	assert.Equal(t, 1, l1.Order)
	assert.Equal(t, 2, l2.Order)

	// An explicit order is stored verbatim, even when it collides.
	explicit := 2
	l3, err := env.course.AddLesson(owner, course.ID, LessonInput{Title: "three", Order: &explicit})
	require.NoError(t, err)
	assert.Equal(t, 2, l3.Order)
}

func TestDeleteLessonResequencesSurvivors(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "c", true)

	env.addLesson(t, owner, course.ID, "one")
	l2 := env.addLesson(t, owner, course.ID, "two")
	env.addLesson(t, owner, course.ID, "three")

	require.NoError(t, env.course.DeleteLesson(owner, course.ID, l2.ID))

	got, err := env.course.GetCourse(owner, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lessons, 2)
	assert.Equal(t, []string{"one", "three"}, []string{got.Lessons[0].Title, got.Lessons[1].Title})
	assert.Equal(t, 1, got.Lessons[0].Order)
	assert.Equal(t, 2, got.Lessons[1].Order)
}

func TestDeleteBlockResequencesSurvivors(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")

	env.addTextBlock(t, owner, course.ID, lesson.ID, "a")
	b2 := env.addTextBlock(t, owner, course.ID, lesson.ID, "b")
	env.addTextBlock(t, owner, course.ID, lesson.ID, "c")

	require.NoError(t, env.course.DeleteBlock(owner, course.ID, lesson.ID, b2.ID))

	got, err := env.lessons.FindByID(course.ID, lesson.ID)
	require.NoError(t, err)
	require.Len(t, got.ContentBlocks, 2)
	assert.Equal(t, 1, got.ContentBlocks[0].Order)
	assert.Equal(t, 2, got.ContentBlocks[1].Order)
}

func TestUpdateBlockMergesPayload(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")

	block, err := env.course.AddBlock(owner, course.ID, lesson.ID, BlockInput{
		Type: model.BlockCode,
		Payload: map[string]interface{}{
			"code":     "print(1)",
			"language": "python",
		},
	})
	require.NoError(t, err)

	// Order-only update must leave the payload untouched.
	newOrder := 5
	updated, err := env.course.UpdateBlock(owner, course.ID, lesson.ID, block.ID, UpdateBlockInput{Order: &newOrder})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Order)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(updated.Data, &payload))
	assert.Equal(t, "print(1)", payload["code"])
	assert.Equal(t, "python", payload["language"])

	// A payload update merges; untouched keys survive.
	merged, err := env.course.UpdateBlock(owner, course.ID, lesson.ID, block.ID, UpdateBlockInput{
		Payload: map[string]interface{}{"code": "print(2)"},
	})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(merged.Data, &payload))
	assert.Equal(t, "print(2)", payload["code"])
	assert.Equal(t, "python", payload["language"])
}

func TestAddBlockRejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")

	_, err := env.course.AddBlock(owner, course.ID, lesson.ID, BlockInput{
		Type:    model.BlockQuiz,
		Payload: map[string]interface{}{"question": "?"},
	})
	assert.Error(t, err)

	_, err = env.course.AddBlock(owner, course.ID, lesson.ID, BlockInput{
		Type:    model.BlockType("poll"),
		Payload: map[string]interface{}{},
	})
	assert.Error(t, err)
}

func TestNestedMutationTouchesCourse(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	course := env.createCourse(t, owner, "c", true)

	before, err := env.courses.FindRow(course.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	env.addLesson(t, owner, course.ID, "l")

	after, err := env.courses.FindRow(course.ID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestDeleteCourseCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")
	block := env.addTextBlock(t, owner, course.ID, lesson.ID, "a")

	_, err := env.enrollment.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	env.markBlock(t, student, course.ID, lesson.ID, block.ID)

	require.NoError(t, env.course.DeleteCourse(owner, course.ID))

	for _, m := range []interface{}{
		&model.Lesson{}, &model.ContentBlock{}, &model.Enrollment{},
		&model.LessonProgress{}, &model.CompletedBlock{},
	} {
		var count int64
		require.NoError(t, env.db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestCourseEditRequiresPermission(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")
	course := env.createCourse(t, owner, "c", true)

	title := "hijacked"
	_, err := env.course.UpdateCourse(student, course.ID, UpdateCourseInput{Title: &title})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// For an unpublished course the outsider gets not-found, not forbidden.
	draft := env.createCourse(t, owner, "draft", false)
	_, err = env.course.UpdateCourse(student, draft.ID, UpdateCourseInput{Title: &title})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
