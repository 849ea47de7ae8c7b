package service

import (
	"testing"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	draft := env.createCourse(t, owner, "draft", false)
	_, err := env.enrollment.Enroll(student.ID, draft.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	course := env.createCourse(t, owner, "live", true)
	enrollment, err := env.enrollment.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, enrollment.CourseID)

	_, err = env.enrollment.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestMarkBlockCompletedAutoEnrolls(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	// Auto-enroll only needs the course to exist, not to be published.
	course := env.createCourse(t, owner, "draft", false)
	lesson := env.addLesson(t, owner, course.ID, "l")
	block := env.addTextBlock(t, owner, course.ID, lesson.ID, "a")

	// The returned view already reflects the new enrollment and progress.
	view := env.markBlock(t, student, course.ID, lesson.ID, block.ID)
	require.Len(t, view.Lessons, 1)
	assert.NotNil(t, view.Lessons[0].StartedAt)
	assert.Equal(t, []string{block.ID}, view.Lessons[0].CompletedBlocks)

	enrolled, _, err := env.enrollment.GetEnrollment(student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestMarkBlockCompletedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")
	block := env.addTextBlock(t, owner, course.ID, lesson.ID, "a")
	env.addTextBlock(t, owner, course.ID, lesson.ID, "b")

	env.markBlock(t, student, course.ID, lesson.ID, block.ID)
	env.markBlock(t, student, course.ID, lesson.ID, block.ID)

	var count int64
	require.NoError(t, env.db.Model(&model.CompletedBlock{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkBlockCompletedValidatesHierarchy(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")
	env.addTextBlock(t, owner, course.ID, lesson.ID, "a")

	_, err := env.enrollment.MarkBlockCompleted(student.ID, "missing", lesson.ID, "x")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
	_, err = env.enrollment.MarkBlockCompleted(student.ID, course.ID, "missing", "x")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
	_, err = env.enrollment.MarkBlockCompleted(student.ID, course.ID, lesson.ID, "missing")
	assert.ErrorIs(t, err, util.ErrBlockNotFound)
}

func TestLessonAndCourseCompletionDerivation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")
	b1 := env.addTextBlock(t, owner, course.ID, lesson.ID, "a")
	b2 := env.addTextBlock(t, owner, course.ID, lesson.ID, "b")

	view := env.markBlock(t, student, course.ID, lesson.ID, b1.ID)
	assert.False(t, view.Lessons[0].Completed)
	assert.Nil(t, view.CompletedAt)

	view = env.markBlock(t, student, course.ID, lesson.ID, b2.ID)
	assert.True(t, view.Lessons[0].Completed)
	assert.NotNil(t, view.Lessons[0].CompletedAt)
	assert.NotNil(t, view.CompletedAt)
}

func TestCompletionPercent(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	course := env.createCourse(t, owner, "c", true)
	lesson := env.addLesson(t, owner, course.ID, "l")
	blocks := make([]*model.ContentBlock, 4)
	for i, name := range []string{"a", "b", "c", "d"} {
		blocks[i] = env.addTextBlock(t, owner, course.ID, lesson.ID, name)
	}

	// Not enrolled yet: 0, not an error.
	percent, err := env.enrollment.CompletionPercent(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, percent)

	env.markBlock(t, student, course.ID, lesson.ID, blocks[0].ID)
	percent, err = env.enrollment.CompletionPercent(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, percent)

	for _, b := range blocks[1:] {
		env.markBlock(t, student, course.ID, lesson.ID, b.ID)
	}
	percent, err = env.enrollment.CompletionPercent(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, percent)
}

func TestCompletionPercentUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	student := env.signup(t, "student")

	// A courseId that matches nothing behaves like a missing enrollment.
	percent, err := env.enrollment.CompletionPercent(student.ID, "no-such-course")
	require.NoError(t, err)
	assert.Equal(t, 0, percent)
}

func TestCompletionPercentZeroBlockCourse(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	course := env.createCourse(t, owner, "empty", true)
	_, err := env.enrollment.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	percent, err := env.enrollment.CompletionPercent(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, percent)
}

func TestGetEnrollmentWhenNotEnrolled(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")
	course := env.createCourse(t, owner, "c", true)

	enrolled, view, err := env.enrollment.GetEnrollment(student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
	assert.Nil(t, view)
}

func TestListEnrollments(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup(t, "owner")
	student := env.signup(t, "student")

	c1 := env.createCourse(t, owner, "one", true)
	c2 := env.createCourse(t, owner, "two", true)

	_, err := env.enrollment.Enroll(student.ID, c1.ID)
	require.NoError(t, err)
	_, err = env.enrollment.Enroll(student.ID, c2.ID)
	require.NoError(t, err)

	views, err := env.enrollment.ListEnrollments(student.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
