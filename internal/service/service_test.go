package service

import (
	"fmt"
	"testing"
	"time"

	"codingclass_backend/internal/config"
	"codingclass_backend/internal/model"
	"codingclass_backend/internal/repository"
	"codingclass_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database.
type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	sessions    *repository.SessionRepository
	courses     *repository.CourseRepository
	lessons     *repository.LessonRepository
	blocks      *repository.ContentBlockRepository
	enrollments *repository.EnrollmentRepository

	auth       *AuthService
	user       *UserService
	course     *CourseService
	enrollment *EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		sessions:    repository.NewSessionRepository(db),
		courses:     repository.NewCourseRepository(db),
		lessons:     repository.NewLessonRepository(db),
		blocks:      repository.NewContentBlockRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
	}

	sessionCfg := &config.SessionConfig{TTL: time.Hour}
	env.auth = NewAuthService(env.users, env.sessions, sessionCfg)
	env.user = NewUserService(env.users, env.sessions)
	env.course = NewCourseService(env.courses, env.lessons, env.blocks)
	env.enrollment = NewEnrollmentService(db, env.enrollments, env.courses, env.lessons, env.blocks)
	return env
}

// signup registers an account through the real signup path, so the first call
// in a test yields the owner.
func (env *testEnv) signup(t *testing.T, username string) *model.User {
	t.Helper()
	user, _, err := env.auth.Signup(SignupInput{
		Username: username,
		Password: "secret123",
		Name:     username,
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) createCourse(t *testing.T, instructor *model.User, title string, published bool) *model.Course {
	t.Helper()
	course, err := env.course.CreateCourse(instructor, CreateCourseInput{
		Title:       title,
		Description: "about " + title,
		IsPublished: published,
	})
	require.NoError(t, err)
	return course
}

func (env *testEnv) addLesson(t *testing.T, instructor *model.User, courseID, title string) *model.Lesson {
	t.Helper()
	lesson, err := env.course.AddLesson(instructor, courseID, LessonInput{Title: title})
	require.NoError(t, err)
	return lesson
}

func (env *testEnv) addTextBlock(t *testing.T, instructor *model.User, courseID, lessonID, content string) *model.ContentBlock {
	t.Helper()
	block, err := env.course.AddBlock(instructor, courseID, lessonID, BlockInput{
		Type:    model.BlockText,
		Payload: map[string]interface{}{"content": content},
	})
	require.NoError(t, err)
	return block
}

func (env *testEnv) markBlock(t *testing.T, student *model.User, courseID, lessonID, blockID string) *EnrollmentView {
	t.Helper()
	view, err := env.enrollment.MarkBlockCompleted(student.ID, courseID, lessonID, blockID)
	require.NoError(t, err)
	return view
}
