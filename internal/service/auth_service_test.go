package service

import (
	"testing"
	"time"

	"codingclass_backend/internal/model"
	"codingclass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupFirstUserBecomesOwner(t *testing.T) {
	env := newTestEnv(t)

	first := env.signup(t, "alice")
	assert.Equal(t, model.RoleOwner, first.Role)
	assert.True(t, first.InstructorEnabled)

	second := env.signup(t, "bob")
	assert.Equal(t, model.RoleStudent, second.Role)
	assert.False(t, second.InstructorEnabled)
	assert.False(t, second.InstructorLocked)
}

func TestSignupUsernameUniqueCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Alice")

	_, _, err := env.auth.Signup(SignupInput{Username: "alice", Password: "secret123", Name: "a"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestLoginDoesNotRevealWhichPartFailed(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice")

	_, _, wrongPassword := env.auth.Login(LoginInput{Username: "alice", Password: "nope12345"})
	_, _, unknownUser := env.auth.Login(LoginInput{Username: "nobody", Password: "secret123"})

	assert.ErrorIs(t, wrongPassword, util.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, util.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginIsCaseInsensitiveOnUsername(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Alice")

	user, session, err := env.auth.Login(LoginInput{Username: "ALICE", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
	assert.NotEmpty(t, session.Token)
}

func TestAuthenticateRejectsExpiredSessions(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "alice")

	session := &model.Session{
		Token:     model.GenerateUUID(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, env.sessions.Create(session))

	_, err := env.auth.Authenticate(session.Token)
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice")

	_, session, err := env.auth.Login(LoginInput{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	_, err = env.auth.Authenticate(session.Token)
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(session.Token))

	_, err = env.auth.Authenticate(session.Token)
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestDeleteExpiredSweepsOnlyDeadSessions(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t, "alice")

	dead := &model.Session{Token: model.GenerateUUID(), UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, env.sessions.Create(dead))

	// Signup created one live session.
	n, err := env.sessions.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int64
	require.NoError(t, env.db.Model(&model.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
