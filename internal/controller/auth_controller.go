package controller

import (
	"errors"

	"codingclass_backend/internal/config"
	"codingclass_backend/internal/middleware"
	"codingclass_backend/internal/service"
	"codingclass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Session     *config.SessionConfig
}

func NewAuthController(authService *service.AuthService, session *config.SessionConfig) *AuthController {
	return &AuthController{AuthService: authService, Session: session}
}

// Signup godoc
// @Summary Register a new account
// @Description Creates an account and starts a session. The first account ever created becomes the owner.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.SignupInput true "Signup payload"
// @Success 201 {object} object{user=model.User}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var input service.SignupInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, session, err := c.AuthService.Signup(input)
	if err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			util.BadRequest(ctx, "Username already taken")
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	c.setSessionCookie(ctx, session.Token)
	util.Created(ctx, gin.H{"user": user})
}

// Login godoc
// @Summary Log in
// @Description Checks credentials and starts a session. Failures never reveal whether the username exists.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "Login payload"
// @Success 200 {object} object{user=model.User}
// @Failure 401 {object} util.ErrorResponse
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var input service.LoginInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, session, err := c.AuthService.Login(input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Error(ctx, 401, "Invalid username or password")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	c.setSessionCookie(ctx, session.Token)
	util.Success(ctx, gin.H{"user": user})
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current session and clears the cookie.
// @Tags auth
// @Produce  json
// @Success 200 {object} object{success=bool}
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := middleware.ExtractToken(ctx, c.Session.CookieName); token != "" {
		if err := c.AuthService.Logout(token); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	ctx.SetCookie(c.Session.CookieName, "", -1, "/", "", c.Session.CookieSecure, true)
	util.Success(ctx, gin.H{"success": true})
}

// Me godoc
// @Summary Current user
// @Description Returns the authenticated user, or null when no valid session is present.
// @Tags auth
// @Produce  json
// @Success 200 {object} object{user=model.User}
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := middleware.GetUser(ctx)
	if user == nil {
		util.Success(ctx, gin.H{"user": nil})
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, token string) {
	maxAge := int(c.Session.TTL.Seconds())
	ctx.SetCookie(c.Session.CookieName, token, maxAge, "/", "", c.Session.CookieSecure, true)
}
