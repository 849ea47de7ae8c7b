package controller

import (
	"errors"

	"codingclass_backend/internal/middleware"
	"codingclass_backend/internal/model"
	"codingclass_backend/internal/policy"
	"codingclass_backend/internal/service"
	"codingclass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce  json
// @Success 200 {object} object{users=[]model.User}
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.UserService.ListUsers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"users": users})
}

// Get godoc
// @Summary Get one user
// @Tags users
// @Produce  json
// @Param   id path string true "User id"
// @Success 200 {object} object{user=model.User}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	user, err := c.UserService.GetUser(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole godoc
// @Summary Change a user's role
// @Description Moves a user between student and admin. The owner role only moves through ownership transfer.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User id"
// @Param   body body ChangeRoleRequest true "New role"
// @Success 200 {object} object{user=model.User}
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users/{id}/role [patch]
func (c *UserController) ChangeRole(ctx *gin.Context) {
	var req ChangeRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	actor := middleware.GetUser(ctx)
	user, err := c.UserService.ChangeRole(actor, ctx.Param("id"), model.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrRoleInvalid):
			util.BadRequest(ctx, "Invalid role")
		case errors.Is(err, policy.ErrOwnerRoleImmutable), errors.Is(err, policy.ErrAdminPromotion):
			util.Forbidden(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

// TransferOwnership godoc
// @Summary Transfer platform ownership
// @Description Atomically demotes the current owner to admin and promotes the target to owner.
// @Tags users
// @Produce  json
// @Param   id path string true "Target user id"
// @Success 200 {object} object{user=model.User}
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users/{id}/transfer-ownership [post]
func (c *UserController) TransferOwnership(ctx *gin.Context) {
	actor := middleware.GetUser(ctx)
	user, err := c.UserService.TransferOwnership(actor, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrTransferNotOwner):
			util.Forbidden(ctx, err.Error())
		case errors.Is(err, policy.ErrTransferToSelf):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce  json
// @Param   id path string true "User id"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	actor := middleware.GetUser(ctx)
	err := c.UserService.DeleteUser(actor, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrDeleteOwner),
			errors.Is(err, policy.ErrDeleteSelf),
			errors.Is(err, policy.ErrDeleteAdmin):
			util.Forbidden(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

type InstructorToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetInstructor godoc
// @Summary Toggle own instructor mode
// @Tags users
// @Accept  json
// @Produce  json
// @Param   body body InstructorToggleRequest true "Enabled flag"
// @Success 200 {object} object{user=model.User}
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users/me/instructor [patch]
func (c *UserController) SetInstructor(ctx *gin.Context) {
	var req InstructorToggleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetInstructorEnabled(middleware.GetUser(ctx), *req.Enabled)
	if err != nil {
		if errors.Is(err, policy.ErrInstructorLocked) {
			util.Forbidden(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

type InstructorLockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// SetInstructorLock godoc
// @Summary Lock or unlock a user's instructor access
// @Description Locking also forces instructor mode off in the same update.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User id"
// @Param   body body InstructorLockRequest true "Locked flag"
// @Success 200 {object} object{user=model.User}
// @Failure 403 {object} util.ErrorResponse
// @Router /api/users/{id}/instructor-lock [patch]
func (c *UserController) SetInstructorLock(ctx *gin.Context) {
	var req InstructorLockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	actor := middleware.GetUser(ctx)
	user, err := c.UserService.SetInstructorLock(actor, ctx.Param("id"), *req.Locked)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrLockPrivileged):
			util.Forbidden(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "User not found")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept  json
// @Produce  json
// @Param   body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} object{user=model.User}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/users/me/profile [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(middleware.GetUser(ctx), req.Name, req.Avatar)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"user": user})
}
