package controller

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"codingclass_backend/internal/middleware"
	"codingclass_backend/internal/model"
	"codingclass_backend/internal/service"
	"codingclass_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	maxImageSize = 5 << 20
	maxVideoSize = 500 << 20
)

type UploadController struct {
	StorageService *service.StorageService
	UserService    *service.UserService
}

func NewUploadController(storageService *service.StorageService, userService *service.UserService) *UploadController {
	return &UploadController{StorageService: storageService, UserService: userService}
}

// Thumbnail godoc
// @Summary Upload a course thumbnail
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Image file"
// @Success 201 {object} object{url=string}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/uploads/thumbnail [post]
func (c *UploadController) Thumbnail(ctx *gin.Context) {
	header, err := imageFile(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	url, err := c.store(ctx, header, "thumbnails")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}

// Video godoc
// @Summary Upload a video for a video block
// @Description Stores the file and probes it, so the response can suggest a lesson duration.
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Video file"
// @Success 201 {object} object{url=string,video=util.VideoInfo}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/uploads/video [post]
func (c *UploadController) Video(ctx *gin.Context) {
	header, err := formFile(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".mp4", ".webm", ".mov", ".mkv":
	default:
		util.BadRequest(ctx, "unsupported video format")
		return
	}
	if header.Size > maxVideoSize {
		util.BadRequest(ctx, "video exceeds the 500MB limit")
		return
	}

	// Land the upload in a temp file first so ffprobe can read it before it
	// goes to the storage provider.
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := ctx.SaveUploadedFile(header, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	info, err := util.ProbeVideo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "file is not a readable video")
		return
	}

	filename := uploadName("videos", header.Filename)
	url, err := c.StorageService.UploadFile(ctx.Request.Context(), filename, tmpPath, header.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url, "video": info})
}

// Avatar godoc
// @Summary Upload the caller's avatar
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Image file"
// @Success 200 {object} object{user=model.User}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/users/me/avatar [post]
func (c *UploadController) Avatar(ctx *gin.Context) {
	header, err := imageFile(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	url, err := c.store(ctx, header, "avatars")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.UpdateProfile(middleware.GetUser(ctx), nil, &url)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"user": user})
}

func (c *UploadController) store(ctx *gin.Context, header *multipart.FileHeader, prefix string) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	filename := uploadName(prefix, header.Filename)
	return c.StorageService.Upload(ctx.Request.Context(), filename, file, header.Size, header.Header.Get("Content-Type"))
}

func formFile(ctx *gin.Context) (*multipart.FileHeader, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}
	return header, nil
}

func imageFile(ctx *gin.Context) (*multipart.FileHeader, error) {
	header, err := formFile(ctx)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, fmt.Errorf("unsupported image format")
	}
	if header.Size > maxImageSize {
		return nil, fmt.Errorf("image exceeds the 5MB limit")
	}
	return header, nil
}

func uploadName(prefix, original string) string {
	return prefix + "/" + model.GenerateUUID() + strings.ToLower(filepath.Ext(original))
}
