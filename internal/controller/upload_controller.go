package controller

import (
	"errors"

	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

const maxImageSize = 5 << 20 // 5 MB

// UploadOptionImage godoc
// @Summary Upload an option image
// @Description Stores an image for use in question options and returns its URL
// @Tags uploads
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "Image file, max 5 MB"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "Missing, oversized or unsupported file"
// @Router /api/uploads/options [post]
func (c *UploadController) UploadOptionImage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if header.Size > maxImageSize {
		util.BadRequest(ctx, "file exceeds the 5 MB limit")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	url, err := c.StorageService.UploadImage(ctx.Request.Context(), header.Filename, file, header.Size, contentType)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
