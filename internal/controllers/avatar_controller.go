package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskly-be/internal/middleware"
	"taskly-be/internal/service"
)

var allowedAvatarExtensions = []string{".jpg", ".jpeg", ".png"}

type AvatarController struct {
	userService service.UserService
	maxBytes    int64
}

func NewAvatarController(userService service.UserService, maxBytes int64) *AvatarController {
	return &AvatarController{
		userService: userService,
		maxBytes:    maxBytes,
	}
}

// Upload handles POST /users/me/avatar - accepts a JPG/JPEG/PNG upload in
// the "avatar" form field, normalizes it, and stores it on the user record
func (ac *AvatarController) Upload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}
	if fileHeader.Size > ac.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is too large"})
		return
	}
	if !hasAllowedExtension(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a JPG, JPEG or PNG file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, ac.maxBytes))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := ac.userService.SetAvatar(c.Request.Context(), user.ID, raw); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Delete handles DELETE /users/me/avatar
func (ac *AvatarController) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := ac.userService.ClearAvatar(c.Request.Context(), user.ID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Get handles GET /users/:id/avatar - serves the normalized PNG
func (ac *AvatarController) Get(c *gin.Context) {
	avatar, err := ac.userService.GetAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", avatar)
}

func hasAllowedExtension(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range allowedAvatarExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
