package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskly-be/internal/middleware"
	"taskly-be/internal/models"
	"taskly-be/internal/service"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Signup handles POST /users
func (uc *UserController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := uc.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /users/login
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles POST /users/logout - revokes only the token this request
// authenticated with, leaving other sessions valid
func (uc *UserController) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	token, ok := middleware.CurrentToken(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := uc.userService.Logout(c.Request.Context(), user.ID, token); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll - revokes every session token
func (uc *UserController) LogoutAll(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := uc.userService.LogoutAll(c.Request.Context(), user.ID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetMe handles GET /users/me
func (uc *UserController) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByID handles GET /users/:id - public profile lookup
func (uc *UserController) GetByID(c *gin.Context) {
	user, err := uc.userService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /users/me - allow-listed partial profile update
func (uc *UserController) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	upd, err := models.ParseUserUpdate(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := uc.userService.UpdateProfile(c.Request.Context(), user, upd)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteMe handles DELETE /users/me - removes the account and all owned
// tasks together
func (uc *UserController) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := uc.userService.DeleteAccount(c.Request.Context(), user); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
