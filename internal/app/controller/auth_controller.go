package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	apperrors "github.com/ikkim/kidsshop-backend/internal/errors"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
	"github.com/ikkim/kidsshop-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
	cartService service.CartService
	sessions    *middleware.SessionMiddleware
}

func NewAuthController(
	authService service.AuthService,
	cartService service.CartService,
	sessions *middleware.SessionMiddleware,
) *AuthController {
	return &AuthController{
		authService: authService,
		cartService: cartService,
		sessions:    sessions,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"max=20"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address"`
}

type AuthResponse struct {
	User   ProfileResponse `json:"user"`
	Tokens *util.TokenPair `json:"tokens"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email, password and name are required")
		return
	}

	user, tokens, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondServiceError(c, err, "Register")
		return
	}

	ctrl.mergeGuestCart(c, user.ID)

	c.JSON(http.StatusCreated, AuthResponse{
		User:   newProfileResponse(user),
		Tokens: tokens,
	})
}

// Login authenticates by email and password and folds the guest cart in
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	user, tokens, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Login")
		return
	}

	ctrl.mergeGuestCart(c, user.ID)

	c.JSON(http.StatusOK, AuthResponse{
		User:   newProfileResponse(user),
		Tokens: tokens,
	})
}

// mergeGuestCart merges the request's anonymous cart into the user's cart.
// A failed merge leaves the guest cart in place and never fails the login.
func (ctrl *AuthController) mergeGuestCart(c *gin.Context, userID uint) {
	token := middleware.GetSessionToken(c)
	if token == "" {
		return
	}

	log := middleware.GetLoggerFromContext(c)
	if _, err := ctrl.cartService.MergeOnLogin(c.Request.Context(), token, userID); err != nil {
		log.Error("Failed to merge guest cart on login", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}
	ctrl.sessions.Clear(c)
}

// GetMe returns the current user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": newProfileResponse(user),
	})
}

// UpdateMe edits name, phone and address of the current user
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update profile request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondServiceError(c, err, "Update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": newProfileResponse(user),
	})
}
