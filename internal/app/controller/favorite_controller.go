package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	apperrors "github.com/ikkim/kidsshop-backend/internal/errors"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

type ToggleFavoriteRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetFavorites returns user's favorite products
// GET /api/v1/favorites
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	favorites, err := ctrl.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "List favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

// ToggleFavorite adds the product to favorites or removes it when already there.
// Replies 201 when added and 200 when removed.
// POST /api/v1/favorites/toggle
func (ctrl *FavoriteController) ToggleFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid toggle favorite request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	added, err := ctrl.favoriteService.Toggle(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		respondServiceError(c, err, "Toggle favorite")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"product_id": req.ProductID,
		"favorite":   added,
	})
}
