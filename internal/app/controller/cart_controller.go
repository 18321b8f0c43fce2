package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	apperrors "github.com/ikkim/kidsshop-backend/internal/errors"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
	sessions    *middleware.SessionMiddleware
}

func NewCartController(cartService service.CartService, sessions *middleware.SessionMiddleware) *CartController {
	return &CartController{
		cartService: cartService,
		sessions:    sessions,
	}
}

type AddCartItemRequest struct {
	ProductStockID uint `json:"product_stock_id" binding:"required"`
	Quantity       int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// resolveCart finds the caller's cart and hands a freshly minted session
// token back to anonymous callers.
func (ctrl *CartController) resolveCart(c *gin.Context) (*model.Cart, bool) {
	cart, err := ctrl.cartService.ResolveCart(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondServiceError(c, err, "Resolve cart")
		return nil, false
	}
	if cart.SessionToken != nil {
		ctrl.sessions.Issue(c, *cart.SessionToken)
	}
	return cart, true
}

func (ctrl *CartController) respondCart(c *gin.Context, status int, cartID uint) {
	cart, err := ctrl.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		respondServiceError(c, err, "Fetch cart")
		return
	}
	c.JSON(status, newCartResponse(cart))
}

// GetCart returns the caller's cart, creating it on first use
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, ok := ctrl.resolveCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// AddItem adds a stock unit to the cart or increases its line
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_stock_id and quantity are required")
		return
	}
	// Rejected before resolving so a bad request never mints a guest session.
	if req.Quantity <= 0 {
		respondServiceError(c, service.ErrInvalidQuantity, "Add cart item")
		return
	}

	cart, ok := ctrl.resolveCart(c)
	if !ok {
		return
	}

	if _, err := ctrl.cartService.AddItem(c.Request.Context(), cart.ID, req.ProductStockID, req.Quantity); err != nil {
		respondServiceError(c, err, "Add cart item")
		return
	}

	ctrl.respondCart(c, http.StatusCreated, cart.ID)
}

// UpdateItem sets a line quantity; zero removes the line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart item request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "quantity is required")
		return
	}

	cart, ok := ctrl.resolveCart(c)
	if !ok {
		return
	}

	if _, _, err := ctrl.cartService.UpdateItem(c.Request.Context(), cart.ID, itemID, *req.Quantity); err != nil {
		respondServiceError(c, err, "Update cart item")
		return
	}

	ctrl.respondCart(c, http.StatusOK, cart.ID)
}

// RemoveItem deletes a line from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, ok := ctrl.resolveCart(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(c.Request.Context(), cart.ID, itemID); err != nil {
		respondServiceError(c, err, "Remove cart item")
		return
	}

	ctrl.respondCart(c, http.StatusOK, cart.ID)
}

// ClearCart removes every line; the cart itself stays
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	cart, ok := ctrl.resolveCart(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(c.Request.Context(), cart.ID); err != nil {
		respondServiceError(c, err, "Clear cart")
		return
	}

	ctrl.respondCart(c, http.StatusOK, cart.ID)
}

// MergeCart folds the request's anonymous cart into the user's cart
// POST /api/v1/cart/merge
func (ctrl *CartController) MergeCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		respondServiceError(c, service.ErrUnauthorized, "Merge cart")
		return
	}

	token := middleware.GetSessionToken(c)
	cart, err := ctrl.cartService.MergeOnLogin(c.Request.Context(), token, userID)
	if err != nil {
		respondServiceError(c, err, "Merge cart")
		return
	}
	if token != "" {
		ctrl.sessions.Clear(c)
	}

	c.JSON(http.StatusOK, newCartResponse(cart))
}
