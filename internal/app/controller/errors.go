package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	apperrors "github.com/ikkim/kidsshop-backend/internal/errors"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
	"github.com/ikkim/kidsshop-backend/pkg/util"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// serviceErrors maps service sentinels to HTTP replies.
var serviceErrors = []errorMapping{
	{service.ErrUnauthorized, http.StatusUnauthorized, apperrors.AuthUnauthorized, "Authentication required"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"},
	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "Email is already registered"},
	{util.ErrPasswordTooShort, http.StatusBadRequest, apperrors.ValidationTooShort, "Password must be at least 8 characters"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "User not found"},

	{service.ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound, "Product not found"},
	{service.ErrCategoryNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "Category not found"},
	{service.ErrStockUnitNotFound, http.StatusNotFound, apperrors.StockUnitNotFound, "Stock unit not found"},

	{service.ErrCartNotFound, http.StatusNotFound, apperrors.CartNotFound, "Cart not found"},
	{service.ErrCartItemNotFound, http.StatusNotFound, apperrors.CartItemNotFound, "Cart item not found"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, apperrors.CartInvalidQuantity, "Quantity must be a positive integer"},
	{service.ErrInsufficientStock, http.StatusConflict, apperrors.CartInsufficientStock, "Not enough stock for the requested quantity"},

	{service.ErrNoCart, http.StatusBadRequest, apperrors.CartNoCart, "There is no cart to check out"},
	{service.ErrEmptyCart, http.StatusBadRequest, apperrors.CartEmpty, "Cart is empty"},
	{service.ErrInvalidShippingInfo, http.StatusBadRequest, apperrors.ValidationRequired, "Full name, email and address are required"},
	{service.ErrOrderNotFound, http.StatusNotFound, apperrors.OrderNotFound, "Order not found"},
	{model.ErrInvalidOrderStatus, http.StatusBadRequest, apperrors.OrderInvalidStatus, "Unknown order status"},
	{service.ErrInvalidStatusTransition, http.StatusConflict, apperrors.OrderInvalidStatusTransition, "Order status transition not allowed"},
}

// respondServiceError writes the reply for an error returned by a service.
// context names the operation for logs and storage error messages.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			log.Warn(context+" rejected", map[string]interface{}{
				"error": err.Error(),
				"code":  m.code,
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	log.Error(context+" failed", err)
	if errors.Is(err, service.ErrStorageFailure) {
		info := apperrors.ParseError(err, context)
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}
	apperrors.InternalError(c, "")
}

// parseIDParam reads a positive numeric path parameter, replying 400 otherwise.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
