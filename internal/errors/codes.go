package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map on the code, not the message.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== AUTHZ_ ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationTooShort     = "VALIDATION_TOO_SHORT"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== PRODUCT_ ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	StockUnitNotFound = "STOCK_UNIT_NOT_FOUND"

	// ==================== CART_ ====================
	CartNotFound          = "CART_NOT_FOUND"
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"
	CartNoCart            = "CART_NO_CART"  // checkout without a cart
	CartEmpty             = "CART_EMPTY"    // checkout with no lines
	CartInvalidQuantity   = "CART_INVALID_QUANTITY"
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"

	// ==================== ORDER_ ====================
	OrderNotFound                = "ORDER_NOT_FOUND"
	OrderInvalidStatus           = "ORDER_INVALID_STATUS"
	OrderInvalidStatusTransition = "ORDER_INVALID_STATUS_TRANSITION"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalSessionError  = "INTERNAL_SESSION_ERROR" // session store unreachable
)
