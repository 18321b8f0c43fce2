package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a raw storage error to a code and a safe message.
// Driver details never reach the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint"):
		return parseDuplicateKeyError(errLower)
	case strings.Contains(errLower, "foreign key constraint"):
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced resource does not exist"}
	case strings.Contains(errLower, "check constraint"):
		return parseCheckConstraintError(errLower)
	case strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "timeout"):
		return ErrorInfo{Code: InternalDatabaseError, Message: "Storage is temporarily unavailable, please retry"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	}
	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "article") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Product already exists"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func parseCheckConstraintError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "quantity") {
		return ErrorInfo{Code: CartInvalidQuantity, Message: "Quantity is out of range"}
	}
	return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "cart"):
		return "Cart not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "Requested resource not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Failed to create resource, please retry"
	case strings.Contains(contextLower, "update"):
		return "Failed to update resource, please retry"
	case strings.Contains(contextLower, "delete"):
		return "Failed to delete resource, please retry"
	}
	return "Internal server error, please retry"
}
