package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a message safe to show.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a raw error into a code and user facing message.
// Database internals stay hidden; the message tells the user what they can
// actually do about it.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong, please try again later",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM sentinel errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. Network errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Could not reach a dependent service, please try again later",
		}
	}

	// 4. Default internal error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "username") || strings.Contains(errLower, "idx_merchants_username") {
		return ErrorInfo{
			Code:    RegUsernameExists,
			Message: "Username already exists",
		}
	}
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_merchants_email") {
		return ErrorInfo{
			Code:    RegEmailExists,
			Message: "Email already exists",
		}
	}
	if strings.Contains(errLower, "phone") || strings.Contains(errLower, "idx_merchants_phone") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Phone number is already registered",
		}
	}
	if strings.Contains(errLower, "slot_key") || strings.Contains(errLower, "idx_merchant_slot") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A document for this slot already exists",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "business_category") {
		return ErrorInfo{
			Code:    CatalogCategoryNotFound,
			Message: "Business category not found",
		}
	}
	if strings.Contains(errLower, "business_type") {
		return ErrorInfo{
			Code:    CatalogTypeNotFound,
			Message: "Business type not found",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidID,
		Message: "A referenced record does not exist",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "username") {
		return ErrorInfo{Code: ValidationRequired, Message: "Username is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "business_name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Business name is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "merchant") {
		return "Merchant not found"
	}
	if strings.Contains(contextLower, "session") || strings.Contains(contextLower, "registration") {
		return "Registration session not found or expired"
	}
	if strings.Contains(contextLower, "category") {
		return "Business category not found"
	}
	if strings.Contains(contextLower, "type") {
		return "Business type not found"
	}
	if strings.Contains(contextLower, "document") {
		return "Document not found"
	}

	return "The requested record was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "register") {
		return "Registration failed, please try again later"
	}
	if strings.Contains(contextLower, "upload") {
		return "Upload failed, please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Update failed, please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Delete failed, please try again later"
	}

	return "Something went wrong, please try again later"
}

// ParseAndRespond parses an error and writes the envelope in one call.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
