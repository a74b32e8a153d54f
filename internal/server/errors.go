package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	shippingdomain "github.com/smallbiznis/vitrine/internal/shipping/domain"
	storedomain "github.com/smallbiznis/vitrine/internal/store/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	usagedomain "github.com/smallbiznis/vitrine/internal/usage/domain"
	"github.com/smallbiznis/vitrine/pkg/db/pagination"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// classifyErrorForLog feeds the request logger the same type and code the
// client receives.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pagination.ErrInvalidPageToken):
		return true
	case isStoreValidationError(err),
		isProductValidationError(err),
		isOrderValidationError(err),
		isShippingValidationError(err),
		isPlanValidationError(err),
		isSubscriptionValidationError(err):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, storedomain.ErrInvalidUser),
		errors.Is(err, subscriptiondomain.ErrInvalidUser),
		errors.Is(err, usagedomain.ErrInvalidUser):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, storedomain.ErrStoreExists),
		errors.Is(err, storedomain.ErrSlugTaken),
		errors.Is(err, subscriptiondomain.ErrAlreadySubscribed),
		errors.Is(err, subscriptiondomain.ErrNoActiveSubscription),
		errors.Is(err, orderdomain.ErrAlreadyCancelled),
		errors.Is(err, orderdomain.ErrNotCancellable):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	for _, known := range []error{
		storedomain.ErrStoreExists,
		storedomain.ErrSlugTaken,
		subscriptiondomain.ErrAlreadySubscribed,
		subscriptiondomain.ErrNoActiveSubscription,
		orderdomain.ErrAlreadyCancelled,
		orderdomain.ErrNotCancellable,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "conflict"
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, storedomain.ErrStoreNotFound),
		errors.Is(err, usagedomain.ErrStoreNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, shippingdomain.ErrZoneNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isStoreValidationError(err error) bool {
	switch {
	case errors.Is(err, storedomain.ErrInvalidName),
		errors.Is(err, storedomain.ErrInvalidSlug):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidStore),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidPrice),
		errors.Is(err, productdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isOrderValidationError(err error) bool {
	switch {
	case errors.Is(err, orderdomain.ErrInvalidStore),
		errors.Is(err, orderdomain.ErrInvalidCustomer),
		errors.Is(err, orderdomain.ErrInvalidSubtotal),
		errors.Is(err, orderdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isShippingValidationError(err error) bool {
	switch {
	case errors.Is(err, shippingdomain.ErrInvalidStore),
		errors.Is(err, shippingdomain.ErrInvalidAmount),
		errors.Is(err, shippingdomain.ErrInvalidZoneName),
		errors.Is(err, shippingdomain.ErrInvalidZipCode),
		errors.Is(err, shippingdomain.ErrInvalidZipRange),
		errors.Is(err, shippingdomain.ErrInvalidEstimate),
		errors.Is(err, shippingdomain.ErrInvalidZoneID):
		return true
	default:
		return false
	}
}

func isPlanValidationError(err error) bool {
	switch {
	case errors.Is(err, plandomain.ErrInvalidID),
		errors.Is(err, plandomain.ErrInvalidSlug):
		return true
	default:
		return false
	}
}

func isSubscriptionValidationError(err error) bool {
	return errors.Is(err, subscriptiondomain.ErrPlanInactive)
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "plan_inactive":
		return "plan is not available"
	default:
		return "invalid value"
	}
}
