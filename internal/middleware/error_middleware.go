package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selimd/campuslink/internal/app/models/dto"
	"github.com/selimd/campuslink/internal/pkg/apperrors"
)

// errorMapping ties an application sentinel to its HTTP representation
type errorMapping struct {
	sentinel error
	status   int
	code     dto.ErrorCode
	message  string
}

// Ordering matters for wrapped errors: the most specific sentinels come
// first so e.g. ErrEventNotFound is reported before ErrResourceNotFound.
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},

	{apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeAlreadyRegistered, "Already registered for this event"},
	{apperrors.ErrAlreadyMember, http.StatusConflict, dto.ErrorCodeAlreadyMember, "Already a member of a team for this event"},
	{apperrors.ErrDeadlinePassed, http.StatusConflict, dto.ErrorCodeDeadlinePassed, "Registration deadline has passed"},
	{apperrors.ErrTeamSizeOutOfRange, http.StatusBadRequest, dto.ErrorCodeTeamSizeOutOfRange, "Team size outside the allowed range"},
	{apperrors.ErrInvitationExpired, http.StatusConflict, dto.ErrorCodeInvitationExpired, "Invitation has expired"},
	{apperrors.ErrAlreadyResponded, http.StatusConflict, dto.ErrorCodeAlreadyResponded, "Already responded"},
	{apperrors.ErrNotTeamMember, http.StatusConflict, dto.ErrorCodeNotTeamMember, "Not a member of this team"},
	{apperrors.ErrPendingJoinRequest, http.StatusConflict, dto.ErrorCodeConflict, "A pending join request already exists"},

	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrEventNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrUsernameAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already taken"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},

	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrInvalidFormat, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Invalid format"},
}

// HandleAPIError translates an application error into an HTTP error response
func HandleAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := dto.ErrorCodeInternalServer
	message := "Internal server error"

	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			status = m.status
			code = m.code
			message = m.message
			break
		}
	}

	// Prefer the specific message carried by a CustomError
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		message = ce.Message
	}

	errorDetail := dto.NewErrorDetail(code, message)
	if ce != nil && ce.Details != nil {
		errorDetail = errorDetail.WithDetails(ce.Details)
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

// HandleValidationError reports a request binding failure
func HandleValidationError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
	errorDetail = errorDetail.WithDetails(err.Error())
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
