package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeTooManyRequests ErrorType = "TOO_MANY_REQUESTS"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrCodeOutOfRange       ErrorCode = "OUT_OF_RANGE"
	ErrCodeInvalidEnum      ErrorCode = "INVALID_ENUM"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"

	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked        ErrorCode = "TOKEN_REVOKED"
	ErrCodeInsufficientRole    ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound        ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeRoleAlreadyAssigned ErrorCode = "ROLE_ALREADY_ASSIGNED"
	ErrCodeRoleNotAssigned     ErrorCode = "ROLE_NOT_ASSIGNED"
	ErrCodeUsernameTaken       ErrorCode = "USERNAME_TAKEN"
	ErrCodeEmailTaken          ErrorCode = "EMAIL_TAKEN"
	ErrCodeInvalidResetToken   ErrorCode = "INVALID_RESET_TOKEN"

	ErrCodeWorkOrderNotFound        ErrorCode = "WORK_ORDER_NOT_FOUND"
	ErrCodeDuplicateWorkOrderNumber ErrorCode = "DUPLICATE_WORK_ORDER_NUMBER"
	ErrCodeInvalidWorkOrderStatus   ErrorCode = "INVALID_WORK_ORDER_STATUS"
	ErrCodeWorkOrderLocked          ErrorCode = "WORK_ORDER_LOCKED"
	ErrCodeWorkOrderHasHistory      ErrorCode = "WORK_ORDER_HAS_HISTORY"
	ErrCodeNumberGenerationFailed   ErrorCode = "NUMBER_GENERATION_FAILED"

	ErrCodeWorkflowNotFound      ErrorCode = "WORKFLOW_NOT_FOUND"
	ErrCodeStepNotFound          ErrorCode = "STEP_NOT_FOUND"
	ErrCodeNoWorkflowAttached    ErrorCode = "NO_WORKFLOW_ATTACHED"
	ErrCodeHistoryNotFound       ErrorCode = "HISTORY_NOT_FOUND"
	ErrCodeHistoryClosed         ErrorCode = "HISTORY_CLOSED"
	ErrCodeDuplicateWorkflowStep ErrorCode = "DUPLICATE_WORKFLOW_STEP"

	ErrCodeEquipmentNotFound     ErrorCode = "EQUIPMENT_NOT_FOUND"
	ErrCodeDuplicateReference    ErrorCode = "DUPLICATE_EQUIPMENT_REFERENCE"
	ErrCodeEquipmentInUse        ErrorCode = "EQUIPMENT_IN_USE"
	ErrCodeOrganNotFound         ErrorCode = "ORGAN_NOT_FOUND"
	ErrCodeOrganInUse            ErrorCode = "ORGAN_IN_USE"
	ErrCodeEmployeeNotFound      ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeEmployeeInUse         ErrorCode = "EMPLOYEE_IN_USE"
	ErrCodeTeamNotFound          ErrorCode = "TEAM_NOT_FOUND"
	ErrCodeDuplicateTeam         ErrorCode = "DUPLICATE_TEAM_NAME"
	ErrCodeAlreadyTeamMember     ErrorCode = "ALREADY_TEAM_MEMBER"
	ErrCodeNotTeamMember         ErrorCode = "NOT_TEAM_MEMBER"
	ErrCodeCompetenceNotFound    ErrorCode = "COMPETENCE_NOT_FOUND"
	ErrCodeDuplicateCompetence   ErrorCode = "DUPLICATE_COMPETENCE_NAME"
	ErrCodeCompetenceAssigned    ErrorCode = "COMPETENCE_ALREADY_ASSIGNED"
	ErrCodeCompetenceNotAssigned ErrorCode = "COMPETENCE_NOT_ASSIGNED"
	ErrCodeInterventionNotFound  ErrorCode = "INTERVENTION_REQUEST_NOT_FOUND"
	ErrCodeInterventionClosed    ErrorCode = "INTERVENTION_REQUEST_CLOSED"
	ErrCodeInterventionHasOrders ErrorCode = "INTERVENTION_REQUEST_HAS_WORK_ORDERS"
	ErrCodeNotOwner              ErrorCode = "NOT_RESOURCE_OWNER"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// FieldMessages flattens validation details into the plain message list
// carried by the response envelope.
func (e *AppError) FieldMessages() []string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return messages
	}
	return nil
}

func (e *AppError) GetDetailedMessage() string {
	if messages := e.FieldMessages(); len(messages) > 0 {
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so that sentinel errors keep working after
// WithCause/WithDetails produced a copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause returns a copy; sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConflictError answers 400 like other rejected input. The CONFLICT type
// and the error code tell the two apart.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeTooManyRequests,
		Code:       ErrCodeRateLimited,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrTokenRevoked       = NewUnauthorizedError("Token has been revoked", ErrCodeTokenRevoked)
	ErrInsufficientRole   = NewForbiddenError("Insufficient role for this operation", ErrCodeInsufficientRole)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrRoleNotFound       = NewNotFoundError("Role not found", ErrCodeRoleNotFound)
	ErrRoleAssigned       = NewConflictError("Role already assigned to user", ErrCodeRoleAlreadyAssigned)
	ErrRoleNotAssigned    = NewConflictError("Role is not assigned to user", ErrCodeRoleNotAssigned)
	ErrUsernameTaken      = NewConflictError("Username already exists", ErrCodeUsernameTaken)
	ErrEmailTaken         = NewConflictError("Email address already in use", ErrCodeEmailTaken)
	ErrInvalidResetToken  = NewValidationError("Invalid or expired reset token", ErrCodeInvalidResetToken)

	ErrWorkOrderNotFound      = NewNotFoundError("Work order not found", ErrCodeWorkOrderNotFound)
	ErrDuplicateWorkOrder     = NewConflictError("A work order with this number already exists", ErrCodeDuplicateWorkOrderNumber)
	ErrInvalidWorkOrderStatus = NewValidationError("Invalid work order status for this operation", ErrCodeInvalidWorkOrderStatus)
	ErrWorkOrderLocked        = NewConflictError("Validated work orders cannot be modified", ErrCodeWorkOrderLocked)
	ErrWorkOrderHasHistory    = NewConflictError("Work order has workflow history and cannot be deleted", ErrCodeWorkOrderHasHistory)
	ErrNumberGeneration       = &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeNumberGenerationFailed,
		Message:    "Could not generate a unique work order number",
		StatusCode: http.StatusInternalServerError,
	}

	ErrWorkflowNotFound   = NewNotFoundError("Workflow not found", ErrCodeWorkflowNotFound)
	ErrStepNotFound       = NewNotFoundError("Workflow step not found", ErrCodeStepNotFound)
	ErrNoWorkflowAttached = NewValidationError("No workflow attached to this work order", ErrCodeNoWorkflowAttached)
	ErrHistoryNotFound    = NewNotFoundError("Workflow history record not found", ErrCodeHistoryNotFound)
	ErrHistoryClosed      = NewConflictError("Workflow history record is closed", ErrCodeHistoryClosed)

	ErrEquipmentNotFound   = NewNotFoundError("Equipment not found", ErrCodeEquipmentNotFound)
	ErrDuplicateReference  = NewConflictError("An equipment with this reference already exists", ErrCodeDuplicateReference)
	ErrEquipmentInUse      = NewConflictError("Equipment is referenced by work orders or intervention requests", ErrCodeEquipmentInUse)
	ErrOrganNotFound       = NewNotFoundError("Organ not found", ErrCodeOrganNotFound)
	ErrOrganInUse          = NewConflictError("Organ is referenced by work orders", ErrCodeOrganInUse)
	ErrEmployeeNotFound    = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrEmployeeInUse       = NewConflictError("Employee is assigned to work orders", ErrCodeEmployeeInUse)
	ErrTeamNotFound        = NewNotFoundError("Team not found", ErrCodeTeamNotFound)
	ErrDuplicateTeam       = NewConflictError("A team with this name already exists", ErrCodeDuplicateTeam)
	ErrAlreadyTeamMember   = NewConflictError("Employee is already a member of this team", ErrCodeAlreadyTeamMember)
	ErrNotTeamMember       = NewNotFoundError("Employee is not a member of this team", ErrCodeNotTeamMember)
	ErrCompetenceNotFound  = NewNotFoundError("Competence not found", ErrCodeCompetenceNotFound)
	ErrDuplicateCompetence = NewConflictError("A competence with this name already exists", ErrCodeDuplicateCompetence)
	ErrCompetenceAssigned  = NewConflictError("Competence already assigned to employee", ErrCodeCompetenceAssigned)
	ErrCompetenceMissing   = NewNotFoundError("Competence is not assigned to employee", ErrCodeCompetenceNotAssigned)
	ErrInterventionMissing = NewNotFoundError("Intervention request not found", ErrCodeInterventionNotFound)
	ErrInterventionClosed  = NewValidationError("Intervention request is closed", ErrCodeInterventionClosed)
	ErrInterventionInUse   = NewConflictError("Intervention request has work orders", ErrCodeInterventionHasOrders)
	ErrNotOwner            = NewForbiddenError("Only the owner or a manager may modify this resource", ErrCodeNotOwner)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
