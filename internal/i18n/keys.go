// Package i18n provides internationalization support for the loan request service.
package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyTimeout            = "error.timeout"

	// ErrKeySessionNotFound indicates an expired or unknown composer session.
	ErrKeySessionNotFound = "error.session_not_found"
	// ErrKeyInvalidSessionToken indicates a session handle with a bad signature.
	ErrKeyInvalidSessionToken = "error.invalid_session_token"
	ErrKeyItemNotFound        = "error.item_not_found"
	ErrKeyQuantityNotNumeric  = "error.quantity_not_numeric"
	ErrKeyInvalidKind         = "error.invalid_kind"
	ErrKeySubmissionInFlight  = "error.submission_in_progress"
	// ErrKeySubmissionFailed is the generic message when the loan API gave no {err} body.
	ErrKeySubmissionFailed = "error.submission_failed"
	ErrKeyNothingToRetry   = "error.nothing_to_retry"
	ErrKeyUpstreamDown     = "error.upstream_unavailable"
	ErrKeyCatalogNotReady  = "error.catalog_not_ready"
)

// Validation message keys, one per pre-submit check.
const (
	ValKeyTermsRequired          = "validation.terms_required"
	ValKeyCartEmpty              = "validation.cart_empty"
	ValKeyRequesterNameRequired  = "validation.requester_name_required"
	ValKeyControlNumberRequired  = "validation.control_number_required"
	ValKeyControlNumberDigits    = "validation.control_number_digits"
	ValKeyItemQuantityInvalid    = "validation.item_quantity_invalid"
	ValKeyMemberCountRequired    = "validation.member_count_required"
	ValKeyInstructorRequired     = "validation.instructor_required"
	ValKeySubjectRequired        = "validation.subject_required"
	ValKeyGroupRequired          = "validation.group_required"
	ValKeyReconfirmationRequired = "validation.reconfirmation_required"
)

// Warning and advisory keys. These never block an operation.
const (
	WarnKeyMemberCountClamped = "warning.member_count_clamped"
	AdvisoryKeyFreeText       = "advisory.free_text"
)

// Success message translation keys.
const (
	SuccessKeySubmissionCompleted = "success.submission_completed"
)
