// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strings"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/i18n"
)

// ValidationError represents a field validation error. Key is an i18n message key;
// Item names the offending cart line when the error is about one.
type ValidationError struct {
	Field string
	Key   string
	Item  string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	if e.Item != "" {
		return e.Field + ": " + e.Key + " (" + e.Item + ")"
	}
	return e.Field + ": " + e.Key
}

// NewValidationError builds a ValidationError for a form field.
func NewValidationError(field, key string) *ValidationError {
	return &ValidationError{Field: field, Key: key}
}

// AddItemRequest adds a line to the session cart.
//
// @Description Free text from the item search box plus a quantity
// @Example {"text": "arduino uno", "quantity": 2}
type AddItemRequest struct {
	// Text is matched against the catalog; blank text is ignored.
	Text string `json:"text" example:"arduino uno"`
	// Quantity defaults to 1 when omitted.
	Quantity int `json:"quantity" binding:"gte=0" example:"2"`
} // @name AddItemRequest

// UpdateQuantityRequest edits the raw quantity of one line.
//
// @Description Raw digits typed in the quantity field; empty is allowed mid-edit
// @Example {"quantity": "3"}
type UpdateQuantityRequest struct {
	Quantity string `json:"quantity" example:"3"`
} // @name UpdateQuantityRequest

// UpdateFormRequest replaces the solicitant fields of a session.
//
// @Description Solicitant and context fields
// @Example {"requester_name": "Ana Ruiz", "control_number": "12345", "kind": "PERSONAL"}
type UpdateFormRequest struct {
	RequesterName  string `json:"requester_name" example:"Ana Ruiz"`
	ControlNumber  string `json:"control_number" example:"12345"`
	Kind           string `json:"kind" example:"PERSONAL"`
	MemberCount    int    `json:"member_count" binding:"gte=0" example:"1"`
	Subject        string `json:"subject,omitempty"`
	Group          string `json:"group,omitempty"`
	InstructorName string `json:"instructor_name,omitempty"`
} // @name UpdateFormRequest

// Validate applies the edit-time rules: the control number may only hold digits
// and the kind must be known. Completeness is checked at submit time.
func (r *UpdateFormRequest) Validate() error {
	if cn := strings.TrimSpace(r.ControlNumber); cn != "" && !model.IsDigits(cn) {
		return NewValidationError("control_number", i18n.ValKeyControlNumberDigits)
	}
	if _, err := model.ParseRequestKind(r.Kind); err != nil {
		return NewValidationError("kind", i18n.ErrKeyInvalidKind)
	}
	return nil
}

// ToModel converts the request into a domain form. Call Validate first.
func (r *UpdateFormRequest) ToModel() model.RequestForm {
	kind, _ := model.ParseRequestKind(r.Kind)
	return model.RequestForm{
		RequesterName:  r.RequesterName,
		ControlNumber:  strings.TrimSpace(r.ControlNumber),
		Kind:           kind,
		MemberCount:    r.MemberCount,
		Subject:        r.Subject,
		Group:          r.Group,
		InstructorName: r.InstructorName,
	}
}

// SubmitRequest triggers the batch submission of a session.
//
// @Description Acknowledgements captured by the confirmation dialog
// @Example {"terms_accepted": true, "reconfirmed": false}
type SubmitRequest struct {
	TermsAccepted bool `json:"terms_accepted"`
	// Reconfirmed answers the periodic regulations prompt.
	Reconfirmed bool `json:"reconfirmed"`
} // @name SubmitRequest
