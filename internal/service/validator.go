package service

import (
	"errors"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/i18n"
)

// DefaultReconfirmEvery re-prompts the regulations every fifth successful submission.
const DefaultReconfirmEvery = 5

// ErrReconfirmationRequired stops a submit until the user confirms the regulations again.
var ErrReconfirmationRequired = errors.New("regulations must be reconfirmed")

// SubmissionInput is everything the pre-submit gate looks at.
type SubmissionInput struct {
	Form          model.RequestForm
	Cart          model.Cart
	TermsAccepted bool
	Reconfirmed   bool
	// PriorSubmissions is the persisted count of successful submissions.
	PriorSubmissions int64
}

// ValidatedSubmission is the normalized form plus any non-blocking warnings (i18n keys).
type ValidatedSubmission struct {
	Form     model.RequestForm
	Warnings []string
}

// Validator runs the ordered pre-submit checks. It never touches the network.
type Validator struct {
	reconfirmEvery int64
}

// NewValidator creates a validator. Values below 1 disable the reconfirmation prompt.
func NewValidator(reconfirmEvery int) *Validator {
	return &Validator{reconfirmEvery: int64(reconfirmEvery)}
}

// ReconfirmationDue reports whether the count of prior successful submissions
// calls for the regulations prompt.
func (v *Validator) ReconfirmationDue(prior int64) bool {
	return v.reconfirmEvery > 0 && prior > 0 && prior%v.reconfirmEvery == 0
}

// Validate checks in, stopping at the first failure. Field errors are
// *dto.ValidationError; the reconfirmation gate returns ErrReconfirmationRequired.
func (v *Validator) Validate(in SubmissionInput) (ValidatedSubmission, error) {
	if !in.TermsAccepted {
		return ValidatedSubmission{}, dto.NewValidationError("terms_accepted", i18n.ValKeyTermsRequired)
	}
	if in.Cart.IsEmpty() {
		return ValidatedSubmission{}, dto.NewValidationError("items", i18n.ValKeyCartEmpty)
	}

	form := in.Form.Normalized()
	if form.RequesterName == "" {
		return ValidatedSubmission{}, dto.NewValidationError("requester_name", i18n.ValKeyRequesterNameRequired)
	}
	if form.ControlNumber == "" {
		return ValidatedSubmission{}, dto.NewValidationError("control_number", i18n.ValKeyControlNumberRequired)
	}
	if !model.IsDigits(form.ControlNumber) {
		return ValidatedSubmission{}, dto.NewValidationError("control_number", i18n.ValKeyControlNumberDigits)
	}

	for _, item := range in.Cart.Items() {
		if _, ok := item.ParsedQuantity(); !ok {
			return ValidatedSubmission{}, &dto.ValidationError{
				Field: "items",
				Key:   i18n.ValKeyItemQuantityInvalid,
				Item:  item.DisplayName,
			}
		}
	}

	var warnings []string
	if form.Kind == model.KindGroup {
		if form.MemberCount < 1 {
			return ValidatedSubmission{}, dto.NewValidationError("member_count", i18n.ValKeyMemberCountRequired)
		}
		if form.MemberCount > model.MaxGroupMembers {
			form.MemberCount = model.MaxGroupMembers
			warnings = append(warnings, i18n.WarnKeyMemberCountClamped)
		}
		if form.InstructorName == "" {
			return ValidatedSubmission{}, dto.NewValidationError("instructor_name", i18n.ValKeyInstructorRequired)
		}
		if form.Subject == "" {
			return ValidatedSubmission{}, dto.NewValidationError("subject", i18n.ValKeySubjectRequired)
		}
		if form.Group == "" {
			return ValidatedSubmission{}, dto.NewValidationError("group", i18n.ValKeyGroupRequired)
		}
	}

	if v.ReconfirmationDue(in.PriorSubmissions) && !in.Reconfirmed {
		return ValidatedSubmission{}, ErrReconfirmationRequired
	}

	return ValidatedSubmission{Form: form, Warnings: warnings}, nil
}
