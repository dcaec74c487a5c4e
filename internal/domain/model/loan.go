package model

import "errors"

// ErrInvalidQuantity is returned when a cart line cannot be turned into a loan request.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// LoanRequest is the body POSTed to /api/prestamos, one per cart line.
// ProductID and ExtraName are mutually exclusive; group fields are null for personal loans.
type LoanRequest struct {
	ProductID      *int64  `json:"producto_id" bson:"producto_id"`
	ExtraName      *string `json:"nombre_extra" bson:"nombre_extra"`
	RequesterName  string  `json:"nombre_persona" bson:"nombre_persona"`
	ControlNumber  string  `json:"numero_de_control" bson:"numero_de_control"`
	Members        int     `json:"integrantes" bson:"integrantes"`
	Quantity       int     `json:"cantidad" bson:"cantidad"`
	Subject        *string `json:"materia" bson:"materia"`
	Group          *string `json:"grupo" bson:"grupo"`
	InstructorName *string `json:"nombre_profesor" bson:"nombre_profesor"`
	CorrelationID  string  `json:"solicitud_uuid" bson:"solicitud_uuid"`
}

// NewLoanRequest builds the wire payload for one cart line. The form is normalized
// first so personal loans always carry integrantes=1 and null group fields.
func NewLoanRequest(form RequestForm, item RequestItem, correlationID string) (LoanRequest, error) {
	qty, ok := item.ParsedQuantity()
	if !ok {
		return LoanRequest{}, ErrInvalidQuantity
	}
	form = form.Normalized()

	req := LoanRequest{
		RequesterName: form.RequesterName,
		ControlNumber: form.ControlNumber,
		Members:       form.MemberCount,
		Quantity:      qty,
		CorrelationID: correlationID,
	}

	if item.Product != nil {
		id := item.Product.ID
		req.ProductID = &id
	} else {
		name := item.DisplayName
		req.ExtraName = &name
	}

	if form.Kind == KindGroup {
		req.Subject = optional(form.Subject)
		req.Group = optional(form.Group)
		req.InstructorName = optional(form.InstructorName)
	}

	return req, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
