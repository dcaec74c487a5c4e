package model

import "time"

// Session is one user's in-progress loan request: the form, the cart and the
// outcome of the last submission attempt.
type Session struct {
	ID            string        `json:"id"`
	ClientID      string        `json:"client_id"`
	Form          RequestForm   `json:"form"`
	Cart          Cart          `json:"cart"`
	TermsAccepted bool          `json:"terms_accepted"`
	State         DispatchState `json:"state"`
	LastBatch     *BatchResult  `json:"last_batch,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Reset clears the form and cart after a fully accepted submission.
func (s *Session) Reset() {
	s.Form = RequestForm{}
	s.Cart = NewCart()
	s.TermsAccepted = false
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Cart = NewCart(s.Cart.Items()...)
	if s.LastBatch != nil {
		b := *s.LastBatch
		b.Outcomes = append([]ItemOutcome(nil), s.LastBatch.Outcomes...)
		c.LastBatch = &b
	}
	return &c
}
