package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RequestKind tells whether a loan is for one student or for a classroom group.
type RequestKind int

const (
	// KindPersonal is an individual loan.
	KindPersonal RequestKind = iota
	// KindGroup is a classroom/team loan that needs subject, group and instructor.
	KindGroup
)

// MaxGroupMembers is the largest team size the school lends to.
const MaxGroupMembers = 5

// String returns the canonical name of the kind.
func (k RequestKind) String() string {
	switch k {
	case KindPersonal:
		return "PERSONAL"
	case KindGroup:
		return "GROUP"
	default:
		return "UNKNOWN"
	}
}

// ParseRequestKind accepts PERSONAL, GROUP and the Spanish EQUIPO spelling used on the wire.
func ParseRequestKind(s string) (RequestKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PERSONAL":
		return KindPersonal, nil
	case "GROUP", "EQUIPO":
		return KindGroup, nil
	default:
		return KindPersonal, fmt.Errorf("unknown request kind %q", s)
	}
}

// MarshalJSON encodes the kind as its canonical name.
func (k RequestKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *RequestKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseRequestKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// RequestItem is one line of the cart. Quantity keeps the raw digits typed by the
// user so an empty field can exist mid-edit; it is parsed at submit time.
type RequestItem struct {
	LocalID     string   `json:"local_id"`
	DisplayName string   `json:"display_name"`
	Quantity    string   `json:"quantity"`
	Product     *Product `json:"product,omitempty"`
}

// IsExtra reports whether the item is sent as free text instead of a product id.
func (i RequestItem) IsExtra() bool {
	return i.Product == nil
}

// ParsedQuantity returns the quantity and whether it is a valid loan quantity (>= 1).
func (i RequestItem) ParsedQuantity() (int, bool) {
	if i.Quantity == "" {
		return 0, false
	}
	n, err := strconv.Atoi(i.Quantity)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// RequestForm holds the solicitant and context fields of a loan request.
// Subject, Group, InstructorName and MemberCount only mean something for KindGroup.
type RequestForm struct {
	RequesterName  string      `json:"requester_name"`
	ControlNumber  string      `json:"control_number"`
	Kind           RequestKind `json:"kind"`
	MemberCount    int         `json:"member_count"`
	Subject        string      `json:"subject,omitempty"`
	Group          string      `json:"group,omitempty"`
	InstructorName string      `json:"instructor_name,omitempty"`
}

// Normalized trims text fields and, for personal loans, resets the group fields
// to their empty values with a member count of 1.
func (f RequestForm) Normalized() RequestForm {
	f.RequesterName = strings.TrimSpace(f.RequesterName)
	f.ControlNumber = strings.TrimSpace(f.ControlNumber)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Group = strings.TrimSpace(f.Group)
	f.InstructorName = strings.TrimSpace(f.InstructorName)

	if f.Kind != KindGroup {
		f.Kind = KindPersonal
		f.MemberCount = 1
		f.Subject = ""
		f.Group = ""
		f.InstructorName = ""
	}
	return f
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
