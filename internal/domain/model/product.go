// Package model defines the core domain entities for the loan request service.
package model

// Product is an inventory-catalog entry available for loan. Identity is ID.
//
// @Description Inventory item that can be requested
// @Example {"id": 7, "name": "Arduino Uno"}
type Product struct {
	ID   int64  `json:"id" example:"7"`
	Name string `json:"name" example:"Arduino Uno"`
}
