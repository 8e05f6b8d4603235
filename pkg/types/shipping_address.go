package types

import (
	"fmt"
	"strings"
)

// ShippingAddress is the immutable address snapshot stored on an order. It is
// copied from the customer's saved address at checkout so later edits to the
// address book never rewrite order history.
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Validate checks the fields an order cannot ship without.
func (s ShippingAddress) Validate() error {
	if strings.TrimSpace(s.FullName) == "" {
		return fmt.Errorf("shipping address: missing full_name")
	}
	if strings.TrimSpace(s.AddressLine1) == "" {
		return fmt.Errorf("shipping address: missing address_line1")
	}
	if strings.TrimSpace(s.City) == "" {
		return fmt.Errorf("shipping address: missing city")
	}
	if strings.TrimSpace(s.PostalCode) == "" {
		return fmt.Errorf("shipping address: missing postal_code")
	}
	if strings.TrimSpace(s.Country) == "" {
		return fmt.Errorf("shipping address: missing country")
	}
	return nil
}
