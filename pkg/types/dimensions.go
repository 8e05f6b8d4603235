package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dimensions describes the physical size of a product. Persisted as a jsonb
// object on the product row.
type Dimensions struct {
	Length string `json:"length,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// IsZero reports whether no dimension was provided.
func (d Dimensions) IsZero() bool {
	return d.Length == "" && d.Width == "" && d.Height == "" && d.Unit == ""
}

// ParseDimensions decodes the admin form's raw dimensions payload, a JSON
// object. An empty payload yields the zero value.
func ParseDimensions(raw string) (Dimensions, error) {
	if strings.TrimSpace(raw) == "" {
		return Dimensions{}, nil
	}
	var dims Dimensions
	if err := json.Unmarshal([]byte(raw), &dims); err != nil {
		return Dimensions{}, fmt.Errorf("parsing dimensions: %w", err)
	}
	return dims, nil
}
