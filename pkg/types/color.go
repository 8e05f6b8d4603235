package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Color is one selectable finish of a product. Persisted as an element of
// the product's jsonb colors array.
type Color struct {
	Name      string `json:"name"`
	Hex       string `json:"hex"`
	Available bool   `json:"available"`
}

// Validate checks that the color has a name and a well-formed hex value.
func (c Color) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("color: missing name")
	}
	if !hexColorPattern.MatchString(c.Hex) {
		return fmt.Errorf("color %q: invalid hex value %q", c.Name, c.Hex)
	}
	return nil
}

// ParseColors decodes the admin form's raw colors payload, a JSON array of
// color objects. An empty payload yields an empty list.
func ParseColors(raw string) ([]Color, error) {
	if strings.TrimSpace(raw) == "" {
		return []Color{}, nil
	}
	var colors []Color
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		return nil, fmt.Errorf("parsing colors: %w", err)
	}
	for _, color := range colors {
		if err := color.Validate(); err != nil {
			return nil, err
		}
	}
	return colors, nil
}
