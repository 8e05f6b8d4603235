package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of an environment variable, or the fallback
// when the variable is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return fallback
	}
	return val
}
