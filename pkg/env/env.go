// Package env reads raw process environment values. It exists for the few
// lookups that happen before pkg/config has parsed anything, such as picking
// the log format during logger construction.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
