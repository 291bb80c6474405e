package utils

import "os"

// GetEnv reads an environment variable, falling back to def when unset or
// empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
