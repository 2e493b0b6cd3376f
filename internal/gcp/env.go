package gcp

import "os"

// GetEnv reads an environment variable, falling back to the given default
// when it is unset. Required variables pass an empty default and the caller
// treats the empty string as a configuration error.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
