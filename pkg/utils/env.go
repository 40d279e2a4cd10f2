package utils

import "os"

// Getenv reads an environment variable, treating unset and empty the same
// way and returning the fallback in both cases. All server configuration
// (DB_*, PORT, JWT_SECRET, STORE_MODE) flows through here.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
