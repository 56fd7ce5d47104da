package db

import (
	"os"
	"strings"
)

// IsPostgres reports whether the DSN targets postgres rather than the default
// embedded sqlite database.
func IsPostgres(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return true
	}
	// lib/pq style key=value list
	for _, key := range []string{"host=", "user=", "dbname="} {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}

// NormalizeDSN trims quotes and whitespace, and for postgres key=value DSNs
// supplements sslmode=disable when missing. Sqlite DSNs pass through unchanged.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	if !IsPostgres(s) {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	// Collapse multiple spaces in key=value form
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// GetNormalizedDSN fetches DATABASE_DSN env var and normalizes it.
func GetNormalizedDSN() string { return NormalizeDSN(os.Getenv("DATABASE_DSN")) }
