package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name. Existing query
// parameters are preserved and sslmode=disable is appended when no sslmode is given.
// An empty name or an empty base URL returns the base URL unchanged.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" || baseURL == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	if hasQuery {
		// a trailing slash may sit before the query string
		base = strings.TrimRight(base, "/")
	}

	databaseURL := fmt.Sprintf("%s/%s", base, databaseName)
	if hasQuery && query != "" {
		databaseURL = fmt.Sprintf("%s?%s", databaseURL, query)
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !strings.Contains(databaseURL, "?") {
			separator = "?"
		}
		databaseURL = fmt.Sprintf("%s%ssslmode=disable", databaseURL, separator)
	}

	return databaseURL
}
