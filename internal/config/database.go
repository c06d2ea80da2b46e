package config

import (
	"fmt"
	"os"
	"strings"
)

// DatabaseURL returns the Postgres URL for the catalog store.
// DATABASE_URL wins; otherwise DATABASE_URL_<ESL_DATABASE_ID> is used, with the
// identifier defaulting to "DEFAULT". An empty result means no database.
func DatabaseURL() string {
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		return url
	}

	dbID := String("ESL_DATABASE_ID", "DEFAULT")
	dbURLKey := fmt.Sprintf("DATABASE_URL_%s", strings.ToUpper(dbID))
	return strings.TrimSpace(os.Getenv(dbURLKey))
}
