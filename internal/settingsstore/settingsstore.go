// Package settingsstore resolves runtime settings with
// database > environment > default precedence.
//
// The database holds values the user saved from the settings page;
// environment variables act as deployment-level defaults.
package settingsstore

import (
	"github.com/a94tkh14/magazzino/internal/database"
)

// Priority: database > environment > default
type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

// maskToken returns a masked version of a secret for display.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
