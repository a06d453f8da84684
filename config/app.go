package config

import (
	"crypto/subtle"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AllowedEmailDomains are the institutional domains accepted at signup.
func AllowedEmailDomains() []string {
	raw := os.Getenv("ALLOWED_EMAIL_DOMAINS")
	if raw == "" {
		raw = "khi.iba.edu.pk"
	}
	return strings.Split(raw, ",")
}

func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// AdminKeyMatches gates admin self-registration. Prefers a bcrypt hash in
// ADMIN_KEY_HASH; falls back to a constant-time compare against ADMIN_KEY.
// Rejects everything when neither is configured.
func AdminKeyMatches(provided string) bool {
	if provided == "" {
		return false
	}
	if hash := os.Getenv("ADMIN_KEY_HASH"); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(provided)) == nil
	}
	key := os.Getenv("ADMIN_KEY")
	if key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(provided)) == 1
}
