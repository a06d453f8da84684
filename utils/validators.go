package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const MaxImageSizeBytes = 5 * 1024 * 1024 // 5MB

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	unsafeFileChars  = regexp.MustCompile(`[^\w\s.-]`)
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

func ValidEmailFormat(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// EmailDomainValidator restricts signups to configured institutional
// domains. Matching is on the full domain part, case-insensitive.
type EmailDomainValidator struct {
	domains []string
}

func NewEmailDomainValidator(domains []string) *EmailDomainValidator {
	cleaned := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d != "" {
			cleaned = append(cleaned, d)
		}
	}
	return &EmailDomainValidator{domains: cleaned}
}

func (v *EmailDomainValidator) Allowed(email string) bool {
	if !ValidEmailFormat(email) {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	for _, d := range v.domains {
		if domain == d {
			return true
		}
	}
	return false
}

func (v *EmailDomainValidator) Describe() string {
	return fmt.Sprintf("only %s email addresses are allowed", strings.Join(v.domains, ", "))
}

func ValidImageExt(filename string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(filename))]
}

func ValidFileSize(size int64) bool {
	return size <= MaxImageSizeBytes
}

// SanitizeFilename strips path separators and anything outside a safe
// character set so a client-supplied name cannot escape the uploads dir.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "../", "")
	filename = strings.ReplaceAll(filename, "..\\", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	return unsafeFileChars.ReplaceAllString(filename, "")
}
