package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmailFormat(t *testing.T) {
	valid := []string{"user@inst.edu", "first.last@sub.inst.edu", "a+b@inst.edu"}
	for _, email := range valid {
		assert.True(t, ValidEmailFormat(email), email)
	}

	invalid := []string{"", "plain", "user@", "@inst.edu", "user@domain", "user @inst.edu"}
	for _, email := range invalid {
		assert.False(t, ValidEmailFormat(email), email)
	}
}

func TestEmailDomainValidator(t *testing.T) {
	v := NewEmailDomainValidator([]string{"@Khi.IBA.edu.pk", " inst.edu "})

	tests := []struct {
		email string
		want  bool
	}{
		{"student@khi.iba.edu.pk", true},
		{"Student@KHI.IBA.EDU.PK", true},
		{"a@inst.edu", true},
		{"outsider@gmail.com", false},
		{"a@sub.khi.iba.edu.pk", false}, // subdomains are not the configured domain
		{"a@iba.edu.pk", false},
		{"not-an-email", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.Allowed(tt.email), tt.email)
	}

	assert.Contains(t, v.Describe(), "khi.iba.edu.pk")
}

func TestValidImageExt(t *testing.T) {
	for _, name := range []string{"photo.jpg", "photo.JPEG", "a.png", "b.gif", "c.webp"} {
		assert.True(t, ValidImageExt(name), name)
	}
	for _, name := range []string{"doc.pdf", "script.sh", "noext", "archive.zip", "photo.jpg.exe"} {
		assert.False(t, ValidImageExt(name), name)
	}
}

func TestValidFileSize(t *testing.T) {
	assert.True(t, ValidFileSize(0))
	assert.True(t, ValidFileSize(MaxImageSizeBytes))
	assert.False(t, ValidFileSize(MaxImageSizeBytes+1))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"../../etc/passwd", "etc_passwd"},
		{"a/b\\c.png", "a_b_c.png"},
		{"sp ace & sym$.png", "sp ace  sym.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), tt.in)
	}
}
