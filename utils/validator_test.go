package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsContentHash(t *testing.T) {
	md5 := strings.Repeat("a", 32)
	sha256 := strings.Repeat("0f", 32)
	sha512 := strings.Repeat("Ab", 64)

	assert.True(t, IsContentHash(md5))
	assert.True(t, IsContentHash(sha256))
	assert.True(t, IsContentHash(sha512))
	assert.True(t, IsContentHash("  "+sha256+"  "))

	assert.False(t, IsContentHash(""))
	assert.False(t, IsContentHash("abc123"))
	assert.False(t, IsContentHash(strings.Repeat("g", 64)))
	assert.False(t, IsContentHash(strings.Repeat("a", 129)))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("payroll@acme.sa"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello", SanitizeInput("  hello\x00  "))
}
