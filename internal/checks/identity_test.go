package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckIdentity(t *testing.T) {
	tests := []struct {
		name     string
		ssn      *string
		email    *string
		approved bool
	}{
		{"hyphenated ssn", strp("123-45-6789"), strp("user@example.com"), true},
		{"ssn without separators", strp("123456789"), strp("user@example.com"), true},
		{"ssn with one separator", strp("12345-6789"), strp("user@example.com"), true},
		{"email with dots dashes underscores", strp("123-45-6789"), strp("first.last_name-x@mail.example.org"), true},
		{"malformed ssn grouping", strp("12-345-6789"), strp("user@example.com"), false},
		{"ssn with space separator", strp("123 45 6789"), strp("user@example.com"), false},
		{"ssn too short", strp("123-45-678"), strp("user@example.com"), false},
		{"email without at", strp("123-45-6789"), strp("userexample.com"), false},
		{"email suffix too long", strp("123-45-6789"), strp("user@example.museum"), false},
		{"email suffix too short", strp("123-45-6789"), strp("user@example.c"), false},
		{"email with plus", strp("123-45-6789"), strp("user+tag@example.com"), false},
		{"trailing text after ssn", strp("123-45-6789extra"), strp("user@example.com"), false},
		{"trailing text after email", strp("123-45-6789"), strp("user@example.com extra"), false},
		{"trailing newline after ssn", strp("123-45-6789\n"), strp("user@example.com"), false},
		{"leading text before ssn", strp("x123-45-6789"), strp("user@example.com"), false},
		{"missing ssn", nil, strp("user@example.com"), false},
		{"missing email", strp("123-45-6789"), nil, false},
		{"missing both", nil, nil, false},
		{"empty strings", strp(""), strp(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckIdentity(IdentityRequest{SSN: tt.ssn, Email: tt.email})

			assert.Equal(t, tt.approved, res.Approved)
			if tt.approved {
				assert.Equal(t, "identity validation passed", res.Message)
			} else {
				assert.Equal(t, "identity validation failed", res.Message)
			}
		})
	}
}

func TestCheckIdentity_Idempotent(t *testing.T) {
	req := IdentityRequest{SSN: strp("123-45-6789"), Email: strp("user@example.com")}
	assert.Equal(t, CheckIdentity(req), CheckIdentity(req))
}

func TestMaskSSN(t *testing.T) {
	masked, ok := MaskSSN("123-45-6789")
	assert.True(t, ok)
	assert.Equal(t, "XXX-XX-6789", masked)

	masked, ok = MaskSSN("123456789")
	assert.True(t, ok)
	assert.Equal(t, "XXX-XX-6789", masked)

	_, ok = MaskSSN("12-345-6789")
	assert.False(t, ok)
}

func TestMaskEmail(t *testing.T) {
	masked, ok := MaskEmail("user@example.com")
	assert.True(t, ok)
	assert.Equal(t, "u***@example.com", masked)

	_, ok = MaskEmail("u@example.com")
	assert.False(t, ok)

	_, ok = MaskEmail("userexample.com")
	assert.False(t, ok)

	_, ok = MaskEmail("ab@")
	assert.False(t, ok)

	_, ok = MaskEmail("user@example.com extra")
	assert.False(t, ok)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.False(t, ValidEmail("ab@"))
	assert.False(t, ValidEmail("@example.com"))
}
