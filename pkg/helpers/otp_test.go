package helpers

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestGenOTPCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = struct{}{}
	}
	// 200 draws from a million values are practically never all equal
	assert.Greater(t, len(seen), 1)
}

func TestCompareOTP(t *testing.T) {
	stored := "012345"

	tests := []struct {
		name     string
		received string
		stored   *string
		want     bool
	}{
		{"match", "012345", &stored, true},
		{"mismatch", "012346", &stored, false},
		{"leading zero dropped", "12345", &stored, false},
		{"empty received", "", &stored, false},
		{"cleared code", "012345", nil, false},
		{"cleared code empty input", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareOTP(tt.received, tt.stored))
		})
	}
}
