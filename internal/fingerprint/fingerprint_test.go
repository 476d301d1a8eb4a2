package fingerprint

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestHash_Deterministic(t *testing.T) {
	a := Hash("RuntimeError", "Division by zero", "app/calc.go", 42)
	b := Hash("RuntimeError", "Division by zero", "app/calc.go", 42)

	assert.Equal(t, a, b)
	assert.Regexp(t, hexPattern, a)
}

func TestHash_FieldSensitivity(t *testing.T) {
	base := Hash("RuntimeError", "Division by zero", "app/calc.go", 42)

	tests := []struct {
		name    string
		class   string
		message string
		file    string
		line    int
	}{
		{"different class", "TypeError", "Division by zero", "app/calc.go", 42},
		{"different message", "RuntimeError", "Division by one", "app/calc.go", 42},
		{"different file", "RuntimeError", "Division by zero", "app/other.go", 42},
		{"different line", "RuntimeError", "Division by zero", "app/calc.go", 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hash(tt.class, tt.message, tt.file, tt.line)
			assert.NotEqual(t, base, got)
			assert.Regexp(t, hexPattern, got)
		})
	}
}

func TestHash_EmptyFields(t *testing.T) {
	got := Hash("", "", "", 0)
	assert.Regexp(t, hexPattern, got)
}
