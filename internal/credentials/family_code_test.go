package credentials

import (
	"strings"
	"testing"
)

func TestGenerateFamilyCode(t *testing.T) {
	tests := []struct {
		name        string
		iterations  int
		checkUnique bool
	}{
		{
			name:       "generates code of correct length and alphabet",
			iterations: 100,
		},
		{
			name:        "generates unique codes",
			iterations:  20,
			checkUnique: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := make(map[string]bool)
			for i := 0; i < tt.iterations; i++ {
				code, err := GenerateFamilyCode()
				if err != nil {
					t.Fatalf("GenerateFamilyCode() error = %v", err)
				}

				if len(code) != FamilyCodeLength {
					t.Errorf("code length %d, want %d", len(code), FamilyCodeLength)
				}
				for _, c := range code {
					if !strings.ContainsRune(familyCodeChars, c) {
						t.Errorf("unexpected character %q in %s", c, code)
					}
				}

				if tt.checkUnique {
					if codes[code] {
						t.Errorf("duplicate code generated: %s", code)
					}
					codes[code] = true
				}
			}
		})
	}
}

func TestNormalizeFamilyCode(t *testing.T) {
	if got := NormalizeFamilyCode("  ab12cd34 "); got != "AB12CD34" {
		t.Errorf("NormalizeFamilyCode() = %q", got)
	}
}
