// Package credentials generates shareable codes for joining a family.
package credentials

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// FamilyCodeLength is the number of characters in a family code
const FamilyCodeLength = 8

// familyCodeChars omits characters that are easy to misread (0/O, 1/I)
const familyCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateFamilyCode generates a random code another caregiver can enter at registration
func GenerateFamilyCode() (string, error) {
	code := make([]byte, FamilyCodeLength)
	max := big.NewInt(int64(len(familyCodeChars)))

	for i := range code {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = familyCodeChars[num.Int64()]
	}

	return string(code), nil
}

// NormalizeFamilyCode uppercases and trims a code typed by a user
func NormalizeFamilyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
