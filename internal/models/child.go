package models

import (
	"strings"
	"time"
)

// Child is an infant or toddler whose digestion is tracked
type Child struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"familyId"`
	Name      string    `json:"name"`
	AgeMonths int       `json:"ageMonths"`
	Gender    string    `json:"gender"`
	Allergies []string  `json:"allergies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JoinAllergies stores allergy terms as one comma-separated column
func JoinAllergies(allergies []string) string {
	return strings.Join(CleanAllergies(allergies), ",")
}

// SplitAllergies reads the stored comma-separated column
func SplitAllergies(stored string) []string {
	return CleanAllergies(strings.Split(stored, ","))
}

// CleanAllergies trims entries and drops empties and case-insensitive duplicates
func CleanAllergies(allergies []string) []string {
	out := make([]string, 0, len(allergies))
	seen := make(map[string]bool, len(allergies))
	for _, a := range allergies {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}
