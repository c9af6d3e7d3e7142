package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Bounds for child and log fields
const (
	MinStoolType    = 1
	MaxStoolType    = 7
	MaxAgeMonths    = 216
	MaxNameLength   = 100
	MaxNotesLength  = 2000
	MaxFoodsPerLog  = 50
	LogDateLayout   = "2006-01-02"
	minPasswordSize = 8
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < minPasswordSize {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(name) > MaxNameLength {
		return ValidationError{Field: "name", Message: "name is too long"}
	}
	return nil
}

// ValidateAgeMonths checks a child's age
func ValidateAgeMonths(age int) error {
	if age < 0 || age > MaxAgeMonths {
		return ValidationError{Field: "ageMonths", Message: fmt.Sprintf("age must be between 0 and %d months", MaxAgeMonths)}
	}
	return nil
}

// ValidateStoolType checks an optional Bristol scale reading
func ValidateStoolType(stoolType *int) error {
	if stoolType == nil {
		return nil
	}
	if *stoolType < MinStoolType || *stoolType > MaxStoolType {
		return ValidationError{Field: "stoolType", Message: "stool type must be between 1 and 7"}
	}
	return nil
}

// ValidateStoolFrequency checks an optional bowel movement count
func ValidateStoolFrequency(frequency *int) error {
	if frequency != nil && *frequency < 0 {
		return ValidationError{Field: "stoolFrequency", Message: "stool frequency cannot be negative"}
	}
	return nil
}

// ValidateHydration checks an optional hydration label
func ValidateHydration(hydration *string) error {
	if hydration == nil {
		return nil
	}
	switch *hydration {
	case "low", "normal", "good":
		return nil
	}
	return ValidationError{Field: "hydration", Message: "hydration must be low, normal or good"}
}

// ValidateLogDate checks a calendar date in YYYY-MM-DD form
func ValidateLogDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return ValidationError{Field: "logDate", Message: "log date is required"}
	}
	if _, err := time.Parse(LogDateLayout, date); err != nil {
		return ValidationError{Field: "logDate", Message: "log date must be YYYY-MM-DD"}
	}
	return nil
}

// ValidateNotes bounds free-text notes
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return ValidationError{Field: "notes", Message: "notes are too long"}
	}
	return nil
}

// ValidateFoodName checks a logged food entry name
func ValidateFoodName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "foodIntake.foodName", Message: "food name is required"}
	}
	if len(name) > MaxNameLength {
		return ValidationError{Field: "foodIntake.foodName", Message: "food name is too long"}
	}
	return nil
}
