package utils

import (
	"fmt"
	"regexp"
)

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._\-]{1,64}$`)

// ValidateUserID validates a staff identifier as it arrives on the wire.
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid user id: %q", userID)
	}
	return nil
}

// SanitizeString strips control characters from free-text form fields.
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
