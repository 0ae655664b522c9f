// Package validator normalizes user input into a GitHub login.
package validator

import (
	"regexp"
	"strings"

	"github-profile-analyzer/internal/errors"
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,38}[a-zA-Z0-9])?$`)
	profileURLPattern = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([a-zA-Z0-9]([a-zA-Z0-9-]{0,38}[a-zA-Z0-9])?)(?:[/?#].*)?$`)
)

const invalidInputMessage = "Invalid GitHub username or URL. Please provide either:\n" +
	"- A valid GitHub username (e.g., 'torvalds')\n" +
	"- A GitHub profile URL (e.g., 'https://github.com/torvalds')"

// ExtractUsername accepts either a bare login or a github.com profile URL and
// returns the login. Any other input yields an *errors.ValidationError.
func ExtractUsername(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", errors.NewValidationError(input, "GitHub username or URL cannot be empty")
	}

	if strings.Contains(strings.ToLower(trimmed), "gihub.com") {
		return "", errors.NewValidationError(input, "Invalid URL: Did you mean 'github.com'? (You typed 'gihub.com')")
	}

	if m := profileURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}

	if usernamePattern.MatchString(trimmed) {
		return trimmed, nil
	}

	return "", errors.NewValidationError(input, invalidInputMessage)
}

// IsValidUsername reports whether s is a syntactically valid GitHub login
func IsValidUsername(s string) bool {
	return usernamePattern.MatchString(strings.TrimSpace(s))
}

// IsValidProfileURL reports whether s is a github.com profile URL
func IsValidProfileURL(s string) bool {
	return profileURLPattern.MatchString(strings.TrimSpace(s))
}
