package security

import (
	"fmt"
	"strings"
)

// MaxQuestionLength caps question size before any model call is attempted.
const MaxQuestionLength = 1000

// blockedPatterns are bulk-extraction phrases rejected by case-insensitive
// substring match. The match is deliberately literal: a blocked phrase
// embedded in a longer benign word is still rejected.
var blockedPatterns = []string{
	"show all", "list all", "dump", "export", "download",
	"return all", "full dataset", "complete records",
	"csv format", "raw data", "entire database",
	"all contests", "every contest", "complete list",
	"bulk export", "data dump", "full archive",
}

// ValidateQuestion rejects questions matching the denylist or exceeding the
// length cap. It is a pure function of the input text; it must run before
// any model call so guaranteed-invalid queries never cost an API request.
func ValidateQuestion(question string) error {
	lower := strings.ToLower(question)
	for _, pattern := range blockedPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("%w: question contains restricted pattern %q", ErrInvalidInput, pattern)
		}
	}

	if len(question) > MaxQuestionLength {
		return fmt.Errorf("%w: question too long (%d > %d characters)", ErrInvalidInput, len(question), MaxQuestionLength)
	}

	return nil
}
