package validation

import (
	"regexp"
	"strings"

	"moviequiz/internal/domain"
	"moviequiz/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStudyGuideRequest validates the study guide generation request.
func (v *Validator) ValidateStudyGuideRequest(req *dto.StudyGuideRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.Movie) == "" {
		errs = append(errs, domain.NewMissingFieldError("movie"))
	} else if len(req.Movie) > 200 {
		errs = append(errs, domain.NewOutOfRangeError("movie", len(req.Movie), 1, 200))
	}

	if req.Dialect != "" && !isValidDialect(req.Dialect) {
		errs = append(errs, domain.NewInvalidFormatError("dialect", req.Dialect))
	}

	return errs
}

// ValidateRecordAnswerRequest validates an answer upsert. The label is free
// text because text-dialect answers carry the full "B) ..." option string.
func (v *Validator) ValidateRecordAnswerRequest(sessionID string, req *dto.RecordAnswerRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	errs = append(errs, v.validateSessionID(sessionID)...)

	if req.Index < 0 {
		errs = append(errs, domain.NewOutOfRangeError("index", req.Index, 0, 1<<30))
	}

	if strings.TrimSpace(req.Label) == "" {
		errs = append(errs, domain.NewMissingFieldError("label"))
	} else if len(req.Label) > 500 {
		errs = append(errs, domain.NewOutOfRangeError("label", len(req.Label), 1, 500))
	}

	return errs
}

// ValidateSessionID validates a bare session identifier path parameter.
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	return v.validateSessionID(sessionID)
}

func (v *Validator) validateSessionID(sessionID string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(sessionID) == "" {
		errs = append(errs, domain.NewMissingFieldError("session_id"))
	} else if !isValidULID(sessionID) {
		errs = append(errs, domain.NewInvalidFormatError("session_id", sessionID))
	}
	return errs
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}

func isValidDialect(s string) bool {
	switch domain.Dialect(s) {
	case domain.DialectJSON, domain.DialectText:
		return true
	}
	return false
}
