package usecase

import (
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Leads come from Indian intake forms; bare 10-digit numbers are parsed
// against this region, full E.164 input is accepted as-is.
const defaultPhoneRegion = "IN"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) *ValidationError {
	if email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: "is invalid"}
	}
	return nil
}

// NormalizePhone validates a phone number (10-digit local or E.164) and
// returns it in E.164 form.
func NormalizePhone(raw string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Field: "phone", Message: "is required"}
	}
	num, err := phonenumbers.Parse(trimmed, defaultPhoneRegion)
	if err != nil {
		return "", &ValidationError{Field: "phone", Message: "is not a valid phone number"}
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", &ValidationError{Field: "phone", Message: "is not a valid phone number"}
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func validateCaptureLead(input *CaptureLeadInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}

	input.Email = normalizeEmail(input.Email)
	if verr := validateEmail(input.Email); verr != nil {
		errs = append(errs, *verr)
	}

	phone, verr := NormalizePhone(input.Phone)
	if verr != nil {
		errs = append(errs, *verr)
	} else {
		input.Phone = phone
	}

	if input.Role == "" {
		input.Role = "student"
	} else if input.Role != "student" && input.Role != "parent" {
		errs = append(errs, ValidationError{"role", "must be student or parent"})
	}

	return errs
}

func joinValidationErrors(errs []ValidationError) *ValidationError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &ValidationError{Message: strings.Join(parts, "; ")}
}
