package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"10-digit local", "9876543210", "+919876543210", false},
		{"already E.164", "+919876543210", "+919876543210", false},
		{"with spaces", " 98765 43210 ", "+919876543210", false},
		{"foreign E.164", "+14155552671", "+14155552671", false},
		{"empty", "", "", true},
		{"too short", "12345", "", true},
		{"letters", "not-a-phone", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, verr := NormalizePhone(tt.input)
			if tt.wantErr {
				assert.NotNil(t, verr)
				return
			}
			assert.Nil(t, verr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.Nil(t, validateEmail("student@example.com"))
	assert.NotNil(t, validateEmail(""))
	assert.NotNil(t, validateEmail("not-an-email"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "student@example.com", normalizeEmail("  Student@Example.COM "))
}

func TestValidateCaptureLeadDefaultsRole(t *testing.T) {
	input := CaptureLeadInput{
		Name:  "Priya Sharma",
		Email: "priya@example.com",
		Phone: "9876543210",
	}

	errs := validateCaptureLead(&input)

	assert.Empty(t, errs)
	assert.Equal(t, "student", input.Role)
	assert.Equal(t, "+919876543210", input.Phone)
}

func TestValidateCaptureLeadAggregatesErrors(t *testing.T) {
	input := CaptureLeadInput{
		Name:  "",
		Email: "bad",
		Phone: "123",
		Role:  "teacher",
	}

	errs := validateCaptureLead(&input)

	assert.Len(t, errs, 4)

	joined := joinValidationErrors(errs)
	assert.Contains(t, joined.Error(), "name")
	assert.Contains(t, joined.Error(), "email")
	assert.Contains(t, joined.Error(), "phone")
	assert.Contains(t, joined.Error(), "role")
	assert.True(t, IsValidationError(joined))
}
