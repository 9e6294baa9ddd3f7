package usecase

// ConversionEvent is the normalized input to the conversion flow, produced
// by the payment-webhook handler or the admin enroll-from-lead command.
type ConversionEvent struct {
	Email    string
	Name     string
	Provider string
	// Amount is nil when the event did not carry one; the orchestrator
	// then falls back to the configured course price.
	Amount *float64
	// PaymentRef is the provider's order-like reference. Empty means the
	// orchestrator derives one from the provider name.
	PaymentRef string
	// BatchID > 0 pins the target batch (admin path); 0 lets the
	// BatchSelector infer it from the lead's course interest.
	BatchID int64
}

// ConversionResult reports what one event actually changed.
type ConversionResult struct {
	AccountID         int64  `json:"account_id"`
	EnrollmentID      int64  `json:"enrollment_id"`
	EnrollmentCreated bool   `json:"enrollment_created"`
	CredentialIssued  bool   `json:"credential_issued"`
	CourseName        string `json:"course_name"`
}

// Notice kinds. "credentials" is sent exactly when a conversion created the
// account; repeats of the same event get "confirmation".
const (
	NoticeCredentials  = "credentials"
	NoticeConfirmation = "confirmation"
	NoticeWelcome      = "welcome"
)

// Notice is the message placed on the notification queue after commit.
type Notice struct {
	Kind       string `json:"kind"`
	LeadID     int64  `json:"lead_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	CourseName string `json:"course_name,omitempty"`
	BatchStart string `json:"batch_start,omitempty"`
	Timings    string `json:"timings,omitempty"`
	// Credential is the one-time plaintext password for a freshly created
	// account. Only ever set on a "credentials" notice; never logged.
	Credential string `json:"credential,omitempty"`
}

// CaptureLeadInput is the public intake form payload.
type CaptureLeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Role     string `json:"role"`
	CourseID *int64 `json:"course_id,omitempty"`
}
