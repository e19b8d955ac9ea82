package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/go-api-otp/internal/pkg/rules"
)

// OTPTTL is the validity window of a generated code.
const OTPTTL = 5 * time.Minute

var codePattern = regexp.MustCompile(`^\d{6}$`)

// Otp is a single-use verification code issued against a registered user's
// email and identifier. The code is consumed (deleted from storage) on
// successful verification and otherwise left to expire.
type Otp struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	IdentifierType  string    `json:"identifierType"`
	IdentifierValue string    `json:"identifierValue"`
	Code            string    `json:"-"`
	ExpiresAt       time.Time `json:"expiresAt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OtpForm is the raw OTP request input.
type OtpForm struct {
	Email           string `json:"email"`
	IdentifierType  string `json:"identifierType"`
	IdentifierValue string `json:"identifierValue"`
}

// NewOtpFromForm builds an Otp from raw form data without generating a code.
// Email normalization happens here, once.
func NewOtpFromForm(form OtpForm) *Otp {
	return &Otp{
		Email:           NormalizeEmail(form.Email),
		IdentifierType:  form.IdentifierType,
		IdentifierValue: form.IdentifierValue,
	}
}

// Validate checks the request fields and returns the collected violations.
func (o *Otp) Validate() rules.Result {
	var res rules.Result
	res.Collect(rules.CheckString("Email", o.Email, rules.Rule{
		Required: true,
		Pattern:  emailPattern,
	}))
	res.Collect(rules.CheckString("Identifier type", o.IdentifierType, rules.Rule{
		Required:    true,
		ValidValues: IdentifierTypes,
	}))
	res.Collect(rules.CheckString("Identifier value", o.IdentifierValue, rules.Rule{Required: true}))
	return res
}

// GenerateCode sets a uniformly random 6-digit code in [100000, 999999] and
// resets the expiry window to now + OTPTTL. Calling it again overwrites the
// previous code; only the latest one is valid.
func (o *Otp) GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	o.Code = fmt.Sprintf("%06d", n.Int64()+100000)
	o.ExpiresAt = time.Now().Add(OTPTTL)
	return o.Code, nil
}

// Expired reports whether now is strictly after the expiry instant.
func (o *Otp) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Verdict is the outcome of running the verification state machine. Callers
// branch on the tag, never on message text.
type Verdict int

const (
	// VerdictMalformed: the submitted code is not a 6-digit string. Decided
	// before any expiry or equality check.
	VerdictMalformed Verdict = iota
	// VerdictExpired: the window has closed. Reported without revealing
	// whether the code would have matched.
	VerdictExpired
	// VerdictMismatch: well-formed and in-window, but not the stored code.
	VerdictMismatch
	// VerdictSuccess: exact match inside the window. The stored record must
	// be deleted by the caller — verification is single-use.
	VerdictSuccess
)

// Message returns the client-facing wording for the verdict.
func (v Verdict) Message() string {
	switch v {
	case VerdictMalformed:
		return "OTP must be 6 digits"
	case VerdictExpired:
		return "OTP has expired"
	case VerdictSuccess:
		return "OTP verified successfully"
	default:
		return "Invalid OTP"
	}
}

// WellFormedCode reports whether input looks like a generated code. A negative
// answer settles verification without any storage lookup.
func WellFormedCode(input string) bool {
	return codePattern.MatchString(input)
}

// Verify runs the verification state machine against the stored code:
// shape, then expiry, then exact string equality. No trimming, no
// normalization.
func (o *Otp) Verify(input string, now time.Time) Verdict {
	if !WellFormedCode(input) {
		return VerdictMalformed
	}
	if o.Expired(now) {
		return VerdictExpired
	}
	if o.Code == input {
		return VerdictSuccess
	}
	return VerdictMismatch
}
