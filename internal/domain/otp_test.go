package domain

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOtpForm() OtpForm {
	return OtpForm{
		Email:           "jane@example.com",
		IdentifierType:  "PAN",
		IdentifierValue: "ABCDE1234F",
	}
}

func TestNewOtpFromForm_NormalizesEmail(t *testing.T) {
	form := validOtpForm()
	form.Email = " Jane@EXAMPLE.com"
	o := NewOtpFromForm(form)
	assert.Equal(t, "jane@example.com", o.Email)
}

func TestOtpValidate(t *testing.T) {
	assert.True(t, NewOtpFromForm(validOtpForm()).Validate().IsValid())

	res := NewOtpFromForm(OtpForm{}).Validate()
	assert.False(t, res.IsValid())
	assert.Equal(t, []string{
		"Email is required",
		"Identifier type is required",
		"Identifier value is required",
	}, res.Errors)

	form := validOtpForm()
	form.Email = "bad"
	form.IdentifierType = "SSN"
	res = NewOtpFromForm(form).Validate()
	assert.Contains(t, res.Errors, "Invalid email format")
	assert.Contains(t, res.Errors, "Identifier type must be one of: PAN, DOB, CC4DIGIT, DC4DIGIT")
}

func TestGenerateCode_ShapeAndRange(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	shape := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 200; i++ {
		code, err := o.GenerateCode()
		require.NoError(t, err)
		require.Regexp(t, shape, code)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateCode_SetsExpiry(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	before := time.Now()
	_, err := o.GenerateCode()
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(OTPTTL), o.ExpiresAt, 2*time.Second)
	assert.False(t, o.Expired(time.Now()))
	assert.True(t, o.Expired(o.ExpiresAt.Add(time.Millisecond)))
	// Expiry is strict: exactly at the boundary is not expired.
	assert.False(t, o.Expired(o.ExpiresAt))
}

func TestGenerateCode_RegenerationOverwrites(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	first, err := o.GenerateCode()
	require.NoError(t, err)
	firstExpiry := o.ExpiresAt

	time.Sleep(5 * time.Millisecond)
	second, err := o.GenerateCode()
	require.NoError(t, err)

	assert.Equal(t, second, o.Code)
	assert.True(t, o.ExpiresAt.After(firstExpiry))
	if first != second {
		assert.Equal(t, VerdictMismatch, o.Verify(first, time.Now()))
	}
	assert.Equal(t, VerdictSuccess, o.Verify(second, time.Now()))
}

func TestVerify_Malformed(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	_, err := o.GenerateCode()
	require.NoError(t, err)

	for _, bad := range []string{"", "12345", "1234567", "12345a", "abcdef", " 123456"} {
		assert.Equal(t, VerdictMalformed, o.Verify(bad, time.Now()), bad)
	}
}

func TestVerify_ExpiredBeforeMatchCheck(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	code, err := o.GenerateCode()
	require.NoError(t, err)

	after := o.ExpiresAt.Add(time.Second)
	// Even the correct code reports expired once the window closes.
	assert.Equal(t, VerdictExpired, o.Verify(code, after))
}

func TestVerify_Mismatch(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	o.Code = "123456"
	o.ExpiresAt = time.Now().Add(time.Minute)

	assert.Equal(t, VerdictMismatch, o.Verify("654321", time.Now()))
	// Exact string match, no trimming.
	assert.Equal(t, VerdictMalformed, o.Verify("123456 ", time.Now()))
}

func TestVerify_Success(t *testing.T) {
	o := NewOtpFromForm(validOtpForm())
	code, err := o.GenerateCode()
	require.NoError(t, err)

	assert.Equal(t, VerdictSuccess, o.Verify(code, time.Now()))
}

func TestVerdictMessages_Distinct(t *testing.T) {
	seen := map[string]Verdict{}
	for _, v := range []Verdict{VerdictMalformed, VerdictExpired, VerdictMismatch, VerdictSuccess} {
		msg := v.Message()
		_, dup := seen[msg]
		assert.False(t, dup, msg)
		seen[msg] = v
	}
}
