package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-api-otp/internal/pkg/rules"
)

// Identifier types a user can register (and later verify an OTP) against.
const (
	IdentifierPAN      = "PAN"
	IdentifierDOB      = "DOB"
	IdentifierCC4Digit = "CC4DIGIT"
	IdentifierDC4Digit = "DC4DIGIT"
)

// IdentifierTypes lists every accepted identifier type, in the order they are
// reported in validation messages.
var IdentifierTypes = []string{IdentifierPAN, IdentifierDOB, IdentifierCC4Digit, IdentifierDC4Digit}

// Defaults applied when the registration form omits the field.
const (
	DefaultPartnerName   = "AEM_FORMS"
	DefaultPreferredLang = "ENG"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// User is a registered record an OTP can be issued against.
type User struct {
	ID                   string    `json:"id"`
	TransactionRefNumber string    `json:"transactionRefNumber"`
	Email                string    `json:"email"`
	MobileNumber         string    `json:"mobileNumber"`
	PartnerName          string    `json:"partnerName"`
	IdentifierName       string    `json:"identifierName"`
	IdentifierValue      string    `json:"identifierValue"`
	ProductName          string    `json:"productName"`
	PreferredLang        string    `json:"preferredLang"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// UserForm is the raw registration input before defaults and normalization.
type UserForm struct {
	TransactionRefNumber string `json:"transactionRefNumber"`
	Email                string `json:"email"`
	MobileNumber         string `json:"mobileNumber"`
	PartnerName          string `json:"partnerName"`
	IdentifierName       string `json:"identifierName"`
	IdentifierValue      string `json:"identifierValue"`
	ProductName          string `json:"productName"`
	PreferredLang        string `json:"preferredLang"`
}

// NewUserFromForm builds a User from raw form data. Defaults and email
// normalization are applied here, once; the result is not validated.
func NewUserFromForm(form UserForm) *User {
	u := &User{
		TransactionRefNumber: strings.TrimSpace(form.TransactionRefNumber),
		Email:                NormalizeEmail(form.Email),
		MobileNumber:         strings.TrimSpace(form.MobileNumber),
		PartnerName:          strings.TrimSpace(form.PartnerName),
		IdentifierName:       strings.TrimSpace(form.IdentifierName),
		IdentifierValue:      strings.TrimSpace(form.IdentifierValue),
		ProductName:          strings.TrimSpace(form.ProductName),
		PreferredLang:        strings.TrimSpace(form.PreferredLang),
	}
	if u.PartnerName == "" {
		u.PartnerName = DefaultPartnerName
	}
	if u.PreferredLang == "" {
		u.PreferredLang = DefaultPreferredLang
	}
	return u
}

// NormalizeEmail lowercases and trims an address. Applied at construction so
// stored and compared values never differ by case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks every declared field rule and returns the collected
// violations. The user must not be persisted unless the result is valid.
func (u *User) Validate() rules.Result {
	var res rules.Result
	res.Collect(rules.CheckString("Transaction reference number", u.TransactionRefNumber, rules.Rule{
		Required: true,
	}))
	res.Collect(rules.CheckString("Email", u.Email, rules.Rule{
		Required: true,
		Pattern:  emailPattern,
	}))
	res.Collect(rules.CheckString("Mobile number", u.MobileNumber, rules.Rule{
		Required:       true,
		Pattern:        mobilePattern,
		PatternMessage: "Mobile number must be exactly 10 digits",
	}))
	res.Collect(rules.CheckString("Partner name", u.PartnerName, rules.Rule{Required: true}))
	res.Collect(rules.CheckString("Identifier name", u.IdentifierName, rules.Rule{
		Required:    true,
		ValidValues: IdentifierTypes,
	}))
	res.Collect(rules.CheckString("Identifier value", u.IdentifierValue, rules.Rule{Required: true}))
	res.Collect(rules.CheckString("Product name", u.ProductName, rules.Rule{Required: true}))
	return res
}
