package validate

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password the portals accept.
const MinPasswordLength = 6

// MobileDigits is the exact length of a mobile number (without the +91 prefix).
const MobileDigits = 10

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Email checks presence and shape of an email address.
func Email(v string) string {
	if v == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(strings.ToLower(v)) {
		return "Invalid email address"
	}
	return ""
}

// Mobile checks that v is exactly ten digits.
func Mobile(v string) string {
	if v == "" {
		return "Mobile number is required"
	}
	if !mobilePattern.MatchString(v) {
		return "Mobile number must be exactly 10 digits"
	}
	return ""
}

// SanitizeMobile drops every non-digit and truncates to [MobileDigits], the way the
// mobile input field filters keystrokes.
func SanitizeMobile(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == MobileDigits {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Password checks presence and minimum length.
func Password(v string) string {
	if v == "" {
		return "Password is required"
	}
	if len(v) < MinPasswordLength {
		return "Password must be at least 6 characters"
	}
	return ""
}

// Required checks that v is not blank. label names the field in the message.
func Required(v, label string) string {
	if strings.TrimSpace(v) == "" {
		if label == "" {
			label = "Field"
		}
		return label + " is required"
	}
	return ""
}

// ConfirmPassword checks that both entries match.
func ConfirmPassword(password, confirm string) string {
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}
