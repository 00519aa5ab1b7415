// Package contact handles contact form submissions.
package contact

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/SignorelliLorenzo/portfolio/errs"
)

const MinMessageLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is the contact form payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Validate checks required fields, the email shape and the message length,
// in that order.
func Validate(s Submission) error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return errs.NewMissingRequiredFieldError("Missing required fields", missing...)
	}

	if !emailPattern.MatchString(s.Email) {
		return errs.NewInvalidFieldError("email", "Invalid email address")
	}
	if utf8.RuneCountInString(s.Message) < MinMessageLength {
		return errs.NewInvalidFieldError("message", "Message too short")
	}
	return nil
}

// ClientIP identifies the caller: the first X-Forwarded-For entry, then
// X-Real-IP, then "unknown".
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}
