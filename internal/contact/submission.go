package contact

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingFields = errors.New("name and email are required")
	ErrInvalidEmail  = errors.New("invalid email format")
)

// Structural check only, not an RFC validator: at least one non-space
// character before the @, and a dot somewhere after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Submission is one inbound contact-form post. It lives for the duration of
// a single request: dispatched to the configured sinks and discarded.
type Submission struct {
	ID             uuid.UUID `json:"id,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Business       string    `json:"business,omitempty"`
	Message        string    `json:"message,omitempty"`
	SelectedOption string    `json:"selectedOption,omitempty"`
	OptionTitle    string    `json:"optionTitle,omitempty"`
	ServicePath    string    `json:"selectedServicePath,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
	Source         string    `json:"source,omitempty"`
	Type           string    `json:"type,omitempty"`
	Offer          string    `json:"offer,omitempty"`
}

// Validate enforces the pre-dispatch invariant: no sink is ever called for a
// submission missing name or email, or carrying a malformed email.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Email) == "" {
		return ErrMissingFields
	}
	if !ValidEmail(s.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// Normalize assigns an ID and fills caller-omitted defaults.
func (s *Submission) Normalize(now time.Time) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = now
	}
	if s.Source == "" {
		s.Source = "website"
	}
}
