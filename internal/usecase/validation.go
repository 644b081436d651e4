package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/hyvewyre/lead-api/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	stateRe = regexp.MustCompile(`^[A-Z]{2}$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

func ValidateLeadInput(input LeadInput) []ValidationError {
	var errs []ValidationError

	digits := strings.TrimPrefix(entity.NormalizePhone(input.Phone), "+")
	if strings.TrimSpace(input.Phone) == "" {
		errs = append(errs, ValidationError{"phone", "is required"})
	} else if len(digits) < 10 || len(digits) > 15 {
		errs = append(errs, ValidationError{"phone", "must have between 10 and 15 digits"})
	}

	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errs = append(errs, ValidationError{"email", "is invalid"})
		}
	}
	if len(input.FirstName) > 100 {
		errs = append(errs, ValidationError{"first_name", "must not exceed 100 characters"})
	}
	if len(input.LastName) > 100 {
		errs = append(errs, ValidationError{"last_name", "must not exceed 100 characters"})
	}
	if input.State != "" && !stateRe.MatchString(strings.ToUpper(strings.TrimSpace(input.State))) {
		errs = append(errs, ValidationError{"state", "must be a two letter code"})
	}
	if input.ZipCode != "" && !zipRe.MatchString(strings.TrimSpace(input.ZipCode)) {
		errs = append(errs, ValidationError{"zip_code", "must be 5 digits or ZIP+4"})
	}
	if input.Status != "" && !entity.LeadStatus(input.Status).Valid() {
		errs = append(errs, ValidationError{"status", "is not a known status"})
	}
	if !entity.Disposition(input.Disposition).Valid() {
		errs = append(errs, ValidationError{"disposition", "is not a known disposition"})
	}
	return errs
}

// ValidateIDs reports every id that is not a UUID under field.
func ValidateIDs(field string, ids ...string) []ValidationError {
	var errs []ValidationError
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			errs = append(errs, ValidationError{field, fmt.Sprintf("%q is not a valid id", id)})
		}
	}
	return errs
}

func ValidateSettings(s *entity.Settings) []ValidationError {
	var errs []ValidationError

	sp := s.SpamProtection
	if sp.MaxMessagesPerHour < 0 || sp.MaxMessagesPerDay < 0 || sp.MinDelaySeconds < 0 {
		errs = append(errs, ValidationError{"spam_protection", "limits must not be negative"})
	}
	if sp.Enabled && sp.MaxMessagesPerDay > 0 && sp.MaxMessagesPerHour > sp.MaxMessagesPerDay {
		errs = append(errs, ValidationError{"spam_protection.max_messages_per_hour", "must not exceed the daily limit"})
	}

	ar := s.AutoRefill
	if ar.Enabled && ar.RefillPoints <= 0 {
		errs = append(errs, ValidationError{"auto_refill.refill_points", "must be > 0 when auto refill is on"})
	}
	if ar.ThresholdPoints < 0 {
		errs = append(errs, ValidationError{"auto_refill.threshold_points", "must not be negative"})
	}

	if s.EmailProvider.FromAddress != "" {
		if _, err := mail.ParseAddress(s.EmailProvider.FromAddress); err != nil {
			errs = append(errs, ValidationError{"email_provider.from_address", "is invalid"})
		}
	}
	if s.EmailProvider.SMTPPort < 0 || s.EmailProvider.SMTPPort > 65535 {
		errs = append(errs, ValidationError{"email_provider.smtp_port", "is out of range"})
	}

	if err := s.QuietHours.Validate(); err != nil {
		errs = append(errs, ValidationError{"quiet_hours", err.Error()})
	}
	if strings.TrimSpace(s.OptOutKeyword) == "" {
		errs = append(errs, ValidationError{"opt_out_keyword", "is required"})
	}
	if s.NameInference != "" && !s.NameInference.Valid() {
		errs = append(errs, ValidationError{"name_inference", "must be shorter_first, ordered or off"})
	}
	return errs
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
