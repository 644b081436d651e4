package usecase

import "errors"

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnknownField   = "UNKNOWN_FIELD"
	CodeBadMapping     = "BAD_MAPPING"
	CodeLeadExists     = "LEAD_EXISTS"
	CodeNotFound       = "NOT_FOUND"
	CodeDNCExists      = "DNC_EXISTS"
	CodeUnknownAction  = "UNKNOWN_ACTION"
	CodeParseFailed    = "PARSE_FAILED"
	CodeInsufficient   = "INSUFFICIENT_POINTS"
	CodeDatabase       = "DATABASE_ERROR"
	CodeQueue          = "QUEUE_ERROR"
	CodeIntegration    = "INTEGRATION_ERROR"
	CodeNotConfigured  = "NOT_CONFIGURED"
	CodeEmptySelection = "EMPTY_SELECTION"
)

type DomainError struct {
	Code    string
	Message string
	// ExistingID is set for LEAD_EXISTS so callers can offer the existing record.
	ExistingID string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func dbError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}
