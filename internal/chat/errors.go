package chat

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrRateLimited           = errors.New("classifier rate limited")
	ErrPaymentRequired       = errors.New("classifier requires payment")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrLookupUnavailable     = errors.New("weather lookup unavailable")
	ErrConfigurationMissing  = errors.New("configuration missing")
)

// ErrorKind is the machine readable failure class sent to clients.
type ErrorKind string

const (
	KindInvalidRequest        ErrorKind = "invalid_request"
	KindRateLimited           ErrorKind = "rate_limited"
	KindPaymentRequired       ErrorKind = "payment_required"
	KindClassifierUnavailable ErrorKind = "classifier_unavailable"
	KindLookupUnavailable     ErrorKind = "lookup_unavailable"
	KindConfigurationMissing  ErrorKind = "configuration_missing"
	KindInternal              ErrorKind = "internal"
)

// KindOf maps an error returned by Service.Reply to its kind.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrPaymentRequired):
		return KindPaymentRequired
	case errors.Is(err, ErrClassifierUnavailable):
		return KindClassifierUnavailable
	case errors.Is(err, ErrLookupUnavailable):
		return KindLookupUnavailable
	case errors.Is(err, ErrConfigurationMissing):
		return KindConfigurationMissing
	default:
		return KindInternal
	}
}
