package scrape

import "fmt"

// OutcomeKind discriminates the FetchOutcome union.
type OutcomeKind uint8

// Fetch outcome kinds.
const (
	OutcomeOK OutcomeKind = iota
	OutcomeTransportError
	OutcomeHTTPStatusError
)

// FetchOutcome is the tagged result of a transport call. Failures are
// carried explicitly through every stage; they are never silently coerced
// into an empty success.
type FetchOutcome struct {
	Kind       OutcomeKind
	Body       []byte
	StatusCode int
	Reason     error
}

// Ok wraps raw content in a successful outcome.
func Ok(body []byte) FetchOutcome {
	return FetchOutcome{Kind: OutcomeOK, Body: body}
}

// TransportFailure marks a network or proxy level failure.
func TransportFailure(reason error) FetchOutcome {
	return FetchOutcome{Kind: OutcomeTransportError, Reason: reason}
}

// StatusFailure marks a non-2xx HTTP response.
func StatusFailure(code int) FetchOutcome {
	return FetchOutcome{Kind: OutcomeHTTPStatusError, StatusCode: code}
}

// OK reports whether the outcome carries usable content.
func (o FetchOutcome) OK() bool {
	return o.Kind == OutcomeOK
}

// Err renders the failure for logging; nil on success.
func (o FetchOutcome) Err() error {
	switch o.Kind {
	case OutcomeOK:
		return nil
	case OutcomeHTTPStatusError:
		return fmt.Errorf("http status %d", o.StatusCode)
	default:
		if o.Reason != nil {
			return o.Reason
		}
		return fmt.Errorf("transport error")
	}
}
