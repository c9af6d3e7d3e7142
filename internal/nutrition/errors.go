package nutrition

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// FailureKind classifies why a lookup could not produce results.
// A missing remote credential and a too-short query are not failures:
// both resolve to (possibly empty) local results.
type FailureKind string

const (
	// KindUnavailable means the remote service could not be reached at all
	KindUnavailable FailureKind = "unavailable"
	// KindTimeout means the remote call exceeded its deadline
	KindTimeout FailureKind = "timeout"
	// KindRequest covers other request-level failures such as a malformed body
	KindRequest FailureKind = "request_failed"
	// KindUpstream means the remote service answered with a non-success status
	KindUpstream FailureKind = "upstream_error"
	// KindInternal means the local dataset could not be read
	KindInternal FailureKind = "internal"
	// KindCanceled means the caller abandoned the lookup before it finished
	KindCanceled FailureKind = "canceled"
)

// Failure is the error type returned by Resolve
type Failure struct {
	Kind       FailureKind
	StatusCode int
	// Body holds the raw remote response for KindUpstream
	Body string
	Err  error
}

func (f *Failure) Error() string {
	switch {
	case f.Kind == KindUpstream:
		return fmt.Sprintf("nutrition lookup %s: status %d: %s", f.Kind, f.StatusCode, f.Body)
	case f.Err != nil:
		return fmt.Sprintf("nutrition lookup %s: %v", f.Kind, f.Err)
	default:
		return fmt.Sprintf("nutrition lookup %s", f.Kind)
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Degradable reports whether local results may stand in for this failure
func (f *Failure) Degradable() bool {
	return f.Kind == KindTimeout || f.Kind == KindRequest
}

// AsFailure extracts a *Failure from err
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// classifyTransportError maps an HTTP client error to a failure kind
func classifyTransportError(err error) *Failure {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Failure{Kind: KindTimeout, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Failure{Kind: KindCanceled, Err: err}
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) ||
		(errors.As(err, &opErr) && opErr.Op == "dial") ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return &Failure{Kind: KindUnavailable, Err: err}
	}

	return &Failure{Kind: KindRequest, Err: err}
}
