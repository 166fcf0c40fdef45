package gateway

import "errors"

// Kind is the stable error taxonomy exposed to callers.
type Kind string

const (
	KindUnauthenticated   Kind = "unauthenticated"
	KindInvalidArgument   Kind = "invalid_argument"
	KindContentRejected   Kind = "content_rejected"
	KindResourceExhausted Kind = "resource_exhausted"
	KindInternal          Kind = "internal"
)

// Error is a classified gateway failure. Message is safe to surface to the
// end user; the upstream cause is kept only for logs.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the kind from any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}
