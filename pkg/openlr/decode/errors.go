package decode

import "fmt"

// Code names a wire-level decode failure, per spec.md §6.4.
type Code string

const (
	CodeNoCandidatesForLRP     Code = "NoCandidatesForLRP"
	CodeRouteNotFound          Code = "RouteNotFound"
	CodeRouteLengthOutOfBounds Code = "RouteLengthOutOfBounds"
	CodeMatchingFailed         Code = "MatchingFailed"
	CodeOffsetTooLarge         Code = "OffsetTooLarge"
	CodeDisconnectedGeometries Code = "DisconnectedGeometries"
	CodeInvalidReference       Code = "InvalidReference"
)

// Error is the discriminated failure the decoder returns, modeled on the
// module family's typed-code-plus-message error shape: a Code callers can
// switch on or match with errors.Is against any *Error carrying the same
// Code (see Is), an
// LRP-pair context where applicable, and an optional wrapped cause.
type Error struct {
	Code       Code
	Message    string
	FromLRP    int
	ToLRP      int
	HasLRPPair bool
	Cause      error
}

func (e *Error) Error() string {
	if e.HasLRPPair {
		if e.Cause != nil {
			return fmt.Sprintf("decode: %s (lrp %d -> %d): %s: %v", e.Code, e.FromLRP, e.ToLRP, e.Message, e.Cause)
		}
		return fmt.Sprintf("decode: %s (lrp %d -> %d): %s", e.Code, e.FromLRP, e.ToLRP, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("decode: %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target carries the same Code, so callers can write
// errors.Is(err, &decode.Error{Code: decode.CodeNoCandidatesForLRP}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newLRPPairError(code Code, from, to int, message string) *Error {
	return &Error{Code: code, Message: message, FromLRP: from, ToLRP: to, HasLRPPair: true}
}

func wrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
