// internal/app/ops/errors.go
package ops

import "fmt"

// ErrKind classifies a structured operation failure.
type ErrKind int

const (
	KindValidation ErrKind = iota
	KindNotFound
	KindAccessDenied
	KindConflict
	KindIntegrity
)

// Machine-readable conflict codes surfaced to callers.
const (
	CodeCitiesExist        = "CITIES_EXIST"
	CodeNeighborhoodsExist = "NEIGHBORHOODS_EXIST"
	CodeActivistsExist     = "ACTIVISTS_EXIST"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeDuplicateUser      = "DUPLICATE_USER"
	CodeAlreadyAssigned    = "ALREADY_ASSIGNED"
	CodePendingInvitation  = "PENDING_INVITATION"
)

// Error is a structured failure produced at the operation boundary. Anything
// that is not an *Error escaping a service is an internal fault: callers log
// it and show the caller a generic message with no internal detail.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	// Extra carries remediation context (dependent counts, names).
	Extra map[string]interface{}
}

func (e *Error) Error() string { return e.Message }

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundErr covers both truly-absent rows and rows outside the caller's
// visibility; the two are indistinguishable on purpose.
func NotFoundErr(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func DeniedErr(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

func ConflictErr(code, message string, extra map[string]interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Extra: extra}
}

func IntegrityErr(message string) *Error {
	return &Error{Kind: KindIntegrity, Message: message}
}

// AsError unwraps a structured operation error.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
