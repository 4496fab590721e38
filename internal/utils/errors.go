package utils

import "strings"

// AppError annotates a failure with the operation that raised it. Op is a
// short dotted name like "dashboard.refresh", stable enough to grep logs and
// dashboards by; Msg is the human-facing summary the HTTP layer may expose.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with the operation and message that observed it.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}
