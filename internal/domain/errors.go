package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when no passenger matches a ticket number.
type NotFoundError struct {
	Resource string
	Key      string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// InvoiceFileNotFoundError means the passenger exists but the store has no
// <ticket>.pdf for it.
type InvoiceFileNotFoundError struct {
	TicketNumber string
	Filename     string
	Err          error
}

func (e InvoiceFileNotFoundError) Error() string {
	return "Invoice PDF not found"
}

func (e InvoiceFileNotFoundError) Unwrap() error { return e.Err }

// PreconditionError reports an operation attempted out of order.
type PreconditionError struct {
	Msg string
}

func (e PreconditionError) Error() string {
	if e.Msg == "" {
		return "precondition failed"
	}
	return e.Msg
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// LoadError wraps any failure reading the passenger identity dataset.
type LoadError struct {
	Source string
	Msg    string
	Err    error
}

func (e LoadError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "cannot load passengers"
	}
	if e.Source != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Source)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e LoadError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsInvoiceFileNotFound(err error) bool {
	var target InvoiceFileNotFoundError
	return errors.As(err, &target)
}

func IsPrecondition(err error) bool {
	var target PreconditionError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsLoad(err error) bool {
	var target LoadError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
