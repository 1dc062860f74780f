package errors

import (
	"fmt"
)

type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no code is given. It is set to 500,
// Internal Server Error.
var DefaultCode = 500

type apiError struct {
	code  int
	msg   string
	cause *apiError
}

func (err *apiError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *apiError) Code() int {
	return err.code
}

func (err *apiError) Message() string {
	return err.msg
}

func (err *apiError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

type ErrorEnricher func(error) error

func WithCode(code int) ErrorEnricher {
	return func(err error) error {
		if err, ok := err.(*apiError); ok {
			err.code = code
			return err
		}

		return &apiError{
			msg:  err.Error(),
			code: code,
		}
	}
}

func WithCause(cause error) ErrorEnricher {
	var apiCause *apiError
	switch cause := cause.(type) {
	case *apiError:
		apiCause = cause
	default:
		apiCause = &apiError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		if err, ok := err.(*apiError); ok {
			err.cause = apiCause
			return err
		}

		return &apiError{
			msg:   err.Error(),
			code:  apiCause.code,
			cause: apiCause,
		}
	}
}

func New(msg string, fs ...ErrorEnricher) error {
	var err error
	err = &apiError{
		msg:  msg,
		code: DefaultCode,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

// CodeOf extracts the code carried by err, falling back to DefaultCode
// for plain errors.
func CodeOf(err error) int {
	if err, ok := err.(Error); ok {
		return err.Code()
	}
	return DefaultCode
}
