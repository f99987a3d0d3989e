package core

import (
	"errors"
	"fmt"
)

// Error codes. Problems met while typesetting (unknown signs, degenerate
// sizes) are collected and do not stop rendering; callers distinguish them by
// code.
const (
	NOERROR   int = 0
	EMISSING  int = 122 // sign, font or file does not exist
	EINVALID  int = 123 // attribute or parameter out of its domain, or a degenerate request was clamped
	EINTERNAL int = 125 // bug or failure of an underlying library
)

var codeText = map[int]string{
	NOERROR:   "OK",
	EMISSING:  "not found",
	EINVALID:  "invalid",
	EINTERNAL: "internal error",
}

func errorText(code int) string {
	if t, ok := codeText[code]; ok {
		return t
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a message suitable
// for users.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

// codedError decorates an underlying error with a code and a user message.
type codedError struct {
	cause error
	code  int
	msg   string
}

var _ AppError = codedError{}

func (e codedError) Unwrap() error {
	return e.cause
}

func (e codedError) Error() string {
	if e.msg != "" && e.msg != e.cause.Error() {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.cause)
}

func (e codedError) ErrorCode() int {
	return e.code
}

func (e codedError) UserMessage() string {
	return e.msg
}

// Error creates an error with an error code and a user message.
func Error(code int, format string, v ...interface{}) error {
	return codedError{
		cause: errors.New(errorText(code)),
		code:  code,
		msg:   fmt.Sprintf(format, v...),
	}
}

// WrapError wraps err, adding an error code and a user message.
// A nil err is replaced by an error with the code's text.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return codedError{cause: err, code: code, msg: fmt.Sprintf(format, v...)}
}

// Code returns the code of err: NOERROR for nil, EINTERNAL for errors
// without a code. For joined errors the code of the first coded error is
// returned.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// Codes returns the codes of all errors joined in err, in order, each at
// most once.
func Codes(err error) []int {
	var codes []int
	seen := make(map[int]bool)
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		if c := Code(err); !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	walk(err)
	return codes
}

// UserMessage returns the user message of err, or the text of its code if
// err carries none. For nil it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) && e.UserMessage() != "" {
		return e.UserMessage()
	}
	return errorText(Code(err))
}
