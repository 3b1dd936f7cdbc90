// Package errs defines the error kinds surfaced by the inspectors and the
// credential cipher.
package errs

import "fmt"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNetwork
	KindDecryption
	KindEncryption
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindNetwork:
		return "network error"
	case KindDecryption:
		return "decryption error"
	case KindEncryption:
		return "encryption error"
	case KindParse:
		return "parse error"
	default:
		return "unknown error"
	}
}

// Error carries a kind, a message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against another *Error of the same kind, so the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Sentinels for errors.Is.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrDecryption = &Error{Kind: KindDecryption}
	ErrEncryption = &Error{Kind: KindEncryption}
	ErrParse      = &Error{Kind: KindParse}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Network(msg string, err error) error {
	return &Error{Kind: KindNetwork, Msg: msg, Err: err}
}

func Encryption(msg string, err error) error {
	return &Error{Kind: KindEncryption, Msg: msg, Err: err}
}

func Parse(msg string, err error) error {
	return &Error{Kind: KindParse, Msg: msg, Err: err}
}

// Decryption never wraps a cause: every failure looks the same to the caller.
func Decryption() error {
	return &Error{Kind: KindDecryption, Msg: "invalid password or corrupted data"}
}
