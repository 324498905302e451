package actor

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/flowbench/pkg/domain"
)

// ErrorKind distinguishes configuration failures from activation failures.
type ErrorKind int

const (
	// KindSetUp is a configuration error: the flow must not start.
	KindSetUp ErrorKind = iota + 1
	// KindActivation is a failure of a single Execute call.
	KindActivation
)

func (k ErrorKind) String() string {
	switch k {
	case KindSetUp:
		return "setup"
	case KindActivation:
		return "activation"
	default:
		return "unknown"
	}
}

// maxInputRepr is the number of runes of the input shown in error messages.
const maxInputRepr = 120

// ActorError is the error type returned by actors.
type ActorError struct {
	Kind  ErrorKind
	Actor string
	// Input is the token being processed when the error happened, if any.
	Input *domain.Token
	Err   error
}

func (e *ActorError) Error() string {
	if e.Input == nil {
		return fmt.Sprintf("%s: %v", e.Actor, e.Err)
	}
	repr := fmt.Sprintf("%v", e.Input.Payload)
	if utf8.RuneCountInString(repr) > maxInputRepr {
		repr = string([]rune(repr)[:maxInputRepr]) + "..."
	}
	return fmt.Sprintf("%s: %v (input: %s)", e.Actor, e.Err, repr)
}

func (e *ActorError) Unwrap() error {
	return e.Err
}

// IsSetUpError reports whether err is (or wraps) a configuration error.
func IsSetUpError(err error) bool {
	var ae *ActorError
	return errors.As(err, &ae) && ae.Kind == KindSetUp
}

// IsActivationError reports whether err is (or wraps) an activation error.
func IsActivationError(err error) bool {
	var ae *ActorError
	return errors.As(err, &ae) && ae.Kind == KindActivation
}

// recovered guards a work function call, turning panics into errors.
func recovered[T any](fn func() (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
