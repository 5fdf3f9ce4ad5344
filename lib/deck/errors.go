package deck

import (
	"errors"
	"strconv"
	"strings"

	"gfx.cafe/gfx/deck/lib/util/ring"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArity       = errors.New("wrong number of arguments")
	ErrMalformed      = errors.New("malformed input")
)

// ErrorIn locates a parse error on a line of the input.
type ErrorIn struct {
	Line int
	Err  error
}

func (T ErrorIn) Error() string {
	var b strings.Builder
	b.WriteString("line ")
	b.WriteString(strconv.Itoa(T.Line))
	b.WriteString(": ")
	b.WriteString(T.Err.Error())
	return b.String()
}

func (T ErrorIn) Unwrap() error {
	return T.Err
}

var _ error = ErrorIn{}

// CommandError is a command that reached the ring and was refused by it.
type CommandError struct {
	Command string
	Err     error
}

func (T CommandError) Error() string {
	return T.Command + ": " + T.Err.Error()
}

func (T CommandError) Unwrap() error {
	return T.Err
}

var _ error = CommandError{}

// reason is a short stable name for err, used as a metric label.
func reason(err error) string {
	switch {
	case errors.Is(err, ring.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ring.ErrUnderflow):
		return "underflow"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, ErrBadArity):
		return "bad_arity"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "other"
	}
}
