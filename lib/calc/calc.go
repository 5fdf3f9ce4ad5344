// Package calc evaluates integer expressions written in prefix (Polish) or postfix (reverse
// Polish) notation. Operands are kept on a ring used as a stack.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gfx.cafe/util/go/lambda"

	"gfx.cafe/gfx/deck/lib/instrumentation/prom"
	"gfx.cafe/gfx/deck/lib/util/ring"
)

var (
	ErrEmptyExpression    = errors.New("empty expression")
	ErrUnknownOperator    = errors.New("unknown operator")
	ErrNotEnoughOperands  = errors.New("not enough operands")
	ErrLeftoverOperands   = errors.New("leftover operands")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrOperandOutOfBounds = errors.New("operand out of bounds")
	ErrResultOutOfBounds  = errors.New("result out of bounds")
)

type Notation string

const (
	Postfix Notation = "postfix"
	Prefix  Notation = "prefix"
)

type operator func(a, b int64) (int64, error)

var operators = map[string]operator{
	"+": add,
	"-": sub,
	"*": mul,
	"/": floorDiv,
}

func outOfBounds(a int64, op string, b int64) error {
	return fmt.Errorf("%w: %d %s %d", ErrResultOutOfBounds, a, op, b)
}

func add(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, outOfBounds(a, "+", b)
	}
	return a + b, nil
}

func sub(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, outOfBounds(a, "-", b)
	}
	return a - b, nil
}

func mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	// MinInt64 * -1 wraps to MinInt64, which the division check alone does not catch
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, outOfBounds(a, "*", b)
	}
	return c, nil
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, outOfBounds(a, "/", b)
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q, nil
}

type token struct {
	text     string
	operator operator
	value    int64
}

func lex(text string) (token, error) {
	if op, ok := operators[text]; ok {
		return token{text: text, operator: op}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return token{}, fmt.Errorf("%w: %q", ErrOperandOutOfBounds, text)
		}
		return token{}, fmt.Errorf("%w: %q", ErrUnknownOperator, text)
	}
	return token{text: text, value: v}, nil
}

// Eval evaluates expr, whitespace separated, in the given notation.
func Eval(notation Notation, expr string) (int64, error) {
	labels := prom.CalcLabels{Notation: string(notation)}
	v, err := eval(notation, strings.Fields(expr), labels)
	prom.Calc.Evaluations(labels).Inc()
	if err != nil {
		prom.Calc.Failures(labels.ToFailure(reason(err))).Inc()
	}
	return v, err
}

func EvalPostfix(expr string) (int64, error) {
	return Eval(Postfix, expr)
}

func EvalPrefix(expr string) (int64, error) {
	return Eval(Prefix, expr)
}

func eval(notation Notation, fields []string, labels prom.CalcLabels) (int64, error) {
	prom.Calc.Tokens(labels).Observe(float64(len(fields)))
	if len(fields) == 0 {
		return 0, ErrEmptyExpression
	}

	tokens := make([]token, 0, len(fields))
	for _, field := range fields {
		tok, err := lex(field)
		if err != nil {
			return 0, err
		}
		tokens = append(tokens, tok)
	}

	switch notation {
	case Postfix:
	case Prefix:
		// prefix read backwards is postfix with the operands swapped
		for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
			tokens[i], tokens[j] = tokens[j], tokens[i]
		}
	default:
		return 0, fmt.Errorf("unknown notation %q", notation)
	}

	stack, err := ring.NewRing[int64](len(tokens))
	if err != nil {
		return 0, err
	}

	for _, tok := range tokens {
		if tok.operator == nil {
			// a ring as large as the token count never fills
			_ = stack.PushBack(tok.value)
			continue
		}

		top, err := stack.PopBack()
		if err != nil {
			return 0, fmt.Errorf("%w for %q", ErrNotEnoughOperands, tok.text)
		}
		next, err := stack.PopBack()
		if err != nil {
			return 0, fmt.Errorf("%w for %q", ErrNotEnoughOperands, tok.text)
		}

		a, b := next, top
		if notation == Prefix {
			a, b = top, next
		}
		v, err := tok.operator(a, b)
		if err != nil {
			return 0, err
		}
		_ = stack.PushBack(v)
	}

	if stack.Length() != 1 {
		rest := lambda.MapV(stack.Slice(), func(v int64) string {
			return strconv.FormatInt(v, 10)
		})
		return 0, fmt.Errorf("%w: %s", ErrLeftoverOperands, strings.Join(rest, " "))
	}
	return stack.PopBack()
}

func reason(err error) string {
	for _, known := range []struct {
		err  error
		name string
	}{
		{ErrEmptyExpression, "empty"},
		{ErrUnknownOperator, "unknown_operator"},
		{ErrNotEnoughOperands, "not_enough_operands"},
		{ErrLeftoverOperands, "leftover_operands"},
		{ErrDivisionByZero, "division_by_zero"},
		{ErrOperandOutOfBounds, "out_of_bounds"},
		{ErrResultOutOfBounds, "overflow"},
	} {
		if errors.Is(err, known.err) {
			return known.name
		}
	}
	return "other"
}
