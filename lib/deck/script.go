package deck

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type Command struct {
	Name string
	Args []string
	// Line is the 1-based line the command was read from.
	Line int
}

func (T Command) String() string {
	if len(T.Args) == 0 {
		return T.Name
	}
	return T.Name + " " + strings.Join(T.Args, " ")
}

// Script is a parsed command stream: a command count, the ring capacity and the commands.
type Script struct {
	Capacity int
	Commands []Command
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

// next returns the fields of the next non blank line.
func (T *lineReader) next() ([]string, bool) {
	for T.sc.Scan() {
		T.line++
		if fields := strings.Fields(T.sc.Text()); len(fields) != 0 {
			return fields, true
		}
	}
	return nil, false
}

func (T *lineReader) number(what string) (int, error) {
	fields, ok := T.next()
	if !ok {
		if err := T.sc.Err(); err != nil {
			return 0, err
		}
		return 0, ErrorIn{Line: T.line + 1, Err: fmt.Errorf("%w: expected %s", ErrMalformed, what)}
	}
	if len(fields) != 1 {
		return 0, ErrorIn{Line: T.line, Err: fmt.Errorf("%w: expected %s, got %q", ErrMalformed, what, strings.Join(fields, " "))}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, ErrorIn{Line: T.line, Err: fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)}
	}
	return n, nil
}

// Parse reads a script. Unknown command names and wrong argument counts are rejected here so
// that nothing unrecognised ever reaches the ring. Lines after the announced command count are
// ignored.
func Parse(r io.Reader) (Script, error) {
	lr := lineReader{sc: bufio.NewScanner(r)}

	count, err := lr.number("command count")
	if err != nil {
		return Script{}, err
	}
	if count < 0 {
		return Script{}, ErrorIn{Line: lr.line, Err: fmt.Errorf("%w: negative command count %d", ErrMalformed, count)}
	}

	capacity, err := lr.number("capacity")
	if err != nil {
		return Script{}, err
	}

	script := Script{
		Capacity: capacity,
		Commands: make([]Command, 0, min(count, 1024)),
	}
	for len(script.Commands) < count {
		fields, ok := lr.next()
		if !ok {
			if err = lr.sc.Err(); err != nil {
				return Script{}, err
			}
			return Script{}, ErrorIn{Line: lr.line + 1, Err: fmt.Errorf("%w: expected %d commands, got %d", ErrMalformed, count, len(script.Commands))}
		}

		cmd, err := parseCommand(fields, lr.line)
		if err != nil {
			return Script{}, err
		}
		script.Commands = append(script.Commands, cmd)
	}

	return script, nil
}

func parseCommand(fields []string, line int) (Command, error) {
	args, ok := table.Match(fields)
	if !ok {
		return Command{}, ErrorIn{Line: line, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])}
	}
	name := fields[0]
	if want := arities[name]; len(args) != want {
		return Command{}, ErrorIn{Line: line, Err: fmt.Errorf("%w: %s takes %d, got %d", ErrBadArity, name, want, len(args))}
	}
	// values are printed verbatim, one per line, so they must stay single tokens
	for _, arg := range args {
		if arg == "" || strings.ContainsFunc(arg, unicode.IsSpace) {
			return Command{}, ErrorIn{Line: line, Err: fmt.Errorf("%w: argument %q is not a single token", ErrMalformed, arg)}
		}
	}
	return Command{
		Name: name,
		Args: args,
		Line: line,
	}, nil
}
