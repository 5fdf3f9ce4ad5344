package deck

import (
	"encoding/json"
	"io"

	"gfx.cafe/util/go/bufpool"
	"gfx.cafe/util/go/lambda"
)

// Output is one entry of a run's result: either a value produced by a command or the error a
// command failed with. Exactly one of Value and Err is meaningful.
type Output struct {
	Command Command
	Value   string
	Err     error
}

func (T Output) Failed() bool {
	return T.Err != nil
}

type jsonOutput struct {
	Line    int     `json:"line"`
	Command string  `json:"command"`
	Value   *string `json:"value,omitempty"`
	Error   string  `json:"error,omitempty"`
}

var renderers = map[Format]func(Output) string{
	FormatText: func(o Output) string {
		if o.Failed() {
			return "error: " + o.Err.Error()
		}
		return o.Value
	},
	FormatLegacy: func(o Output) string {
		if o.Failed() {
			return "error"
		}
		return o.Value
	},
	FormatJSON: func(o Output) string {
		j := jsonOutput{
			Line:    o.Command.Line,
			Command: o.Command.Name,
		}
		if o.Failed() {
			j.Error = o.Err.Error()
		} else {
			j.Value = &o.Value
		}
		b, _ := json.Marshal(j)
		return string(b)
	},
}

type Writer struct {
	w      io.Writer
	render func(Output) string
}

func NewWriter(w io.Writer, format Format) *Writer {
	render, ok := renderers[format]
	if !ok {
		render = renderers[FormatText]
	}
	return &Writer{
		w:      w,
		render: render,
	}
}

// Write renders outputs one per line, in order, with a single write.
func (T *Writer) Write(outputs ...Output) error {
	if len(outputs) == 0 {
		return nil
	}

	lines := lambda.MapV(outputs, T.render)
	size := 0
	for _, line := range lines {
		size += len(line) + 1
	}

	buf := bufpool.Get(size)
	buf.Reset()
	defer bufpool.Put(buf)
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	_, err := T.w.Write(buf.Bytes())
	return err
}
