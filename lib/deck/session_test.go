package deck

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aryann/difflib"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"gfx.cafe/gfx/deck/lib/instrumentation/prom"
	"gfx.cafe/gfx/deck/lib/util/ring"
)

func assertLines(t *testing.T, expected, actual string) {
	t.Helper()
	diff := difflib.Diff(
		strings.Split(strings.TrimSuffix(expected, "\n"), "\n"),
		strings.Split(strings.TrimSuffix(actual, "\n"), "\n"),
	)
	mismatch := false
	for _, d := range diff {
		if d.Delta != difflib.Common {
			mismatch = true
			break
		}
	}
	if !mismatch {
		return
	}
	var b strings.Builder
	for _, d := range diff {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	t.Errorf("output mismatch:\n%s", b.String())
}

func run(t *testing.T, config Config, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewSession(config, nil).Execute(context.Background(), strings.NewReader(input), &out)
	return out.String(), err
}

func TestSession_Scenarios(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:   "push back twice",
			input:  "5\n5\npush_back 4\npush_back 9\nget_front\nget_back\nsize\n",
			output: "4\n9\n2\n",
		},
		{
			name:   "push front twice",
			input:  "4\n5\npush_front 4\npush_front 9\nget_front\npop_back\n",
			output: "9\n4\n",
		},
		{
			name:   "overflow",
			input:  "8\n5\npush_back 1\npush_back 2\npush_back 3\npush_back 4\npush_back 5\npush_back 6\nsize\nget_back\n",
			output: "error: push_back: ring: capacity exceeded\n5\n5\n",
		},
		{
			name:   "pop back",
			input:  "5\n9\npush_back 1\npush_back 9\npop_back\nsize\nget_front\n",
			output: "9\n1\n1\n",
		},
		{
			name:   "pop front",
			input:  "5\n9\npush_back 1\npush_back 9\npop_front\nsize\nget_front\n",
			output: "1\n1\n9\n",
		},
		{
			name:   "underflow",
			input:  "5\n2\npop_back\npop_front\nget_back\nget_front\nsize\n",
			output: "error: pop_back: ring: underflow\nerror: pop_front: ring: underflow\nerror: get_back: ring: underflow\nerror: get_front: ring: underflow\n0\n",
		},
		{
			name:   "clear",
			input:  "6\n2\npush_back 1\npush_back 2\nclear\nsize\npush_back 3\nget_front\n",
			output: "0\n3\n",
		},
		{
			name:   "capacity",
			input:  "2\n7\npush_back 1\ncapacity\n",
			output: "7\n",
		},
		{
			name:   "stored error value",
			input:  "3\n1\npush_back error\npush_back x\npop_front\n",
			output: "error: push_back: ring: capacity exceeded\nerror\n",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := run(t, defaultConfig(), c.input)
			if err != nil {
				t.Fatal(err)
			}
			assertLines(t, c.output, out)
		})
	}
}

func TestSession_Legacy(t *testing.T) {
	conf := defaultConfig()
	conf.Format = string(FormatLegacy)
	out, err := run(t, conf, "3\n1\npop_back\npush_back error\nget_back\n")
	if err != nil {
		t.Fatal(err)
	}
	// the legacy format cannot tell these two lines apart
	assertLines(t, "error\nerror\n", out)
}

func TestSession_JSON(t *testing.T) {
	conf := defaultConfig()
	conf.Format = string(FormatJSON)
	out, err := run(t, conf, "3\n1\npop_back\npush_back error\nget_back\n")
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t,
		`{"line":3,"command":"pop_back","error":"pop_back: ring: underflow"}
{"line":5,"command":"get_back","value":"error"}
`, out)
}

func TestSession_FailFast(t *testing.T) {
	conf := defaultConfig()
	conf.FailFast = true
	out, err := run(t, conf, "4\n1\npush_back 1\nget_front\npush_back 2\nsize\n")
	if !errors.Is(err, ring.ErrCapacityExceeded) {
		t.Fatal("expected capacity exceeded but got", err)
	}
	var in ErrorIn
	if !errors.As(err, &in) || in.Line != 5 {
		t.Error("expected the failure to be located on line 5 but got", err)
	}
	var cmdErr CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != "push_back" {
		t.Error("expected a push_back command error but got", err)
	}
	assertLines(t, "1\nerror: push_back: ring: capacity exceeded\n", out)
}

func TestSession_InvalidCapacity(t *testing.T) {
	for _, input := range []string{"1\n0\nsize\n", "1\n-3\nsize\n"} {
		_, err := run(t, defaultConfig(), input)
		if !errors.Is(err, ring.ErrInvalidCapacity) {
			t.Error("expected invalid capacity but got", err)
		}
	}
}

func TestSession_CapacityLimit(t *testing.T) {
	_, err := run(t, defaultConfig(), "1\n9223372036854775807\nsize\n")
	if !errors.Is(err, ring.ErrInvalidCapacity) {
		t.Error("expected invalid capacity but got", err)
	}

	conf := defaultConfig()
	conf.MaxCapacity = 4
	if _, err = run(t, conf, "1\n5\nsize\n"); !errors.Is(err, ring.ErrInvalidCapacity) {
		t.Error("expected a capacity above the limit to be rejected but got", err)
	}
	out, err := run(t, conf, "1\n4\ncapacity\n")
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, "4\n", out)

	// a hand-built config without a limit still cannot outgrow the ring
	if _, err = NewSession(Config{Format: string(FormatText)}, nil).Run(context.Background(), Script{Capacity: ring.MaxCapacity + 1}); !errors.Is(err, ring.ErrInvalidCapacity) {
		t.Error("expected invalid capacity but got", err)
	}
}

func TestSession_ParseError(t *testing.T) {
	out, err := run(t, defaultConfig(), "2\n5\npush_back 1\nexec rm\n")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatal("expected unknown command but got", err)
	}
	if out != "" {
		t.Error("nothing should run when the script does not parse, got", out)
	}
}

func TestSession_HandBuiltScript(t *testing.T) {
	malformed := prom.Ring.Failures(prom.FailureLabels{Command: "push_back", Reason: "malformed"})
	before := testutil.ToFloat64(malformed)

	core, logs := observer.New(zap.DebugLevel)
	s := NewSession(defaultConfig(), zap.New(core))
	outputs, err := s.Run(context.Background(), Script{
		Capacity: 2,
		Commands: []Command{
			{Name: "push_back", Line: 1},
			{Name: "drop_table", Line: 2},
			{Name: "push_back", Args: []string{"7"}, Line: 3},
			{Name: "get_back", Line: 4},
			{Name: "push_back", Args: []string{"error: pop_back: ring: underflow"}, Line: 5},
			{Name: "push_front", Args: []string{""}, Line: 6},
			{Name: "pop_back", Line: 7},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 6 {
		t.Fatal("expected 6 outputs but got", outputs)
	}
	if !errors.Is(outputs[0].Err, ErrBadArity) {
		t.Error("expected bad arity but got", outputs[0].Err)
	}
	if !errors.Is(outputs[1].Err, ErrUnknownCommand) {
		t.Error("expected unknown command but got", outputs[1].Err)
	}
	if outputs[2].Failed() || outputs[2].Value != "7" {
		t.Error("expected 7 but got", outputs[2])
	}
	for _, out := range outputs[3:5] {
		if !errors.Is(out.Err, ErrMalformed) {
			t.Error("expected a malformed argument to be refused but got", out)
		}
	}
	if outputs[5].Failed() || outputs[5].Value != "7" {
		t.Error("expected only 7 to have been stored but got", outputs[5])
	}

	if got := testutil.ToFloat64(malformed) - before; got != 1 {
		t.Error("expected 1 malformed push_back failure to be counted but got", got)
	}
	if got := logs.FilterMessage("command failed").Len(); got != 4 {
		t.Error("expected 4 failures to be logged but got", got)
	}
}

func TestSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(defaultConfig(), nil)
	outputs, err := s.Run(ctx, Script{
		Capacity: 1,
		Commands: []Command{{Name: "size", Line: 3}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Error("expected cancellation but got", err)
	}
	if len(outputs) != 0 {
		t.Error("expected no outputs but got", outputs)
	}
}
