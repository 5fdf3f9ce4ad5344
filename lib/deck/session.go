package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"gfx.cafe/gfx/deck/lib/instrumentation/prom"
	"gfx.cafe/gfx/deck/lib/tracing"
	"gfx.cafe/gfx/deck/lib/util/ring"
)

// Session runs scripts against a fresh ring each time. A Session owns no ring between runs and
// may be reused, but not concurrently.
type Session struct {
	ID uuid.UUID

	config Config
	log    *zap.Logger
}

func NewSession(config Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	return &Session{
		ID:     id,
		config: config,
		log:    log.With(zap.String("session", id.String())),
	}
}

// Execute parses a script from in, runs it and writes its outputs to out. Outputs produced
// before a fail fast stop or a cancellation are still written.
func (T *Session) Execute(ctx context.Context, in io.Reader, out io.Writer) error {
	script, err := Parse(in)
	if err != nil {
		return err
	}

	outputs, runErr := T.Run(ctx, script)
	if err = NewWriter(out, Format(T.config.Format)).Write(outputs...); err != nil {
		return err
	}
	return runErr
}

// Run executes every command of script in order on a ring of script.Capacity cells. Commands
// that fail are recorded as failed outputs; with FailFast set the run stops at the first one and
// returns its error as well.
func (T *Session) Run(ctx context.Context, script Script) ([]Output, error) {
	ctx, span := tracing.Tracer().Start(ctx, "deck run", trace.WithAttributes(
		attribute.String("session", T.ID.String()),
		attribute.Int("capacity", script.Capacity),
		attribute.Int("commands", len(script.Commands)),
	))
	defer span.End()

	if limit := T.config.capacityLimit(); script.Capacity > limit {
		err := fmt.Errorf("capacity %d above limit %d: %w", script.Capacity, limit, ring.ErrInvalidCapacity)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r, err := ring.NewRing[string](script.Capacity)
	if err != nil {
		err = fmt.Errorf("capacity %d: %w", script.Capacity, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	labels := prom.RunLabels{Format: T.config.Format}
	prom.Run.Started(labels).Inc()
	start := time.Now()

	T.log.Info("running script",
		zap.Int("capacity", script.Capacity),
		zap.Int("commands", len(script.Commands)))

	var outputs []Output
	failures := 0
	for _, cmd := range script.Commands {
		if err = ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return outputs, err
		}

		out, emit := T.exec(r, cmd, labels)
		if !emit {
			continue
		}
		outputs = append(outputs, out)
		if !out.Failed() {
			continue
		}

		failures++
		span.AddEvent("command failed", trace.WithAttributes(
			attribute.Int("line", cmd.Line),
			attribute.String("command", cmd.Name),
			attribute.String("error", out.Err.Error()),
		))
		if T.config.FailFast {
			span.SetStatus(codes.Error, out.Err.Error())
			return outputs, ErrorIn{Line: cmd.Line, Err: out.Err}
		}
	}

	prom.Ring.Length(labels).Set(float64(r.Length()))
	prom.Run.Finished(labels).Inc()
	elapsed := time.Since(start)
	prom.Run.Duration(labels).Observe(float64(elapsed) / float64(time.Millisecond))

	T.log.Info("script finished",
		zap.Int("outputs", len(outputs)),
		zap.Int("failures", failures),
		zap.Int("length", r.Length()),
		zap.Duration("elapsed", elapsed))

	return outputs, nil
}

// exec dispatches one command. Names, argument counts and argument contents are checked again
// so that a Script built by hand gets the same treatment as a parsed one, and both kinds of
// failure are counted and logged alike.
func (T *Session) exec(r *ring.Ring[string], cmd Command, labels prom.RunLabels) (Output, bool) {
	name := cmd.Name
	if _, ok := arities[name]; !ok {
		name = "unknown"
	}
	cmdLabels := labels.ToCommand(name)
	prom.Ring.Commands(cmdLabels).Inc()

	path := append([]string{cmd.Name}, cmd.Args...)
	var res result
	if _, err := parseCommand(path, cmd.Line); err != nil {
		res = none(errors.Unwrap(err))
	} else {
		res, _ = table.Call(r, path)
	}

	if res.err != nil {
		prom.Ring.Failures(cmdLabels.ToFailure(reason(res.err))).Inc()
		T.log.Debug("command failed",
			zap.Int("line", cmd.Line),
			zap.String("command", cmd.Name),
			zap.Error(res.err))
		return Output{Command: cmd, Err: CommandError{Command: cmd.Name, Err: res.err}}, true
	}
	if !res.emit {
		return Output{}, false
	}
	return Output{Command: cmd, Value: res.value}, true
}
