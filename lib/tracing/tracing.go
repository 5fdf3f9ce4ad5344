package tracing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gfx.cafe/util/go/gotel"
	"gfx.cafe/util/go/gun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	ServiceName      string `env:"DECK_OTEL_SERVICE_NAME"`
	ServiceNamespace string `env:"DECK_OTEL_SERVICE_NAMESPACE"`
	Endpoint         string `env:"DECK_OTEL_ENDPOINT"`
	BatchTimeoutMS   int    `env:"DECK_OTEL_BATCH_TIMEOUT_MS"`
	SampleRate       string `env:"DECK_OTEL_SAMPLE_RATE"`
}

func defaultConfig() Config {
	return Config{
		ServiceName:      "deck",
		ServiceNamespace: "gfx.cafe/gfx",
	}
}

// Load reads the tracing config from the environment on top of the defaults.
func Load() Config {
	conf := defaultConfig()
	gun.Load(&conf)
	return conf
}

// Tracer is the tracer every deck component starts its spans from. Until Init installs a
// provider it hands out no-op spans.
func Tracer() trace.Tracer {
	return otel.Tracer("deck", trace.WithInstrumentationAttributes(
		attribute.String("component", "gfx.cafe/gfx/deck"),
	))
}

// Init installs the global tracer provider. Without an endpoint tracing stays disabled and the
// returned shutdown func does nothing.
func Init(ctx context.Context, conf Config) (gotel.ShutdownFunc, error) {
	if conf.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	providerOptions := []gotel.Option{
		gotel.WithServiceName(conf.ServiceName),
		gotel.WithServiceNamespace(conf.ServiceNamespace),
		gotel.WithEndpoint(conf.Endpoint),
	}

	if conf.BatchTimeoutMS > 0 {
		providerOptions = append(providerOptions, gotel.WithBatchTimeout(time.Duration(conf.BatchTimeoutMS)*time.Millisecond))
	}

	if conf.SampleRate != "" {
		sampler, err := parseSampleRate(conf.SampleRate)
		if err != nil {
			return nil, err
		}
		providerOptions = append(providerOptions, gotel.WithSampler(sampler))
	}

	return gotel.InitTracing(ctx, providerOptions...)
}

var ErrSampleRate = errors.New("bad sample rate")

// parseSampleRate reads never/off, always/on, a ratio in [0, 1], or a percentage written as
// "25%" or as a bare number above 1.
func parseSampleRate(rate string) (sdktrace.Sampler, error) {
	switch strings.ToLower(strings.TrimSpace(rate)) {
	case "never", "none", "off":
		return sdktrace.NeverSample(), nil
	case "always", "all", "on":
		return sdktrace.AlwaysSample(), nil
	}

	text, percent := strings.CutSuffix(strings.TrimSpace(rate), "%")
	ratio, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrSampleRate, rate, err)
	}
	if percent || ratio > 1 {
		ratio /= 100
	}
	if !(ratio >= 0 && ratio <= 1) {
		return nil, fmt.Errorf("%w %q: not in [0, 1] or [0%%, 100%%]", ErrSampleRate, rate)
	}
	return sdktrace.TraceIDRatioBased(ratio), nil
}
