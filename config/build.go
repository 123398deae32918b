package config

import (
	"context"
	"fmt"
	"io"

	"github.com/on-the-ground/memo_bench/memo"
	"github.com/on-the-ground/memo_bench/report"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return l, fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return l, nil
}

func (c Config) encoder() (zapcore.Encoder, error) {
	switch c.Log.Format {
	case "json":
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case "", "console":
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), nil
	default:
		return nil, fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
}

func (c Config) newLogger(out io.Writer, level zapcore.Level) (*zap.Logger, error) {
	encoder, err := c.encoder()
	if err != nil {
		return nil, err
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), level)), nil
}

// NewLogger builds the diagnostic logger, filtered by log.level.
func (c Config) NewLogger(out io.Writer) (*zap.Logger, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return c.newLogger(out, level)
}

// NewStore builds the configured cache backend. The returned close func
// releases backend resources and is never nil.
func (c Config) NewStore() (memo.Store, func(), error) {
	noop := func() {}
	switch c.Cache.Backend {
	case BackendRotating:
		return memo.NewRotatingStore(c.Cache.MaxSize), noop, nil
	case BackendSharded:
		return memo.NewShardedStore(c.Cache.Shards, c.Cache.MaxSize), noop, nil
	case BackendRistretto:
		s, err := memo.NewRistrettoStore(c.Cache.NumCounters, c.Cache.MaxCost)
		if err != nil {
			return nil, noop, fmt.Errorf("config: ristretto: %w", err)
		}
		return s, s.Close, nil
	case BackendMemDB:
		s, err := memo.NewMemDBStore()
		if err != nil {
			return nil, noop, fmt.Errorf("config: memdb: %w", err)
		}
		return s, noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Cache.Backend)
	}
}

// NewSink builds the configured sinks behind one report.Sink. The log sink
// writes to out at info level whatever log.level is, since reports are the
// benchmark's output. With a positive async_buffer the sinks are fed through
// an AsyncSink, and the returned close func drains it.
func (c Config) NewSink(
	ctx context.Context,
	out io.Writer,
	reg prometheus.Registerer,
) (report.Sink, func() error, error) {
	sinks := make([]report.Sink, 0, len(c.Sinks))
	for _, name := range c.Sinks {
		switch name {
		case SinkLog:
			logger, err := c.newLogger(out, zapcore.InfoLevel)
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, report.NewZapSink(logger.Named("report"), zapcore.InfoLevel))
		case SinkMetrics:
			s, err := report.NewPromSink(reg)
			if err != nil {
				return nil, nil, fmt.Errorf("config: metrics sink: %w", err)
			}
			sinks = append(sinks, s)
		default:
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSink, name)
		}
	}

	var sink report.Sink = report.Multi(sinks...)
	if c.AsyncBuffer > 0 {
		async := report.NewAsyncSink(ctx, c.AsyncBuffer, sink)
		return async, async.Close, nil
	}
	return sink, func() error { return nil }, nil
}
