package report

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Sink = (*ZapSink)(nil)

// ZapSink writes one log entry per report: the comparison label as message,
// with fasterFunction and fasterBy fields.
type ZapSink struct {
	logger *zap.Logger
	level  zapcore.Level
}

func NewZapSink(logger *zap.Logger, level zapcore.Level) *ZapSink {
	return &ZapSink{logger: logger, level: level}
}

func (z *ZapSink) Emit(_ context.Context, r Report) error {
	if ce := z.logger.Check(z.level, r.Comparison.Label()); ce != nil {
		ce.Write(
			zap.String("fasterFunction", string(r.Verdict.Faster)),
			zap.Float64("fasterBy", float64(r.Verdict.FasterBy)),
		)
	}
	return nil
}
