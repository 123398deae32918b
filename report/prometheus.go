package report

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Sink = (*PromSink)(nil)

// PromSink exports the latest margin per comparison and a count of verdicts.
type PromSink struct {
	fasterBy *prometheus.GaugeVec
	verdicts *prometheus.CounterVec
}

func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	s := &PromSink{
		fasterBy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "memo_bench",
			Name:      "faster_by_milliseconds",
			Help:      "Margin of the most recent verdict, per comparison.",
		}, []string{"comparison"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memo_bench",
			Name:      "verdicts_total",
			Help:      "Verdicts emitted, per comparison and faster side.",
		}, []string{"comparison", "faster"}),
	}
	for _, c := range []prometheus.Collector{s.fasterBy, s.verdicts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PromSink) Emit(_ context.Context, r Report) error {
	s.fasterBy.WithLabelValues(string(r.Comparison)).Set(float64(r.Verdict.FasterBy))
	s.verdicts.WithLabelValues(string(r.Comparison), string(r.Verdict.Faster)).Inc()
	return nil
}
