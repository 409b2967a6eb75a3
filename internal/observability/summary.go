package observability

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"todo/internal/diag"
)

// OpStats summarizes the store calls made for one operation.
type OpStats struct {
	Op     string
	OK     int
	Errors int
	MeanMS float64
}

// StoreSummary reads the store instruments gathered by g, sorted by op.
func StoreSummary(g prometheus.Gatherer) ([]OpStats, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	byOp := make(map[string]*OpStats)
	stats := func(op string) *OpStats {
		s, ok := byOp[op]
		if !ok {
			s = &OpStats{Op: op}
			byOp[op] = s
		}
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case Namespace + "_store_requests_total":
			for _, m := range mf.GetMetric() {
				var op, outcome string
				for _, lp := range m.GetLabel() {
					switch lp.GetName() {
					case "op":
						op = lp.GetValue()
					case "outcome":
						outcome = lp.GetValue()
					}
				}
				n := int(m.GetCounter().GetValue())
				if outcome == "ok" {
					stats(op).OK += n
				} else {
					stats(op).Errors += n
				}
			}
		case Namespace + "_store_request_duration_ms":
			for _, m := range mf.GetMetric() {
				h := m.GetHistogram()
				if h.GetSampleCount() == 0 {
					continue
				}
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "op" {
						stats(lp.GetValue()).MeanMS = h.GetSampleSum() / float64(h.GetSampleCount())
					}
				}
			}
		}
	}

	result := make([]OpStats, 0, len(byOp))
	for _, s := range byOp {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Op < result[j].Op })
	return result, nil
}

// LogStoreSummary writes one line per store operation to sink.
func LogStoreSummary(sink diag.Sink, g prometheus.Gatherer) {
	stats, err := StoreSummary(g)
	if err != nil {
		sink.Warn("store metrics unavailable", "err", err)
		return
	}
	for _, s := range stats {
		sink.Info("store requests", "op", s.Op, "ok", s.OK, "errors", s.Errors, "mean_ms", fmt.Sprintf("%.1f", s.MeanMS))
	}
}
