package convert

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

type metrics struct {
	blocks prometheus.Counter
	bytes  prometheus.Counter
	shapes prometheus.Counter
	files  prometheus.Counter
	rows   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		blocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "car2pq_blocks_read_total",
			Help: "Number of archive blocks read.",
		}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "car2pq_block_bytes_read_total",
			Help: "Number of block data bytes read.",
		}),
		shapes: factory.NewCounter(prometheus.CounterOpts{
			Name: "car2pq_shapes_total",
			Help: "Number of distinct record shapes seen.",
		}),
		files: factory.NewCounter(prometheus.CounterOpts{
			Name: "car2pq_files_written_total",
			Help: "Number of parquet files written.",
		}),
		rows: factory.NewCounter(prometheus.CounterOpts{
			Name: "car2pq_rows_written_total",
			Help: "Number of parquet rows written.",
		}),
	}
}

// WriteMetrics writes the metrics gathered by g to w in the Prometheus
// text exposition format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
