// Package metrics counts the work done by a run and can dump the counters in
// the Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/matsen/lexrel/internal/relation"
	"github.com/matsen/lexrel/internal/tensor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all counters of one process.
type Registry struct {
	registry *prometheus.Registry

	RecordsTotal     *prometheus.CounterVec
	UnknownRelations prometheus.Counter
	PivotsTotal      *prometheus.CounterVec
	PairsTotal       *prometheus.CounterVec
	FindingsTotal    *prometheus.CounterVec
	ModelsTested     prometheus.Counter
	ShapeMismatches  prometheus.Counter
	LexiconRebuilds  prometheus.Counter
	CommandDuration  *prometheus.HistogramVec
}

// NewRegistry creates a registry with every metric registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.RecordsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexrel_tensor_records_total",
			Help: "Relation records read while building a tensor, by placement",
		},
		[]string{"outcome"},
	)
	r.UnknownRelations = f.NewCounter(prometheus.CounterOpts{
		Name: "lexrel_tensor_unknown_relations_total",
		Help: "Relation names absent from the relation list",
	})
	r.PivotsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexrel_pivots_total",
			Help: "Pivot words visited by bulk resolution",
		},
		[]string{"status"},
	)
	r.PairsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexrel_pairs_total",
			Help: "Word pairs seen by bulk resolution",
		},
		[]string{"outcome"},
	)
	r.FindingsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lexrel_findings_total",
			Help: "Relations found, by relation type",
		},
		[]string{"relation"},
	)
	r.ModelsTested = f.NewCounter(prometheus.CounterOpts{
		Name: "lexrel_enrichment_models_total",
		Help: "Similarity matrices tested for enrichment",
	})
	r.ShapeMismatches = f.NewCounter(prometheus.CounterOpts{
		Name: "lexrel_shape_mismatches_total",
		Help: "Inputs rejected because their shape disagreed with the tensor",
	})
	r.LexiconRebuilds = f.NewCounter(prometheus.CounterOpts{
		Name: "lexrel_lexicon_rebuilds_total",
		Help: "Times the SQLite lexicon cache was rebuilt from JSONL",
	})
	r.CommandDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lexrel_command_duration_seconds",
			Help:    "Wall time per command",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 120, 600, 3600},
		},
		[]string{"command"},
	)
	return r
}

// RecordBuild adds the placement counts of a tensor build.
func (r *Registry) RecordBuild(s tensor.BuildStats) {
	r.RecordsTotal.WithLabelValues("kept").Add(float64(s.Kept - s.Swapped))
	r.RecordsTotal.WithLabelValues("swapped").Add(float64(s.Swapped))
	r.RecordsTotal.WithLabelValues("dropped").Add(float64(s.Dropped))
	r.UnknownRelations.Add(float64(s.UnknownRelations))
}

// RecordBulk adds the counts of a bulk resolution.
func (r *Registry) RecordBulk(s relation.BulkStats) {
	r.PivotsTotal.WithLabelValues("known").Add(float64(s.Pivots - s.UnknownPivots))
	r.PivotsTotal.WithLabelValues("unknown").Add(float64(s.UnknownPivots))
	r.PairsTotal.WithLabelValues("examined").Add(float64(s.Pairs))
	r.PairsTotal.WithLabelValues("pruned").Add(float64(s.PairsPruned))
	r.PairsTotal.WithLabelValues("related").Add(float64(s.Related))
}

// RecordFinding counts one found relation.
func (r *Registry) RecordFinding(rel relation.Type) {
	r.FindingsTotal.WithLabelValues(string(rel)).Inc()
}

// RecordCommand observes the duration of a command.
func (r *Registry) RecordCommand(name string, d time.Duration) {
	r.CommandDuration.WithLabelValues(name).Observe(d.Seconds())
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
