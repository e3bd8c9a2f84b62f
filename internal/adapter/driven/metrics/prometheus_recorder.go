// Package metrics publica as métricas de uma execução de sync no Pushgateway.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "cur2_sync"
	// JobName é o job usado no agrupamento do Pushgateway.
	JobName = "cur2_parquet_sync"
)

// PrometheusRecorderImpl acumula contadores em um registry próprio e os envia
// ao Pushgateway ao final da execução. Sem URL configurada nada é enviado.
type PrometheusRecorderImpl struct {
	mu       sync.Mutex
	registry *prometheus.Registry
	url      string
	console  types.ConsoleInterface
	now      func() time.Time

	filesProcessed *prometheus.CounterVec
	bytesWritten   *prometheus.CounterVec
	manifests      *prometheus.CounterVec
	objectsDeleted *prometheus.CounterVec
	lastRun        prometheus.Gauge
	lastRunFailed  prometheus.Gauge
}

// NewMetricsRecorder cria o recorder. pushgatewayURL pode ser vazio.
func NewMetricsRecorder(pushgatewayURL string, console types.ConsoleInterface) repository.MetricsRecorder {
	return newPrometheusRecorder(pushgatewayURL, console)
}

func newPrometheusRecorder(pushgatewayURL string, console types.ConsoleInterface) *PrometheusRecorderImpl {
	r := &PrometheusRecorderImpl{
		registry: prometheus.NewRegistry(),
		url:      pushgatewayURL,
		console:  console,
		now:      time.Now,
	}

	r.filesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Data files processed, by tier and result",
		},
		[]string{"tier", "result"},
	)
	r.bytesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parquet_bytes_written_total",
			Help:      "Bytes of parquet uploaded to the target bucket",
		},
		[]string{"tier"},
	)
	r.manifests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifests_total",
			Help:      "Manifests visited, by tier and final state",
		},
		[]string{"tier", "state"},
	)
	r.objectsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_objects_deleted_total",
			Help:      "Target objects removed during reconciliation",
		},
		[]string{"tier"},
	)
	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last finished run",
	})
	r.lastRunFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_failed",
		Help:      "1 when the last run finished with failures",
	})

	r.registry.MustRegister(
		r.filesProcessed,
		r.bytesWritten,
		r.manifests,
		r.objectsDeleted,
		r.lastRun,
		r.lastRunFailed,
	)
	return r
}

// ObserveFile conta um arquivo de dados processado.
func (r *PrometheusRecorderImpl) ObserveFile(tier string, success bool, bytes int) {
	result := "success"
	if !success {
		result = "error"
	}
	r.filesProcessed.WithLabelValues(tier, result).Inc()
	if success {
		r.bytesWritten.WithLabelValues(tier).Add(float64(bytes))
	}
}

// ObserveManifest conta o estado final de um manifest.
func (r *PrometheusRecorderImpl) ObserveManifest(tier, state string) {
	r.manifests.WithLabelValues(tier, state).Inc()
}

// ObserveDeleted soma os objetos removidos na reconciliação.
func (r *PrometheusRecorderImpl) ObserveDeleted(tier string, n int) {
	if n > 0 {
		r.objectsDeleted.WithLabelValues(tier).Add(float64(n))
	}
}

// Finish fecha a execução e envia o registry ao Pushgateway.
func (r *PrometheusRecorderImpl) Finish(runID string, failed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastRun.Set(float64(r.now().Unix()))
	r.lastRunFailed.Set(boolToFloat(failed))

	if r.url == "" {
		r.console.LogDebug("Pushgateway not configured, metrics kept local")
		return nil
	}

	err := push.New(r.url, JobName).
		Gatherer(r.registry).
		Grouping("run_id", runID).
		Push()
	if err != nil {
		return fmt.Errorf("push to %s: %w", r.url, err)
	}
	r.console.LogDebug("Metrics for run %s pushed to %s (failed=%t)", runID, r.url, failed)
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
