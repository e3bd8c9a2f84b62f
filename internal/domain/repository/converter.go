package repository

import "context"

// FormatConverter transforma um CSV gzip em bytes Parquet.
type FormatConverter interface {
	Convert(ctx context.Context, content []byte) ([]byte, error)
}

// MetricsRecorder recebe os eventos de uma execução para exposição em métricas.
type MetricsRecorder interface {
	ObserveFile(tier string, success bool, bytes int)
	ObserveManifest(tier, state string)
	ObserveDeleted(tier string, n int)
	Finish(runID string, failed bool) error
}
