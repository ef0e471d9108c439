package storage

import "context"

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// RunArchive captures the minimal S3-compatible operations used to keep
// simulation runs for later inspection.
type RunArchive interface {
	ListRuns(ctx context.Context, prefix string) ([]ObjectInfo, error)
	GetRun(ctx context.Context, key string) ([]byte, error)
	PutRun(ctx context.Context, key string, data []byte) error
}
