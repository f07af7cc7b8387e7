package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"shaper-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// TimestampLayout names snapshot folders; it sorts lexically by time.
const TimestampLayout = "20060102T150405Z"

// Archiver stores copies of the written files in object storage.
type Archiver struct {
	client storage.Client
	bucket string
	region string
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates an archiver for bucket.
func New(client storage.Client, bucket, region string, cfg Config, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")
	if cfg.Prefix == "" {
		cfg.Prefix = "snapshots"
	}
	return &Archiver{
		client: client,
		bucket: bucket,
		region: region,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the time source.
func (a *Archiver) SetClock(now func() time.Time) {
	a.now = now
}

// Archive ensures the bucket, uploads files as a new snapshot and rotates old ones.
func (a *Archiver) Archive(ctx context.Context, files ...string) (string, error) {
	if err := storage.EnsureBucket(ctx, a.client, a.bucket, a.region); err != nil {
		return "", err
	}

	snapshot, err := a.Store(ctx, files...)
	if err != nil {
		return "", err
	}

	removed, err := a.Rotate(ctx)
	if err != nil {
		a.logger.Warn("Snapshot rotation failed", zap.Error(err))
	} else if removed > 0 {
		a.logger.Info("Rotated old snapshots", zap.Int("removed", removed))
	}

	return snapshot, nil
}

// Store uploads files under <prefix>/<UTC timestamp>/ and returns the snapshot name.
func (a *Archiver) Store(ctx context.Context, files ...string) (string, error) {
	snapshot := a.now().UTC().Format(TimestampLayout)
	base := path.Join(a.cfg.Prefix, snapshot)

	for _, file := range files {
		if err := a.upload(ctx, file, path.Join(base, filepath.Base(file))); err != nil {
			return "", err
		}
	}

	a.logger.Info("Snapshot archived",
		zap.String("bucket", a.bucket),
		zap.String("snapshot", snapshot),
		zap.Int("files", len(files)),
	)
	return snapshot, nil
}

func (a *Archiver) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(file),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Snapshots lists snapshot names, newest first.
func (a *Archiver) Snapshots(ctx context.Context) ([]string, error) {
	prefix := a.cfg.Prefix + "/"
	var names []string

	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		name := strings.Trim(strings.TrimPrefix(obj.Key, prefix), "/")
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		if _, err := time.Parse(TimestampLayout, name); err != nil {
			continue
		}
		names = append(names, name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Rotate deletes every snapshot older than the newest Keep.
func (a *Archiver) Rotate(ctx context.Context) (int, error) {
	if a.cfg.Keep <= 0 {
		return 0, nil
	}

	names, err := a.Snapshots(ctx)
	if err != nil {
		return 0, err
	}
	if len(names) <= a.cfg.Keep {
		return 0, nil
	}

	var keys []string
	for _, name := range names[a.cfg.Keep:] {
		opts := minio.ListObjectsOptions{Prefix: path.Join(a.cfg.Prefix, name) + "/", Recursive: true}
		for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
			if obj.Err != nil {
				return 0, fmt.Errorf("failed to list snapshot %s: %w", name, obj.Err)
			}
			keys = append(keys, obj.Key)
		}
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var failed []string
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", rerr.ObjectName, rerr.Err))
		}
	}
	if len(failed) > 0 {
		return 0, fmt.Errorf("snapshot rotation had %d errors: %v", len(failed), failed)
	}

	return len(names) - a.cfg.Keep, nil
}

// Fetch copies one archived file of a snapshot into w.
func (a *Archiver) Fetch(ctx context.Context, snapshot, name string, w io.Writer) error {
	key := path.Join(a.cfg.Prefix, snapshot, name)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	if _, err := io.Copy(w, obj); err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	return nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
