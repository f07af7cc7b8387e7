package archive_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shaper-sync/core/archive"
	"shaper-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func writeFiles(t *testing.T) (string, string) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "ShapedDevices.csv")
	jsonPath := filepath.Join(dir, "network.json")
	require.NoError(t, os.WriteFile(csvPath, []byte("Circuit ID\n"), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte("{}\n"), 0o644))
	return csvPath, jsonPath
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
}

func TestStore(t *testing.T) {
	csvPath, jsonPath := writeFiles(t)

	m := new(mocks.Client)
	m.On("PutObject", mock.Anything, "bucket", "snapshots/20261014T073000Z/ShapedDevices.csv", mock.Anything, int64(11),
		minio.PutObjectOptions{ContentType: "text/csv"}).Return(minio.UploadInfo{}, nil)
	m.On("PutObject", mock.Anything, "bucket", "snapshots/20261014T073000Z/network.json", mock.Anything, int64(3),
		minio.PutObjectOptions{ContentType: "application/json"}).Return(minio.UploadInfo{}, nil)

	a := archive.New(m, "bucket", "", archive.Config{Prefix: "/snapshots/"}, zap.NewNop())
	a.SetClock(fixedClock)

	snapshot, err := a.Store(context.Background(), csvPath, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "20261014T073000Z", snapshot)
	m.AssertExpectations(t)
}

func TestStore_Errors(t *testing.T) {
	csvPath, _ := writeFiles(t)

	t.Run("Missing File", func(t *testing.T) {
		a := archive.New(new(mocks.Client), "bucket", "", archive.Config{}, zap.NewNop())
		_, err := a.Store(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("Upload Fails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("quota"))

		a := archive.New(m, "bucket", "", archive.Config{}, zap.NewNop())
		_, err := a.Store(context.Background(), csvPath)
		assert.ErrorContains(t, err, "quota")
	})
}

func TestSnapshots(t *testing.T) {
	m := new(mocks.Client)
	m.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "snapshots/"}).Return(objects(
		"snapshots/20261013T000000Z/",
		"snapshots/20261014T000000Z/",
		"snapshots/notes.txt",
		"snapshots/garbage/",
		"snapshots/20261012T000000Z/",
	))

	a := archive.New(m, "bucket", "", archive.Config{}, zap.NewNop())
	names, err := a.Snapshots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"20261014T000000Z", "20261013T000000Z", "20261012T000000Z"}, names)
}

func TestRotate(t *testing.T) {
	m := new(mocks.Client)
	m.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "snapshots/"}).Return(objects(
		"snapshots/20261014T000000Z/",
		"snapshots/20261013T000000Z/",
		"snapshots/20261012T000000Z/",
	))
	m.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "snapshots/20261012T000000Z/", Recursive: true}).Return(objects(
		"snapshots/20261012T000000Z/ShapedDevices.csv",
		"snapshots/20261012T000000Z/network.json",
	))

	var removed []string
	m.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
			removed = append(removed, obj.Key)
		}
	}).Return(nil)

	a := archive.New(m, "bucket", "", archive.Config{Keep: 2}, zap.NewNop())
	n, err := a.Rotate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{
		"snapshots/20261012T000000Z/ShapedDevices.csv",
		"snapshots/20261012T000000Z/network.json",
	}, removed)
}

func TestRotate_KeepAll(t *testing.T) {
	m := new(mocks.Client)
	a := archive.New(m, "bucket", "", archive.Config{Keep: 0}, zap.NewNop())

	n, err := a.Rotate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	m.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchive(t *testing.T) {
	csvPath, jsonPath := writeFiles(t)

	m := new(mocks.Client)
	m.On("BucketExists", mock.Anything, "bucket").Return(false, nil)
	m.On("MakeBucket", mock.Anything, "bucket", mock.Anything).Return(nil)
	m.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	m.On("ListObjects", mock.Anything, "bucket", mock.Anything).Return(objects("snapshots/20261014T073000Z/"))

	a := archive.New(m, "bucket", "", archive.Config{Keep: 5}, zap.NewNop())
	a.SetClock(fixedClock)

	snapshot, err := a.Archive(context.Background(), csvPath, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "20261014T073000Z", snapshot)
	m.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestFetch(t *testing.T) {
	m := new(mocks.Client)
	m.On("GetObject", mock.Anything, "bucket", "snapshots/20261014T073000Z/network.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(`{"a":{}}`))), nil)

	a := archive.New(m, "bucket", "", archive.Config{}, zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, a.Fetch(context.Background(), "20261014T073000Z", "network.json", &buf))
	assert.Equal(t, `{"a":{}}`, buf.String())
}
