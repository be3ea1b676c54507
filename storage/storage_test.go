package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	disk := NewLocalDisk(t.TempDir(), "/storage/")

	require.NoError(t, disk.Put(ctx, "files/ebook.pdf", strings.NewReader("%PDF-1.4")))

	data, err := disk.Get(ctx, "files/ebook.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, "/storage/files/ebook.pdf", disk.URL("files/ebook.pdf"))

	require.NoError(t, disk.Delete(ctx, "files/ebook.pdf"))
	_, err = disk.Get(ctx, "files/ebook.pdf")
	assert.ErrorIs(t, err, ErrNotExist)

	// deleting a missing file is not an error
	assert.NoError(t, disk.Delete(ctx, "files/ebook.pdf"))
}

func TestLocalDiskRejectsTraversal(t *testing.T) {
	disk := NewLocalDisk(t.TempDir(), "/storage")

	err := disk.Put(context.Background(), "../outside.txt", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = disk.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestNewSelectsLocalByDefault(t *testing.T) {
	t.Setenv("STORAGE_DISK", "")
	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())

	disk, err := New(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &LocalDisk{}, disk)
}

func TestNewRejectsUnknownDisk(t *testing.T) {
	t.Setenv("STORAGE_DISK", "ftp")
	_, err := New(context.Background())
	assert.Error(t, err)
}

func TestNewS3DiskRequiresBucket(t *testing.T) {
	_, err := NewS3Disk(context.Background(), S3Options{Region: "us-east-1"})
	assert.Error(t, err)
}
