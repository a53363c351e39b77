package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUploadAPI simulates the blob store with configurable per-file delays
// and failures, keyed by file content.
type fakeUploadAPI struct {
	mu        sync.Mutex
	delays    map[string]time.Duration
	failOn    map[string]bool
	destroyed []string
}

func (f *fakeUploadAPI) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, string, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	name := string(content)
	if d, ok := f.delays[name]; ok {
		time.Sleep(d)
	}
	if f.failOn[name] {
		return "", "", errors.New("upload rejected")
	}
	id := folder + "/" + name
	return "https://cdn.test/" + id, id, nil
}

func (f *fakeUploadAPI) Destroy(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func readers(names ...string) []io.Reader {
	files := make([]io.Reader, len(names))
	for i, name := range names {
		files[i] = bytes.NewBufferString(name)
	}
	return files
}

func TestUploadAllPreservesInputOrder(t *testing.T) {
	// First file completes last; order must still follow the input.
	api := &fakeUploadAPI{delays: map[string]time.Duration{
		"first":  50 * time.Millisecond,
		"second": 20 * time.Millisecond,
		"third":  0,
	}}
	svc := newPhotoServiceWithAPI(api, zap.NewNop())

	urls, err := svc.UploadAll(context.Background(), readers("first", "second", "third"), "user-1", "entry-1")
	require.NoError(t, err)
	require.Len(t, urls, 3)

	for i, name := range []string{"first", "second", "third"} {
		assert.Equal(t, fmt.Sprintf("https://cdn.test/users/user-1/journals/entry-1/%s", name), urls[i])
	}
}

func TestUploadAllEmptyBatch(t *testing.T) {
	svc := newPhotoServiceWithAPI(&fakeUploadAPI{}, zap.NewNop())

	urls, err := svc.UploadAll(context.Background(), nil, "user-1", "entry-1")
	require.NoError(t, err)
	assert.Nil(t, urls)
}

func TestUploadAllFailureDestroysSiblings(t *testing.T) {
	api := &fakeUploadAPI{failOn: map[string]bool{"second": true}}
	svc := newPhotoServiceWithAPI(api, zap.NewNop())

	urls, err := svc.UploadAll(context.Background(), readers("first", "second", "third"), "user-1", "entry-1")
	require.Error(t, err)
	assert.Nil(t, urls)

	// The siblings that reached the store were cleaned up; nothing orphaned.
	api.mu.Lock()
	defer api.mu.Unlock()
	sort.Strings(api.destroyed)
	assert.Equal(t, []string{
		"users/user-1/journals/entry-1/first",
		"users/user-1/journals/entry-1/third",
	}, api.destroyed)
}

func TestPhotoFolderConvention(t *testing.T) {
	assert.Equal(t, "users/u1/journals/e9", PhotoFolder("u1", "e9"))
}
