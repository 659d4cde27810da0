package bundle

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assassin/internal/pkg/errs"
)

type uploaded struct {
	body        string
	contentType string
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]uploaded
	failOn  string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]uploaded)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, body io.Reader, contentType string) error {
	if key == f.failOn {
		return errors.New("boom")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = uploaded{body: string(data), contentType: contentType}
	return nil
}

func (f *fakeStorage) PresignDownload(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://objects.example.test/" + key + "?ttl=" + ttl.String(), nil
}

func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestPublishUploadsEveryFile(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"index.html":        "<html></html>",
		"bundle.js":         "console.log(1)",
		"bundle.js.map":     "{}",
		"css/style.css":     "body{}",
		".DS_Store":         "junk",
		".cache/ignored.js": "nope",
	})
	store := newFakeStorage()

	report, err := NewPublisher(store, dir, "/site/").Publish(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"bundle.js", "bundle.js.map", "css/style.css", "index.html"}, report.Files)
	assert.Equal(t, int64(len("<html></html>")+len("console.log(1)")+len("{}")+len("body{}")), report.Bytes)
	assert.Equal(t, "https://objects.example.test/site/index.html?ttl=24h0m0s", report.PreviewURL)

	assert.Len(t, store.objects, 4)
	assert.Equal(t, uploaded{body: "console.log(1)", contentType: "text/javascript; charset=utf-8"}, store.objects["site/bundle.js"])
	assert.Equal(t, "text/css; charset=utf-8", store.objects["site/css/style.css"].contentType)
	assert.Equal(t, "text/html; charset=utf-8", store.objects["site/index.html"].contentType)
}

func TestPublishWithoutPrefixOrIndex(t *testing.T) {
	dir := writeBundle(t, map[string]string{"bundle.js": "x"})
	store := newFakeStorage()

	report, err := NewPublisher(store, dir, "").Publish(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.PreviewURL)
	assert.Contains(t, store.objects, "bundle.js")
}

func TestPublishStopsOnUploadFailure(t *testing.T) {
	dir := writeBundle(t, map[string]string{"a.js": "a", "b.js": "b", "c.js": "c"})
	store := newFakeStorage()
	store.failOn = "b.js"

	report, err := NewPublisher(store, dir, "").Publish(context.Background())

	assert.True(t, errs.HasCode(err, errs.ErrUploadFailed))
	assert.Equal(t, []string{"a.js"}, report.Files)
	assert.NotContains(t, store.objects, "c.js")
}

func TestPublishMissingBundle(t *testing.T) {
	_, err := NewPublisher(newFakeStorage(), filepath.Join(t.TempDir(), "dist"), "").Publish(context.Background())
	assert.True(t, errs.HasCode(err, errs.ErrBundleMissing))

	_, err = NewPublisher(newFakeStorage(), t.TempDir(), "").Publish(context.Background())
	assert.True(t, errs.HasCode(err, errs.ErrBundleMissing))
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"bundle.js":     "text/javascript; charset=utf-8",
		"api.mjs":       "text/javascript; charset=utf-8",
		"bundle.js.map": "application/json",
		"logo.PNG":      "image/png",
		"blob.unknown":  "application/octet-stream",
	}
	for name, want := range cases {
		assert.Equal(t, want, ContentType(name), name)
	}
}
