package reload

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recvEvent receives one event with a timeout so tests never hang.
func recvEvent(t *testing.T, ch <-chan []byte, within time.Duration) Event {
	t.Helper()
	select {
	case raw, ok := <-ch:
		if !ok {
			t.Fatalf("send queue closed unexpectedly")
		}
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(within):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func testClient(h *Hub, id string) *Client {
	return &Client{id: id, hub: h, send: make(chan []byte, 4), logger: h.logger}
}

func TestHubBroadcastsToEveryClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	go h.Run(ctx)

	a, b := testClient(h, "a"), testClient(h, "b")
	require.True(t, h.Register(a))
	require.True(t, h.Register(b))

	assert.Equal(t, TypeConnected, recvEvent(t, a.send, time.Second).Type)
	assert.Equal(t, TypeConnected, recvEvent(t, b.send, time.Second).Type)
	assert.Equal(t, 2, h.ClientCount())

	h.Broadcast([]string{"bundle.js"})

	for _, c := range []*Client{a, b} {
		ev := recvEvent(t, c.send, time.Second)
		assert.Equal(t, TypeReload, ev.Type)
		assert.Equal(t, []string{"bundle.js"}, ev.Changed)
		assert.NotEmpty(t, ev.ID)
	}
}

func TestHubUnregisterClosesQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	go h.Run(ctx)

	c := testClient(h, "c")
	require.True(t, h.Register(c))
	recvEvent(t, c.send, time.Second)

	h.Unregister(c)

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send queue was not closed")
	}
	assert.Equal(t, 0, h.ClientCount())
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	go h.Run(ctx)

	slow := &Client{id: "slow", hub: h, send: make(chan []byte, 1), logger: h.logger}
	require.True(t, h.Register(slow))

	// The connected event fills the queue; the next broadcast overflows it.
	h.Broadcast([]string{"a.js"})

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubStopClosesClientsAndRejectsRegistration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := NewHub()
	go h.Run(ctx)

	c := testClient(h, "c")
	require.True(t, h.Register(c))
	recvEvent(t, c.send, time.Second)

	cancel()
	<-h.done

	_, ok := <-c.send
	assert.False(t, ok)
	assert.False(t, h.Register(testClient(h, "late")))
	h.Unregister(c)
}

// batchRecorder collects the batches a Watcher reports.
type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (b *batchRecorder) record(changed []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = append(b.batches, changed)
}

func (b *batchRecorder) seen(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, batch := range b.batches {
		for _, changed := range batch {
			if changed == name {
				return true
			}
		}
	}
	return false
}

// startWatcher runs a watcher on dir and waits until it is watching.
func startWatcher(t *testing.T, dir string, rec *batchRecorder, wait bool) {
	t.Helper()

	w := NewWatcher(dir, 20*time.Millisecond, rec.record)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	if !wait {
		return
	}
	select {
	case <-w.ready:
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher never started")
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bundle.js")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	rec := &batchRecorder{}
	startWatcher(t, dir, rec, true)

	require.NoError(t, os.WriteFile(target, []byte("version two"), 0o644))

	require.Eventually(t, func() bool { return rec.seen("bundle.js") }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	dir := t.TempDir()

	rec := &batchRecorder{}
	startWatcher(t, dir, rec, true)

	assets := filepath.Join(dir, "assets")
	require.NoError(t, os.Mkdir(assets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "app.css"), []byte("body{}"), 0o644))

	require.Eventually(t, func() bool { return rec.seen("assets/app.css") }, 2*time.Second, 10*time.Millisecond)

	// The new directory is watched too, so later writes inside it are reported.
	require.NoError(t, os.WriteFile(filepath.Join(assets, "late.js"), []byte("1"), 0o644))
	require.Eventually(t, func() bool { return rec.seen("assets/late.js") }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()

	rec := &batchRecorder{}
	startWatcher(t, dir, rec, true)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644))

	require.Eventually(t, func() bool { return rec.seen("index.html") }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, rec.seen(".DS_Store"))
}

func TestWatcherWaitsForFirstBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dist")

	rec := &batchRecorder{}
	startWatcher(t, dir, rec, false)

	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>"), 0o644))

	require.Eventually(t, func() bool { return rec.seen("index.html") }, 2*time.Second, 10*time.Millisecond)
}
