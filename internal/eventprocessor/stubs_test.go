// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package eventprocessor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/coloratura-app/coloratura/internal/models"
)

// fakeAppender records appends and deduplicates on the correlation
// key, mirroring the interaction log's insert-or-skip contract.
type fakeAppender struct {
	mu      sync.Mutex
	keys    map[string]bool
	records []models.DownloadRecord
	err     error
}

func newFakeAppender() *fakeAppender {
	return &fakeAppender{keys: make(map[string]bool)}
}

func (f *fakeAppender) AppendDownload(_ context.Context, rec *models.DownloadRecord, correlationKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if correlationKey != "" && f.keys[correlationKey] {
		return false, nil
	}
	f.keys[correlationKey] = true
	f.records = append(f.records, *rec)
	return true, nil
}

func (f *fakeAppender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeAppender) record(i int) models.DownloadRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[i]
}

// fakeCounter tracks per-page increment calls.
type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64)}
}

func (f *fakeCounter) IncrementDownloadCount(_ context.Context, pageID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.counts[pageID]++
	return f.counts[pageID], nil
}

func (f *fakeCounter) count(pageID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[pageID]
}

// fakeBroadcaster collects broadcast records.
type fakeBroadcaster struct {
	mu      sync.Mutex
	records []*models.DownloadRecord
}

func (f *fakeBroadcaster) BroadcastDownload(rec *models.DownloadRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeWmPublisher implements message.Publisher for publisher tests.
type fakeWmPublisher struct {
	mu        sync.Mutex
	published []*message.Message
	topics    []string
	err       error
	closed    bool
}

func (f *fakeWmPublisher) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, messages...)
	for range messages {
		f.topics = append(f.topics, topic)
	}
	return nil
}

func (f *fakeWmPublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWmPublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func (f *fakeWmPublisher) last() (*message.Message, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.published) == 0 {
		return nil, ""
	}
	return f.published[len(f.published)-1], f.topics[len(f.topics)-1]
}

var _ message.Publisher = (*fakeWmPublisher)(nil)

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s: %s", timeout, msg)
}

// newTestMessage wraps an event into a bus message the way the
// publisher does.
func newTestMessage(t *testing.T, event *DownloadEvent) *message.Message {
	t.Helper()
	data, err := SerializeEvent(event)
	if err != nil {
		t.Fatalf("serialize event: %v", err)
	}
	return message.NewMessage(event.EventID, data)
}
