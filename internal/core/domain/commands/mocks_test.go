package commands

import (
	"context"
	"fishbot/internal/core/domain"
	"fmt"
	"sync"
	"time"
)

type MockSender struct {
	mu        sync.Mutex
	sendError error
	embedErr  error
	replies   []string
	embeds    []domain.Embed
}

// MockSender drops messages sent on a finished context, like the Telegram API client.
func (m *MockSender) SendMessageReply(ctx context.Context, _ *domain.Message, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.replies = append(m.replies, text)
	return len(m.replies), m.sendError
}

func (m *MockSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

func (m *MockSender) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	if _, sendErr := m.SendMessageReply(ctx, message, fmt.Sprintf("error: %s", err)); sendErr != nil {
		return fmt.Errorf("%w (notification failed: %w)", err, sendErr)
	}

	return err
}

func (m *MockSender) SendEmbedReply(ctx context.Context, _ *domain.Message, embed domain.Embed) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.embeds = append(m.embeds, embed)
	return m.embedErr
}

// replyCount counts every message that reached the chat.
func (m *MockSender) replyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.replies)
	if m.embedErr == nil {
		count += len(m.embeds)
	}

	return count
}

type MockImageStore struct {
	mu    sync.Mutex
	cover []byte
	err   error
	calls int
}

func (m *MockImageStore) CoverURL(mapsetID uint32) string {
	return fmt.Sprintf("https://assets.example/%d/covers/cover.jpg", mapsetID)
}

func (m *MockImageStore) Cover(_ context.Context, _ uint32) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	return m.cover, m.err
}

type MockBeatmapStore struct {
	mu    sync.Mutex
	chart []byte
	err   error
	block bool
	calls int
}

func (m *MockBeatmapStore) Beatmap(ctx context.Context, _ uint32) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, &domain.FetchError{Resource: "beatmap file", Err: ctx.Err()}
	}

	return m.chart, m.err
}

type MockMetadataStore struct {
	metadata domain.BeatmapMetadata
	err      error
	block    bool
	calls    int
	lastID   uint32
}

func (m *MockMetadataStore) Metadata(ctx context.Context, beatmapID uint32) (domain.BeatmapMetadata, error) {
	m.calls++
	m.lastID = beatmapID

	if m.block {
		<-ctx.Done()
		return domain.BeatmapMetadata{}, &domain.FetchError{Resource: "beatmap metadata", Err: ctx.Err()}
	}

	return m.metadata, m.err
}

type MockColorExtractor struct {
	color domain.Color
	err   error
}

func (m *MockColorExtractor) DominantColor(_ []byte) (domain.Color, error) {
	return m.color, m.err
}

type MockReporter struct {
	report domain.ScoreReport
	err    error
	calls  int
}

func (m *MockReporter) Report(_ []byte) (domain.ScoreReport, error) {
	m.calls++
	return m.report, m.err
}

type MockMetrics struct {
	mu        sync.Mutex
	steps     []string
	fallbacks int
}

func (m *MockMetrics) CommandHandled(_ string, _ error) {}

func (m *MockMetrics) ObserveStep(step string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.steps = append(m.steps, step)
}

func (m *MockMetrics) ColorFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fallbacks++
}
