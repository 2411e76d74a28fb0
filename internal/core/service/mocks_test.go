package service

import (
	"context"
	"fishbot/internal/core/domain"
)

type mockTextSender struct {
	sendError   error
	callCount   int
	sendReplies []string
}

func (m *mockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.callCount++
	m.sendReplies = append(m.sendReplies, text)
	return m.callCount, m.sendError
}

func (m *mockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

func (m *mockTextSender) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	_, _ = m.SendMessageReply(ctx, message, err.Error())
	return err
}

type fakeCalculator struct {
	attributes domain.DifficultyAttributes
	err        error
	plays      []domain.Play
}

func (f *fakeCalculator) Attributes(_ []byte) (domain.DifficultyAttributes, error) {
	return f.attributes, f.err
}

// Performance scales linearly with accuracy so tests can predict the result.
func (f *fakeCalculator) Performance(attributes domain.DifficultyAttributes, play domain.Play) float64 {
	f.plays = append(f.plays, play)
	return attributes.Stars * play.Accuracy
}
