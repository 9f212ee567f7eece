package service

import (
	"context"

	"github.com/DilipkumarRajan/training-request-portal/internal/model"
)

// ── Mock TrainingRequestStore ──

type mockStore struct {
	records []model.Record
	err     error
}

func newMockStore() *mockStore {
	return &mockStore{}
}

func (m *mockStore) Append(_ context.Context, rec model.Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockStore) Name() string { return "mock" }
