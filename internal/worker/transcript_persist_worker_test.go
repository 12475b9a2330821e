package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jce-assistant/internal/model"
)

type fakeAck struct {
	acked  bool
	nacked bool
}

func (a *fakeAck) Ack(bool) error {
	a.acked = true
	return nil
}

func (a *fakeAck) Nack(bool, bool) error {
	a.nacked = true
	return nil
}

type fakeWriter struct {
	saved []model.Exchange
	err   error
}

func (w *fakeWriter) Create(_ context.Context, e *model.Exchange) error {
	if w.err != nil {
		return w.err
	}
	w.saved = append(w.saved, *e)
	return nil
}

func TestProcess_StoresAndAcks(t *testing.T) {
	repo := &fakeWriter{}
	w := NewTranscriptPersistWorker(nil, repo, "q", nil)

	body, err := json.Marshal(model.Exchange{ExchangeID: "ex-1", UserID: "u", Utterance: "hola", Reply: "hola", Source: "generative"})
	require.NoError(t, err)

	ack := &fakeAck{}
	w.process(context.Background(), body, ack)

	assert.True(t, ack.acked)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "ex-1", repo.saved[0].ExchangeID)
}

func TestProcess_BadPayloadIsDropped(t *testing.T) {
	repo := &fakeWriter{}
	ack := &fakeAck{}
	NewTranscriptPersistWorker(nil, repo, "q", nil).process(context.Background(), []byte("{"), ack)

	assert.True(t, ack.nacked)
	assert.Empty(t, repo.saved)
}

func TestProcess_StoreFailureIsNacked(t *testing.T) {
	ack := &fakeAck{}
	repo := &fakeWriter{err: errors.New("db down")}
	NewTranscriptPersistWorker(nil, repo, "q", nil).process(context.Background(), []byte(`{"exchange_id":"x"}`), ack)

	assert.True(t, ack.nacked)
	assert.False(t, ack.acked)
}
