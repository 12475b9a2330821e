package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"jce-assistant/internal/model"
	"jce-assistant/internal/platform/rabbitmq"
)

// TranscriptWriter persists one exchange.
type TranscriptWriter interface {
	Create(ctx context.Context, exchange *model.Exchange) error
}

// TranscriptPersistWorker drains the transcript queue into the database.
type TranscriptPersistWorker struct {
	conn      *amqp.Connection
	repo      TranscriptWriter
	queueName string
	log       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTranscriptPersistWorker(conn *amqp.Connection, repo TranscriptWriter, queueName string, log *zap.Logger) *TranscriptPersistWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &TranscriptPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       log,
	}
}

func (w *TranscriptPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.process(workerCtx, d.Body, d)
			}
		}
	}()

	return nil
}

// Acknowledger is the subset of amqp.Delivery the worker settles.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// process decodes and stores one payload. Payloads that cannot be decoded or
// stored are dropped.
func (w *TranscriptPersistWorker) process(ctx context.Context, body []byte, ack Acknowledger) {
	var exchange model.Exchange
	if err := json.Unmarshal(body, &exchange); err != nil {
		w.log.Error("worker decode exchange failed", zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}

	if err := w.repo.Create(ctx, &exchange); err != nil {
		w.log.Error("worker persist exchange failed",
			zap.String("exchange_id", exchange.ExchangeID),
			zap.Error(err),
		)
		_ = ack.Nack(false, false)
		return
	}

	_ = ack.Ack(false)
}

func (w *TranscriptPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
