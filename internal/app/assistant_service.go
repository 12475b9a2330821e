package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"jce-assistant/internal/ai"
	"jce-assistant/internal/conversation"
	"jce-assistant/internal/model"
	"jce-assistant/internal/quota"
	"jce-assistant/internal/router"
)

// ApologyReply is sent when handling an utterance fails unexpectedly.
const ApologyReply = "⚠️ Ocurrió un error al procesar tu mensaje."

const (
	defaultPoolSize = 8

	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeDenied  = "quota_denied"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrMessageEmpty = errors.New("message content is empty")
)

// Source tells where a reply came from.
type Source string

const (
	SourceGenerative Source = "generative"
	SourceResolution Source = "resolution"
	SourceKeyword    Source = "keyword"
	SourceGeneric    Source = "generic"
	SourceApology    Source = "apology"
)

type Reply struct {
	Text   string `json:"reply"`
	Source Source `json:"source"`
}

// TranscriptSink receives every handled exchange.
type TranscriptSink interface {
	Record(ctx context.Context, exchange model.Exchange) error
}

// AssistantDeps wires an AssistantService. Only Router is required; nil
// Generator disables the generative backend.
type AssistantDeps struct {
	History   conversation.Store
	Guard     *quota.Guard
	Generator ai.Generator
	Router    *router.Router
	Pool      *ants.Pool
	Sink      TranscriptSink
	Metrics   *Metrics
	Logger    *zap.Logger
}

type AssistantService struct {
	history   conversation.Store
	guard     *quota.Guard
	generator ai.Generator
	router    *router.Router
	pool      *ants.Pool
	ownsPool  bool
	sink      TranscriptSink
	metrics   *Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewAssistantService(deps AssistantDeps) (*AssistantService, error) {
	if deps.Router == nil {
		return nil, fmt.Errorf("%w: router is required", ErrInvalidInput)
	}
	s := &AssistantService{
		history:   deps.History,
		guard:     deps.Guard,
		generator: deps.Generator,
		router:    deps.Router,
		pool:      deps.Pool,
		sink:      deps.Sink,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		now:       time.Now,
	}
	if s.history == nil {
		s.history = conversation.NewMemoryStore("", 0)
	}
	if s.guard == nil {
		s.guard = quota.NewGuard(0, 0)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.pool == nil {
		pool, err := ants.NewPool(defaultPoolSize)
		if err != nil {
			return nil, fmt.Errorf("create backend pool failed: %w", err)
		}
		s.pool = pool
		s.ownsPool = true
	}
	return s, nil
}

// Handle answers text for userID. It always returns a reply.
func (s *AssistantService) Handle(ctx context.Context, userID, text string) string {
	return s.Respond(ctx, userID, text).Text
}

// Respond is Handle with the reply source attached.
func (s *AssistantService) Respond(ctx context.Context, userID, text string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handle message panicked",
				zap.String("user_id", userID),
				zap.Any("panic", r),
			)
			reply = Reply{Text: ApologyReply, Source: SourceApology}
		}
		s.metrics.observeReply(reply.Source)
	}()

	reply = s.respond(ctx, userID, text)
	s.record(ctx, userID, text, reply)
	return reply
}

func (s *AssistantService) respond(ctx context.Context, userID, text string) Reply {
	if err := s.history.Append(ctx, userID, model.RoleUser, text); err != nil {
		s.log.Warn("append user message failed", zap.String("user_id", userID), zap.Error(err))
		return s.fallback(text)
	}

	if s.generator == nil {
		return s.fallback(text)
	}
	if !s.guard.Allow(s.now()) {
		s.log.Debug("generative quota exceeded", zap.String("user_id", userID))
		s.metrics.observeQuotaDenied()
		return s.fallback(text)
	}

	result := s.generate(ctx, userID)
	if !result.OK() {
		s.log.Warn("generative backend unavailable", zap.String("user_id", userID), zap.Error(result.Err))
		return s.fallback(text)
	}

	if err := s.history.Append(ctx, userID, model.RoleAssistant, result.Text); err != nil {
		s.log.Warn("append assistant message failed", zap.String("user_id", userID), zap.Error(err))
	}
	return Reply{Text: result.Text, Source: SourceGenerative}
}

// generate renders the prompt and runs the backend on the pool, waiting for
// the result or for ctx to end.
func (s *AssistantService) generate(ctx context.Context, userID string) ai.Result {
	prompt, err := s.history.Render(ctx, userID)
	if err != nil {
		return ai.Result{Err: fmt.Errorf("render prompt failed: %w", err)}
	}

	start := time.Now()
	done := make(chan ai.Result, 1)
	submitErr := s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				done <- ai.Result{Err: fmt.Errorf("generator panicked: %v", r)}
			}
		}()
		done <- ai.Call(ctx, s.generator, prompt)
	})
	if submitErr != nil {
		return ai.Result{Err: fmt.Errorf("submit backend call failed: %w", submitErr)}
	}

	var result ai.Result
	select {
	case result = <-done:
	case <-ctx.Done():
		result = ai.Result{Err: ctx.Err()}
	}

	outcome := outcomeSuccess
	if !result.OK() {
		outcome = outcomeFailure
	}
	s.metrics.observeBackend(outcome, time.Since(start))
	return result
}

func (s *AssistantService) fallback(text string) Reply {
	routed := s.router.Route(text)
	return Reply{Text: routed.Text, Source: sourceOf(routed.State)}
}

func sourceOf(state router.State) Source {
	switch state {
	case router.StateResolutionHit:
		return SourceResolution
	case router.StateKeywordHit:
		return SourceKeyword
	default:
		return SourceGeneric
	}
}

// record hands the exchange to the sink. A failing sink never changes the
// reply already chosen.
func (s *AssistantService) record(ctx context.Context, userID, text string, reply Reply) {
	if s.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("record exchange panicked", zap.String("user_id", userID), zap.Any("panic", r))
		}
	}()
	exchange := model.Exchange{
		ExchangeID: uuid.NewString(),
		UserID:     userID,
		Utterance:  text,
		Reply:      reply.Text,
		Source:     string(reply.Source),
		CreatedAt:  s.now(),
	}
	if err := s.sink.Record(context.WithoutCancel(ctx), exchange); err != nil {
		s.log.Warn("record exchange failed",
			zap.String("exchange_id", exchange.ExchangeID),
			zap.Error(err),
		)
	}
}

// ValidateMessage trims text and checks the fields a transport must supply.
func ValidateMessage(userID, text string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrInvalidInput
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrMessageEmpty
	}
	return text, nil
}

// QuotaRemaining reports how many generative calls the current window still
// allows.
func (s *AssistantService) QuotaRemaining() int {
	return s.guard.Remaining(s.now())
}

// Close releases the backend pool when the service created it.
func (s *AssistantService) Close() {
	if s.ownsPool {
		s.pool.Release()
	}
}
