package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-intelligence/internal/agent/generator"
	"portfolio-intelligence/internal/agent/repository"
	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/logger"
	"portfolio-intelligence/pkg/metrics"
	"portfolio-intelligence/pkg/telegram"
)

// RunState is the stage a run is in.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateReading    RunState = "reading"
	StateGenerating RunState = "generating"
	StateWriting    RunState = "writing"
	StateDone       RunState = "done"
	StateFailed     RunState = "failed"
)

// RunReport describes the outcome of one run.
type RunReport struct {
	RunID      string
	State      RunState
	Tickers    []string
	Generated  int
	Saved      int
	Skipped    int
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether the run reached StateDone.
func (r *RunReport) Succeeded() bool {
	return r.State == StateDone
}

// MetricsPusher exports a finished run. *metrics.Pusher implements it.
type MetricsPusher interface {
	Push(m metrics.RunMetrics) error
}

// AgentService runs the read, generate, write pipeline once.
type AgentService interface {
	// Run never returns an error; failures are printed and carried in the report.
	Run(ctx context.Context) *RunReport
}

type agentService struct {
	log           *logger.Logger
	out           io.Writer
	portfolioRepo repository.PortfolioRepository
	generator     generator.Generator
	writer        IntelligenceWriter
	telegramBot   telegram.Notifier
	metrics       MetricsPusher
	now           func() time.Time
}

// Option configures optional collaborators of the agent service.
type Option func(*agentService)

// WithTelegram sends a digest of the saved records after a successful run.
func WithTelegram(n telegram.Notifier) Option {
	return func(s *agentService) {
		s.telegramBot = n
	}
}

// WithMetrics pushes run metrics when the run finishes.
func WithMetrics(p MetricsPusher) Option {
	return func(s *agentService) {
		s.metrics = p
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *agentService) {
		s.now = now
	}
}

// NewAgentService creates the pipeline driver. Operator lines are written to out.
func NewAgentService(log *logger.Logger, out io.Writer,
	portfolioRepo repository.PortfolioRepository,
	gen generator.Generator,
	writer IntelligenceWriter,
	opts ...Option) AgentService {
	s := &agentService{
		log:           log,
		out:           out,
		portfolioRepo: portfolioRepo,
		generator:     gen,
		writer:        writer,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *agentService) Run(ctx context.Context) *RunReport {
	report := &RunReport{
		RunID:     uuid.NewString(),
		State:     StateIdle,
		StartedAt: s.now(),
	}
	log := s.log.With(logger.StringField("run_id", report.RunID))
	log.Info("Starting daily intelligence run", logger.StringField("generator", string(s.generator.GetType())))

	records, err := s.execute(ctx, log, report)

	report.FinishedAt = s.now()
	if err != nil {
		report.State = StateFailed
		report.Err = err
		fmt.Fprintf(s.out, "❌ Error: %v\n", err)
		log.Error("Daily intelligence run failed",
			logger.IntField("saved", report.Saved),
			logger.ErrorField(err))
	} else {
		report.State = StateDone
		fmt.Fprintf(s.out, "✅ Guardadas %d noticias en Supabase.\n", report.Saved)
		log.Info("Daily intelligence run finished",
			logger.IntField("generated", report.Generated),
			logger.IntField("saved", report.Saved),
			logger.IntField("skipped", report.Skipped),
			logger.Field("duration", report.FinishedAt.Sub(report.StartedAt).String()))
		s.notify(log, records, report)
	}

	s.pushMetrics(log, report)
	return report
}

func (s *agentService) execute(ctx context.Context, log *logger.Logger, report *RunReport) ([]entity.IntelligenceRecord, error) {
	report.State = StateReading
	assets, err := s.portfolioRepo.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	report.Tickers = entity.Tickers(assets)
	log.Debug("Portfolio loaded", logger.IntField("assets", len(assets)))

	report.State = StateGenerating
	fmt.Fprintf(s.out, "🤖 Buscando noticias para: [%s]\n", strings.Join(report.Tickers, ", "))
	records, err := s.generator.Generate(ctx, assets)
	if err != nil {
		return nil, fmt.Errorf("failed to generate intelligence: %w", err)
	}
	report.Generated = len(records)

	report.State = StateWriting
	result, err := s.writer.Write(ctx, records)
	report.Saved = result.Saved
	report.Skipped = result.Skipped
	if err != nil {
		return nil, err
	}
	return result.Persisted, nil
}

func (s *agentService) notify(log *logger.Logger, records []entity.IntelligenceRecord, report *RunReport) {
	if s.telegramBot == nil || report.Saved == 0 {
		return
	}

	messages := telegram.FormatIntelligenceForTelegram(records, report.FinishedAt)
	for i, message := range messages {
		if err := s.telegramBot.SendMessage(message); err != nil {
			log.Warn("Failed to send telegram digest", logger.IntField("part", i+1), logger.ErrorField(err))
			return
		}
		if i < len(messages)-1 {
			time.Sleep(100 * time.Millisecond)
		}
	}
	log.Debug("Telegram digest sent", logger.IntField("parts", len(messages)))
}

func (s *agentService) pushMetrics(log *logger.Logger, report *RunReport) {
	if s.metrics == nil {
		return
	}
	err := s.metrics.Push(metrics.RunMetrics{
		Generated: report.Generated,
		Saved:     report.Saved,
		Skipped:   report.Skipped,
		Success:   report.Succeeded(),
		Duration:  report.FinishedAt.Sub(report.StartedAt),
		Finished:  report.FinishedAt,
	})
	if err != nil {
		log.Warn("Failed to push run metrics", logger.ErrorField(err))
	}
}
