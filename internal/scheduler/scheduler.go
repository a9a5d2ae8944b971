package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"ForecastSentinel/internal/collector"
	"ForecastSentinel/internal/exchange"
	"ForecastSentinel/internal/forecast"
	"ForecastSentinel/internal/model"
	"ForecastSentinel/internal/notifier"
	"ForecastSentinel/internal/recorder"
	"ForecastSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the decision cycle on a cron schedule and on demand.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Exchange   exchange.Exchange
	Forecaster forecast.Forecaster
	Policy     strategy.Policy
	Notifier   notifier.Notifier
	Recorder   recorder.Recorder
	Ctx        context.Context

	Symbol     string
	BaseAsset  string
	QuoteAsset string

	// mu serializes cycles; cron skips a tick and /run is refused while one is running.
	mu   sync.Mutex
	last *model.CycleReport
	lmu  sync.RWMutex
}

// NewScheduler creates a new Scheduler. A nil notifier or recorder is replaced by its noop.
func NewScheduler(ctx context.Context, col *collector.Collector, ex exchange.Exchange, fc forecast.Forecaster,
	policy strategy.Policy, n notifier.Notifier, rec recorder.Recorder, baseAsset, quoteAsset string) *Scheduler {
	if n == nil {
		n = notifier.NewNoopNotifier()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		Collector:  col,
		Exchange:   ex,
		Forecaster: fc,
		Policy:     policy,
		Notifier:   n,
		Recorder:   rec,
		Ctx:        ctx,
		Symbol:     col.Symbol,
		BaseAsset:  baseAsset,
		QuoteAsset: quoteAsset,
	}
}

// Register adds the decision cycle under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scheduledCycle); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Println("[INFO] scheduler stopped")
}

// RunNow runs one cycle immediately (RUN_ON_START, /run). It returns false when a cycle is
// already in progress.
func (s *Scheduler) RunNow() bool {
	if !s.mu.TryLock() {
		log.Println("[WARN] cycle already running, manual run skipped")
		return false
	}
	defer s.mu.Unlock()
	s.runLogged()
	return true
}

// LastReport returns the report of the most recent cycle that reached a decision, or nil.
func (s *Scheduler) LastReport() *model.CycleReport {
	s.lmu.RLock()
	defer s.lmu.RUnlock()
	return s.last
}

func (s *Scheduler) scheduledCycle() {
	if !s.mu.TryLock() {
		log.Println("[WARN] previous cycle still running, tick skipped")
		return
	}
	defer s.mu.Unlock()
	s.runLogged()
}

func (s *Scheduler) runLogged() {
	if s.Ctx.Err() != nil {
		return
	}
	log.Printf("[INFO] running decision cycle for %s", s.Symbol)
	report, err := s.RunCycle(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] cycle: %v", err)
		return
	}
	s.lmu.Lock()
	s.last = report
	s.lmu.Unlock()
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	cmd := strings.Fields(command)
	if len(cmd) == 0 {
		return notifier.FormatHelp()
	}
	// Telegram appends the bot name in groups: /status@SentinelBot.
	switch strings.SplitN(cmd[0], "@", 2)[0] {
	case "/status":
		return notifier.FormatStatus(s.LastReport())
	case "/run":
		if !s.RunNow() {
			return "A cycle is already running."
		}
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.Notify(ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
