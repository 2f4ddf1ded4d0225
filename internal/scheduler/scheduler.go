package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/notify"
	"github.com/nexushub/nexushub/internal/pluginrt"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// Poller owns the polling loop. There are no per-plugin timers: one
// heartbeat ticker drives due checks, and due plugins fan out to a
// bounded worker pool with per-plugin mutual exclusion.
type Poller struct {
	l       *log.Logger
	store   Store
	runner  Runner
	policy  *notify.Policy
	alerter notify.Alerter
	events  EventSink
	unseal  Unsealer

	heartbeat time.Duration
	sem       chan struct{}

	mu       sync.Mutex
	inflight map[string]bool

	now         func() time.Time
	newId       func() string
	resolvePath func(pluginId string) (string, error)
}

// Options tunes a Poller. Zero values select defaults.
type Options struct {
	// Heartbeat is the due-check interval.
	Heartbeat time.Duration
	// MaxConcurrent bounds how many plugins may poll in parallel.
	MaxConcurrent int
	// Alerter raises native alerts. Nil disables them.
	Alerter notify.Alerter
	// Events receives items-updated signals. Nil disables them.
	Events EventSink
	// Unsealer decrypts stored credentials. Nil passes them through.
	Unsealer Unsealer
}

// NewPoller builds a poller over the given store and plugin runner.
func NewPoller(l *log.Logger, store Store, runner Runner, opts Options) *Poller {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = common.DefHeartbeatSecs * time.Second
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = common.DefMaxConcurrentPolls
	}
	if opts.Alerter == nil {
		opts.Alerter = notify.NopAlerter{}
	}
	return &Poller{
		l:           l,
		store:       store,
		runner:      runner,
		policy:      notify.NewPolicy(store),
		alerter:     opts.Alerter,
		events:      opts.Events,
		unseal:      opts.Unsealer,
		heartbeat:   opts.Heartbeat,
		sem:         make(chan struct{}, opts.MaxConcurrent),
		inflight:    make(map[string]bool),
		now:         time.Now,
		newId:       uuid.NewString,
		resolvePath: pluginrt.PluginPath,
	}
}

// SetEvents installs the sink receiving items-updated signals. The
// sink is built around the server's client pool, which does not exist
// until after the poller, so it arrives late. Must be set before Run.
func (p *Poller) SetEvents(sink EventSink) {
	p.events = sink
}

// Run blocks, driving heartbeat ticks until ctx is cancelled. The
// first tick fires immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.heartbeat)
	defer ticker.Stop()
	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick polls every due plugin. A plugin already being polled, or a
// full worker pool, defers to a later tick rather than queueing, so a
// hung plugin never stalls the loop or piles up duplicate polls.
func (p *Poller) tick(ctx context.Context) {
	configs, err := p.store.GetEnabledPluginConfigs()
	if err != nil {
		p.l.Println("scheduler: list enabled plugins:", err)
		return
	}
	now := p.now()
	for _, cfg := range configs {
		if !p.due(cfg, now) {
			continue
		}
		if !p.tryBegin(cfg.PluginId) {
			continue
		}
		go func(id string) {
			defer p.end(id)
			count, err := p.pollPlugin(ctx, id)
			if err != nil {
				p.reportFailure(id, err)
				return
			}
			p.l.Printf("scheduler: %s: fetched %d items", id, count)
		}(cfg.PluginId)
	}
}

// due reports whether a plugin should poll now. Disabled or
// credential-less plugins are never due; a never-polled plugin is due
// immediately. A poll_cron setting replaces the fixed interval.
func (p *Poller) due(cfg *nexuslib.PluginConfig, now time.Time) bool {
	if !cfg.IsEnabled || cfg.Credentials == "" {
		return false
	}
	if cfg.LastPollAt == 0 {
		return true
	}
	if expr := pollCron(cfg.Settings); expr != "" {
		next, err := gronx.NextTickAfter(expr, time.Unix(cfg.LastPollAt, 0), false)
		if err == nil {
			return !next.After(now)
		}
		// bad expression falls back to the interval
	}
	interval := cfg.PollIntervalSecs
	if interval <= 0 {
		interval = common.DefPollIntervalSecs
	}
	return now.Unix()-cfg.LastPollAt >= interval
}

// pollCron extracts the optional poll_cron expression from a plugin's
// settings blob.
func pollCron(settings string) string {
	if settings == "" {
		return ""
	}
	var s struct {
		PollCron string `json:"poll_cron"`
	}
	if err := json.Unmarshal([]byte(settings), &s); err != nil {
		return ""
	}
	return s.PollCron
}

func (p *Poller) tryBegin(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[id] {
		return false
	}
	select {
	case p.sem <- struct{}{}:
	default:
		return false
	}
	p.inflight[id] = true
	return true
}

func (p *Poller) end(id string) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.mu.Unlock()
	<-p.sem
}

// reportFailure logs a real error and records it on the plugin's
// config row. Expected unconfigured states stay silent and leave the
// bookkeeping untouched.
func (p *Poller) reportFailure(id string, err error) {
	if silent(err) {
		return
	}
	p.l.Printf("scheduler: %s poll error: %v", id, err)
	cfg, gerr := p.store.GetPluginConfig(id)
	if gerr != nil || cfg == nil {
		return
	}
	cfg.LastError = err.Error()
	cfg.ErrorCount++
	if uerr := p.store.UpsertPluginConfig(cfg); uerr != nil {
		p.l.Printf("scheduler: %s record error: %v", id, uerr)
	}
}
