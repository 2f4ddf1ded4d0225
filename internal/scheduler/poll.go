package scheduler

import (
	"context"
	"fmt"

	"github.com/nexushub/nexushub/internal/notify"
	"github.com/nexushub/nexushub/internal/pluginrt"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// PollNow polls one plugin immediately, bypassing the due check. Used
// by the manual refresh command. Returns the number of items the
// plugin reported. Real failures are recorded on the config row the
// same way heartbeat failures are.
func (p *Poller) PollNow(ctx context.Context, pluginId string) (int, error) {
	if !p.tryBegin(pluginId) {
		return 0, fmt.Errorf("%w: %s", ErrPollInProgress, pluginId)
	}
	defer p.end(pluginId)
	count, err := p.pollPlugin(ctx, pluginId)
	if err != nil {
		p.reportFailure(pluginId, err)
		return 0, err
	}
	return count, nil
}

// Validate runs the plugin's optional validateConnection entry point
// with its stored credentials and returns the raw output. It shares
// the read-phase checks with pollPlugin but persists nothing.
func (p *Poller) Validate(ctx context.Context, pluginId string) (string, error) {
	_, payload, err := p.readConfig(pluginId)
	if err != nil {
		return "", err
	}
	path, err := p.resolvePath(pluginId)
	if err != nil {
		return "", err
	}
	return p.runner.Execute(ctx, path, pluginrt.EntryValidate, payload)
}

// readConfig is the read phase: fetch the config row, reject
// unconfigured states, unseal credentials. No store call stays open on
// return.
func (p *Poller) readConfig(pluginId string) (*nexuslib.PluginConfig, string, error) {
	cfg, err := p.store.GetPluginConfig(pluginId)
	if err != nil {
		return nil, "", err
	}
	if cfg == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrNotConfigured, pluginId)
	}
	if !cfg.IsEnabled {
		return nil, "", fmt.Errorf("%w: %s", ErrDisabled, pluginId)
	}
	if cfg.Credentials == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrMissingCredentials, pluginId)
	}
	payload := cfg.Credentials
	if p.unseal != nil {
		payload, err = p.unseal.Unseal(cfg.Credentials)
		if err != nil {
			return nil, "", fmt.Errorf("unseal credentials for %s: %w", pluginId, err)
		}
	}
	return cfg, payload, nil
}

// pollPlugin is the atomic unit of work, split into three phases to
// bound how long the store is held: read config, execute the plugin
// subprocess with no store call open, persist the result.
func (p *Poller) pollPlugin(ctx context.Context, pluginId string) (int, error) {
	// Read phase.
	cfg, payload, err := p.readConfig(pluginId)
	if err != nil {
		return 0, err
	}

	// Execute phase. May take seconds; must not touch the store.
	path, err := p.resolvePath(pluginId)
	if err != nil {
		return 0, err
	}
	raw, err := p.runner.Execute(ctx, path, pluginrt.EntryFetch, payload)
	if err != nil {
		return 0, err
	}
	res, err := pluginrt.ParseResult(raw)
	if err != nil {
		return 0, err
	}

	// Persist phase. Each store call is individually atomic; partial
	// persistence on a mid-phase failure is recoverable because upserts
	// are idempotent and notifications dedup by content.
	now := p.now().Unix()
	for i := range res.Items {
		item := res.Items[i]
		item.CreatedAt = now
		item.UpdatedAt = now
		if err := p.store.UpsertItem(&item); err != nil {
			return 0, err
		}
	}
	for _, cand := range res.Notifications {
		exists, err := p.store.HasActiveNotification(cand.ItemId, cand.Reason)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}
		n := nexuslib.Notification{
			Id:        p.newId(),
			ItemId:    cand.ItemId,
			Reason:    cand.Reason,
			Urgency:   cand.Urgency,
			CreatedAt: now,
		}
		if err := p.store.InsertNotification(&n); err != nil {
			return 0, err
		}
		p.maybeAlert(&n, res.Items)
	}
	cfg.LastPollAt = now
	cfg.LastError = ""
	cfg.ErrorCount = 0
	if err := p.store.UpsertPluginConfig(cfg); err != nil {
		return 0, err
	}
	if p.events != nil {
		p.events.ItemsUpdated(pluginId)
	}
	return len(res.Items), nil
}

// maybeAlert raises a native alert for a freshly inserted notification
// when both the policy and the urgency gating approve. The alert body
// is the humanized reason; the title comes from the notification's
// item in this poll's result.
func (p *Poller) maybeAlert(n *nexuslib.Notification, items []nexuslib.Item) {
	var title string
	for i := range items {
		if items[i].Id == n.ItemId {
			title = items[i].Title
			break
		}
	}
	if title == "" {
		return
	}
	if !p.policy.ShouldSend(n.Urgency) {
		return
	}
	styled, ok := notify.AlertTitle(n.Urgency, title)
	if !ok {
		return
	}
	if err := p.alerter.Alert(styled, notify.HumanizeReason(n.Reason)); err != nil {
		p.l.Println("scheduler: native alert:", err)
	}
}
