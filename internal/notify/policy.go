// Package notify implements the notification policy pipeline: urgency
// ranking, quiet-hours and focus-mode gating, reason humanization and
// native alert styling. Everything here is pure decision logic; the
// only I/O is reading app settings through the SettingsReader.
package notify

import (
	"strings"
	"time"

	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// Urgency levels, total order by rank.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// SettingsReader is the slice of the store the policy consumes.
type SettingsReader interface {
	GetAppSetting(key string) (string, bool, error)
}

// Policy decides whether notifications surface as native alerts.
type Policy struct {
	settings SettingsReader
	now      func() time.Time
}

// NewPolicy creates a policy reading toggles from the given settings.
func NewPolicy(settings SettingsReader) *Policy {
	return &Policy{settings: settings, now: time.Now}
}

// UrgencyRank maps an urgency string to its ordinal rank. Unknown
// urgencies rank below low.
func UrgencyRank(urgency string) int {
	switch urgency {
	case UrgencyCritical:
		return 4
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold reports whether urgency ranks at or above threshold.
func MeetsThreshold(urgency, threshold string) bool {
	return UrgencyRank(urgency) >= UrgencyRank(threshold)
}

// InQuietHours reports whether the wall-clock time now falls inside the
// [start, end) window. Times are zero-padded 24-hour "HH:MM" strings,
// so lexicographic comparison is time comparison. A start after end
// means the window wraps past midnight.
func InQuietHours(start, end, now string) bool {
	if start <= end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

// ShouldSend applies quiet hours and focus mode to an urgency, in that
// order: an active quiet-hours window suppresses everything regardless
// of urgency; focus mode then admits only urgencies at or above the
// configured threshold.
func (p *Policy) ShouldSend(urgency string) bool {
	start, startOk, _ := p.settings.GetAppSetting(nexuslib.SettingQuietHoursStart)
	end, endOk, _ := p.settings.GetAppSetting(nexuslib.SettingQuietHoursEnd)
	if startOk && endOk {
		if InQuietHours(start, end, p.now().Format("15:04")) {
			return false
		}
	}

	focus, _, _ := p.settings.GetAppSetting(nexuslib.SettingFocusModeEnabled)
	if focus == "1" {
		threshold, ok, _ := p.settings.GetAppSetting(nexuslib.SettingFocusModeThreshold)
		if !ok || threshold == "" {
			threshold = UrgencyHigh
		}
		return MeetsThreshold(urgency, threshold)
	}
	return true
}

// reasonLabels maps machine signal codes to human-readable labels.
var reasonLabels = map[string]string{
	"assigned_to_me":       "Assigned to you",
	"assigned":             "Assigned to you",
	"high_priority":        "High priority",
	"priority_p1_blocker":  "High priority",
	"deadline_approaching": "Deadline approaching",
	"deadline_24h":         "Deadline approaching",
	"mentioned_in_comment": "You were mentioned",
	"mentioned":            "You were mentioned",
	"vip_sender":           "VIP sender",
	"unread_over_4h":       "Unread for 4+ hours",
	"has_attachment":       "Has attachment",
	"pr_review_requested":  "Review requested",
	"ci_failed":            "CI failed",
	"pr_comment":           "Comment on your PR",
}

// HumanizeReason maps each code of a (possibly comma-joined) reason to
// its human label and rejoins with ", ". Unrecognized codes pass
// through unchanged.
func HumanizeReason(reason string) string {
	codes := strings.Split(reason, ",")
	for i, code := range codes {
		code = strings.TrimSpace(code)
		if label, ok := reasonLabels[code]; ok {
			codes[i] = label
		} else {
			codes[i] = code
		}
	}
	return strings.Join(codes, ", ")
}

// AlertTitle returns the native alert title for a notification and
// whether a native alert should be produced at all. Only medium+
// urgencies surface natively; critical and high get a bracketed
// urgency tag, medium stays unprefixed.
func AlertTitle(urgency, title string) (string, bool) {
	switch urgency {
	case UrgencyCritical:
		return "[CRITICAL] " + title, true
	case UrgencyHigh:
		return "[HIGH] " + title, true
	case UrgencyMedium:
		return title, true
	default:
		return "", false
	}
}
