package pluginrt

import (
	"encoding/json"

	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// previewLen bounds the payload preview embedded in parse errors.
const previewLen = 200

// Result is the decoded outcome of one plugin poll. Notification
// candidates carry no id or creation time; the scheduler assigns both
// at insertion.
type Result struct {
	Items         []nexuslib.Item
	Notifications []nexuslib.Notification
}

// Wire shapes as plugins emit them. Field names at this boundary
// (sourceId, itemId, type) differ from the internal model on purpose.
type wireItem struct {
	Id        string          `json:"id"`
	Source    string          `json:"source"`
	SourceId  string          `json:"sourceId"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	Url       string          `json:"url"`
	Author    string          `json:"author"`
	Timestamp int64           `json:"timestamp"`
	Priority  int             `json:"priority"`
	Metadata  json.RawMessage `json:"metadata"`
	Tags      []string        `json:"tags"`
}

type wireNotification struct {
	ItemId  string `json:"itemId"`
	Reason  string `json:"reason"`
	Urgency string `json:"urgency"`
}

// Pointer slices so a missing key is distinguishable from an empty
// array: both top-level keys are required even when empty.
type wireResult struct {
	Items         *[]wireItem         `json:"items"`
	Notifications *[]wireNotification `json:"notifications"`
}

// ParseResult deserializes the single-line payload a plugin printed on
// stdout. A payload missing either top-level key is a *ParseError,
// never an empty default.
func ParseResult(raw string) (*Result, error) {
	var w wireResult
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, &ParseError{
			Reason:  "invalid JSON: " + err.Error(),
			Preview: preview(raw),
		}
	}
	if w.Items == nil {
		return nil, &ParseError{Reason: `missing required key "items"`, Preview: preview(raw)}
	}
	if w.Notifications == nil {
		return nil, &ParseError{Reason: `missing required key "notifications"`, Preview: preview(raw)}
	}
	res := &Result{
		Items:         make([]nexuslib.Item, 0, len(*w.Items)),
		Notifications: make([]nexuslib.Notification, 0, len(*w.Notifications)),
	}
	for _, wi := range *w.Items {
		meta := "{}"
		if len(wi.Metadata) > 0 {
			meta = string(wi.Metadata)
		}
		tags := []byte("[]")
		if wi.Tags != nil {
			tags, _ = json.Marshal(wi.Tags)
		}
		res.Items = append(res.Items, nexuslib.Item{
			Id:        wi.Id,
			Source:    wi.Source,
			SourceId:  wi.SourceId,
			ItemType:  wi.Type,
			Title:     wi.Title,
			Summary:   wi.Summary,
			Url:       wi.Url,
			Author:    wi.Author,
			Timestamp: wi.Timestamp,
			Priority:  wi.Priority,
			Metadata:  meta,
			Tags:      string(tags),
		})
	}
	for _, wn := range *w.Notifications {
		res.Notifications = append(res.Notifications, nexuslib.Notification{
			ItemId:  wn.ItemId,
			Reason:  wn.Reason,
			Urgency: wn.Urgency,
		})
	}
	return res, nil
}

func preview(raw string) string {
	r := []rune(raw)
	if len(r) <= previewLen {
		return raw
	}
	return string(r[:previewLen]) + "..."
}
