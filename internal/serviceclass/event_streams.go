package serviceclass

import (
	"context"
	"strconv"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
)

// EventStreams wraps the event_streams collection.
type EventStreams struct {
	*ServiceClass
}

// NewEventStreams creates an event streams class.
func NewEventStreams(opts Options) *EventStreams {
	e := &EventStreams{ServiceClass: New("event_streams", opts)}
	e.Register("refreshActiveStreamSession", e.refreshActiveStream, "refresh_active_stream")
	e.Alias("list_available_streams", "listAvailableStreamsOAuth2")
	return e
}

// ListAvailableStreams discovers the event streams available to appID.
func (e *EventStreams) ListAvailableStreams(ctx context.Context, appID, format string) *domain.Response {
	kw := map[string]any{"appId": appID}
	if format != "" {
		kw["format"] = format
	}
	return e.Invoke(ctx, "listAvailableStreamsOAuth2", domain.CommandOptions{Keywords: kw})
}

// RefreshActiveStream keeps the session on partition alive.
func (e *EventStreams) RefreshActiveStream(ctx context.Context, appID string, partition int) *domain.Response {
	return e.refreshActiveStream(ctx, domain.CommandOptions{
		Keywords:  map[string]any{"action_name": "refresh_active_stream_session", "appId": appID},
		Partition: strconv.Itoa(partition),
	})
}

func (e *EventStreams) refreshActiveStream(ctx context.Context, opts domain.CommandOptions) *domain.Response {
	if opts.Partition == "" {
		if v, ok := keyword(opts, "partition"); ok {
			opts.Partition = stringValue(v)
		} else {
			opts.Partition = "0"
		}
	}
	// The endpoint rejects a request without a body.
	if opts.Body == nil {
		opts.Body = map[string]any{}
	}
	return e.Call(ctx, "refreshActiveStreamSession", RequestFromOptions(opts))
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
