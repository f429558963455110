package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/staffdesk/internal/events"
)

// Follow reads the server event stream and calls handle for each lifecycle event until
// ctx is cancelled or the server closes the stream. resource, when set, narrows the stream.
func (c *Client) Follow(ctx context.Context, resource string, handle func(events.Event)) error {
	q := url.Values{}
	if resource != "" {
		q.Set("resource", resource)
	}
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "/api/events", query: q, accept: "text/event-stream"})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				var e events.Event
				if err := json.Unmarshal([]byte(data.String()), &e); err != nil {
					return fmt.Errorf("failed to decode event: %w", err)
				}
				handle(e)
				data.Reset()
			}
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return fmt.Errorf("event stream interrupted: %w", err)
	}
	return nil
}
