package client

import (
	"context"
	"time"
)

// PollChat polls the global feed every interval and delivers new messages
// in id order. The cursor starts at afterID and only moves forward. The
// channel closes when ctx is cancelled; each polled resource gets its own
// context so navigating away from one feed does not stop the others.
// Transient request failures are skipped and retried on the next tick.
func (c *Client) PollChat(ctx context.Context, interval time.Duration, afterID int64) <-chan ChatMessage {
	out := make(chan ChatMessage)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		cursor := afterID
		for {
			msgs, err := c.ListMessages(ctx, cursor, 0)
			if err == nil {
				for _, m := range msgs {
					select {
					case out <- m:
						cursor = m.ID
					case <-ctx.Done():
						return
					}
				}
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// PollThread is PollChat for one DM thread.
func (c *Client) PollThread(ctx context.Context, threadID int64, interval time.Duration, afterID int64) <-chan ThreadMessage {
	out := make(chan ThreadMessage)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		cursor := afterID
		for {
			msgs, err := c.ListDMMessages(ctx, threadID, cursor, 0)
			if err == nil {
				for _, m := range msgs {
					select {
					case out <- m:
						cursor = m.ID
					case <-ctx.Done():
						return
					}
				}
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
