// internal/events/client.go
// Fire-and-forget lifecycle notifications for panel discussions
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"relicpanel/internal/httpretry"
)

const (
	EventDiscussionStarted = "discussion_started"
	EventDiscussionStopped = "discussion_stopped"

	source      = "relicpanel"
	sendTimeout = 2 * time.Second
)

// Event is the webhook payload
type Event struct {
	Type      string            `json:"type"`
	Source    string            `json:"source"`
	Timestamp int64             `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

// Client posts events to a webhook endpoint. A Client without endpoint
// is disabled and drops everything.
type Client struct {
	endpoint string
	http     *httpretry.Client
	log      zerolog.Logger
	now      func() time.Time

	wg sync.WaitGroup

	mu              sync.Mutex
	connErrorLogged bool // only log connection errors once
}

func NewClient(endpoint string, logger zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     httpretry.New(httpretry.Webhook()),
		log:      logger,
		now:      time.Now,
	}
}

// Enabled reports whether an endpoint is configured
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != ""
}

// Emit sends an event asynchronously
func (c *Client) Emit(eventType string, data map[string]string) {
	if !c.Enabled() {
		return
	}
	event := Event{
		Type:      eventType,
		Source:    source,
		Timestamp: c.now().Unix(),
		Data:      data,
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.send(event)
	}()
}

// Wait blocks until in-flight events were delivered or dropped
func (c *Client) Wait() {
	if c == nil {
		return
	}
	c.wg.Wait()
}

func (c *Client) send(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to marshal event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*sendTimeout)
	defer cancel()

	req, err := httpretry.NewRequest(ctx, "POST", c.endpoint, body)
	if err != nil {
		c.log.Error().Err(err).Msg("bad event endpoint")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.mu.Lock()
		first := !c.connErrorLogged
		c.connErrorLogged = true
		c.mu.Unlock()
		if first {
			c.log.Warn().Err(err).Str("endpoint", c.endpoint).Msg("event endpoint unreachable")
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Str("type", event.Type).Msg("event rejected")
	}
}

// DiscussionStarted emits a discussion_started event
func (c *Client) DiscussionStarted(runID, topic string, participants int) {
	c.Emit(EventDiscussionStarted, map[string]string{
		"run_id":       runID,
		"topic":        truncate(topic, 200),
		"participants": strconv.Itoa(participants),
	})
}

// DiscussionStopped emits a discussion_stopped event
func (c *Client) DiscussionStopped(runID, reason string, lines int) {
	c.Emit(EventDiscussionStopped, map[string]string{
		"run_id": runID,
		"reason": reason,
		"lines":  strconv.Itoa(lines),
	})
}

// truncate limits a string to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
