package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"relicpanel/internal/httpretry"
)

// HTTPEngine talks to a speech daemon:
//
//	POST /speak   {"text","lang","voice","rate","pitch"}  blocks until playback ends
//	POST /stop
//	GET  /voices  [{"id","name","lang"}]
//	GET  /health
type HTTPEngine struct {
	endpoint string
	speak    *httpretry.Client
	control  *httpretry.Client
	health   *httpretry.Client
}

func NewHTTPEngine(endpoint string) *HTTPEngine {
	return &HTTPEngine{
		endpoint: strings.TrimRight(endpoint, "/"),
		speak:    httpretry.New(httpretry.Playback()),
		control:  httpretry.New(httpretry.Control()),
		health:   httpretry.New(httpretry.Health()),
	}
}

type speakRequest struct {
	Text  string  `json:"text"`
	Lang  string  `json:"lang,omitempty"`
	Voice string  `json:"voice,omitempty"`
	Rate  float64 `json:"rate,omitempty"`
	Pitch float64 `json:"pitch,omitempty"`
}

func (e *HTTPEngine) Probe(ctx context.Context) error {
	resp, err := e.do(ctx, e.health, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (e *HTTPEngine) Speak(ctx context.Context, u Utterance, started func()) error {
	body := speakRequest{Text: u.Text, Lang: u.Lang, Rate: u.Rate, Pitch: u.Pitch}
	if u.Voice != nil {
		body.Voice = u.Voice.ID
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	if started != nil {
		started()
	}
	resp, err := e.do(ctx, e.speak, http.MethodPost, "/speak", data)
	if err != nil {
		if ctx.Err() != nil {
			e.stop()
			return ctx.Err()
		}
		return err
	}
	resp.Body.Close()
	return nil
}

// stop tells the daemon to cut playback after the caller went away.
func (e *HTTPEngine) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if resp, err := e.do(ctx, e.control, http.MethodPost, "/stop", nil); err == nil {
		resp.Body.Close()
	}
}

func (e *HTTPEngine) Voices(ctx context.Context) ([]Voice, error) {
	resp, err := e.do(ctx, e.control, http.MethodGet, "/voices", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var voices []Voice
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		return nil, fmt.Errorf("decode voices: %w", err)
	}
	return voices, nil
}

func (e *HTTPEngine) do(ctx context.Context, client *httpretry.Client, method, path string, body []byte) (*http.Response, error) {
	req, err := httpretry.NewRequest(ctx, method, e.endpoint+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech daemon %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("speech daemon %s %s: HTTP %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}
