// Package chat proxies visitor conversations to an OpenAI-compatible
// completion endpoint and streams the reply back untouched.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("chat is not configured")
	ErrRateLimited   = errors.New("too many requests")
	ErrUnavailable   = errors.New("ai service temporarily unavailable")
	ErrUpstream      = errors.New("unable to process your request")
	ErrBadRequest    = errors.New("invalid chat request")
)

// MaxMessages bounds how much history a visitor can send.
const MaxMessages = 50

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages []Message `json:"messages"`
}

type Config struct {
	URL    string
	Key    string
	Model  string
	Prompt string
	Client *http.Client
	Logger *zap.Logger
}

type Proxy struct {
	cfg Config
	log *zap.Logger
}

func NewProxy(cfg Config) *Proxy {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 2 * time.Minute}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Proxy{cfg: cfg, log: cfg.Logger}
}

func (r Request) validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: no messages", ErrBadRequest)
	}
	if len(r.Messages) > MaxMessages {
		return fmt.Errorf("%w: more than %d messages", ErrBadRequest, MaxMessages)
	}
	for i, m := range r.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return fmt.Errorf("%w: message %d has role %q", ErrBadRequest, i, m.Role)
		}
	}
	return nil
}

// Open sends the conversation upstream and returns the event stream body.
// The caller closes it.
func (p *Proxy) Open(ctx context.Context, req Request) (io.ReadCloser, error) {
	if p.cfg.Key == "" || p.cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(req.Messages)+1)
	msgs = append(msgs, Message{Role: "system", Content: p.cfg.Prompt})
	msgs = append(msgs, req.Messages...)
	body, err := json.Marshal(struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
		Stream   bool      `json:"stream"`
	}{p.cfg.Model, msgs, true})
	if err != nil {
		return nil, err
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Authorization", "Bearer "+p.cfg.Key)
	hreq.Header.Set("Content-Type", "application/json")

	resp, err := p.cfg.Client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrUnavailable
	default:
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		p.log.Error("ai gateway error", zap.Int("status", resp.StatusCode), zap.ByteString("body", text))
		return nil, fmt.Errorf("%w: upstream status %d", ErrUpstream, resp.StatusCode)
	}
}

// Status maps a proxy error to the HTTP status returned to the browser.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnavailable):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text shown to the visitor for err.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "I'm getting too many requests. Please try again in a moment."
	case errors.Is(err, ErrUnavailable):
		return "AI service temporarily unavailable."
	case errors.Is(err, ErrNotConfigured):
		return "Chat is not available right now."
	case errors.Is(err, ErrBadRequest):
		return err.Error()
	default:
		return "Unable to process your request."
	}
}

// Stream copies the upstream body to w, flushing after every chunk.
func Stream(w http.ResponseWriter, body io.Reader) error {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	buf := make([]byte, 4<<10)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
