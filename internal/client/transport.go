package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/unclebandit/dmcodex/internal/protocol"
)

// Transport carries one channel invocation and returns the raw envelope.
// An error means the envelope never arrived.
type Transport interface {
	Invoke(ctx context.Context, channel protocol.Name, payload any) (protocol.Envelope, error)
}

// HTTPTransport talks to cmd/server over loopback HTTP.
type HTTPTransport struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Invoke(ctx context.Context, channel protocol.Name, payload any) (protocol.Envelope, error) {
	var env protocol.Envelope

	body, err := json.Marshal(payload)
	if err != nil {
		return env, fmt.Errorf("encode %s payload: %w", channel, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/ipc/"+string(channel), bytes.NewReader(body))
	if err != nil {
		return env, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(protocol.VersionHeader, strconv.Itoa(protocol.Version))

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return env, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return env, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, channel, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return env, fmt.Errorf("decode %s response: %w", channel, err)
	}
	return env, nil
}

// Dispatcher is satisfied by controller.CampaignController.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel string, payload json.RawMessage) protocol.Envelope
}

// LocalTransport calls an in-process dispatcher, still going through JSON so both transports behave the same.
type LocalTransport struct {
	Dispatcher Dispatcher
}

func (t *LocalTransport) Invoke(ctx context.Context, channel protocol.Name, payload any) (protocol.Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return protocol.Envelope{}, fmt.Errorf("encode %s payload: %w", channel, err)
	}
	return t.Dispatcher.Dispatch(ctx, string(channel), body), nil
}

var (
	_ Transport = (*HTTPTransport)(nil)
	_ Transport = (*LocalTransport)(nil)
)
