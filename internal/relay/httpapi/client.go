package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"timersync/internal/core/timekeeper"
	"timersync/internal/relay"
)

// Client talks to a running relay.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the relay at address ("host:port" or a full URL).
func NewClient(address string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return &Client{baseURL: strings.TrimRight(address, "/"), http: httpClient}
}

// Send posts a command and returns the snapshot after it was applied.
func (client *Client) Send(ctx context.Context, method string, args map[string]any) (SnapshotResponse, error) {
	var snapshot SnapshotResponse
	body, err := json.Marshal(args)
	if err != nil {
		return snapshot, fmt.Errorf("encode args: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/commands/"+method, bytes.NewReader(body))
	if err != nil {
		return snapshot, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.http.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("send %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snapshot, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Snapshot fetches the current controller state.
func (client *Client) Snapshot(ctx context.Context) (SnapshotResponse, error) {
	var snapshot SnapshotResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/snapshot", nil)
	if err != nil {
		return snapshot, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.http.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("get snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snapshot, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Watch calls handle for every relay event until ctx is done or the stream ends.
func (client *Client) Watch(ctx context.Context, handle func(timekeeper.Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/events", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.http.Do(req)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event timekeeper.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}
		handle(event)
	}
	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error == "" {
		payload.Error = resp.Status
	}
	if resp.StatusCode == http.StatusNotImplemented {
		return fmt.Errorf("%w (%s)", relay.ErrUnimplemented, payload.Error)
	}
	return fmt.Errorf("relay: %s", payload.Error)
}
