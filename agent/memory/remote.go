package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
)

const (
	defaultRemoteTimeout = 10 * time.Second
	namespacePrefix      = "customer_"
	maxResponseSizeBytes = 2 << 20
)

type RemoteOption func(*RemoteStore)

func WithHTTPClient(client *http.Client) RemoteOption {
	return func(s *RemoteStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func WithRemoteClock(now func() time.Time) RemoteOption {
	return func(s *RemoteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// RemoteStore talks to a Supermemory-compatible REST service, one namespace per client.
type RemoteStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

type RemoteConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewRemoteStore(cfg RemoteConfig, opts ...RemoteOption) (*RemoteStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("remote memory url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote memory url: %w", err)
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("remote memory api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	store := &RemoteStore{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

type remoteEntry struct {
	ID        any            `json:"id"`
	Content   string         `json:"content"`
	Type      string         `json:"type"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
}

// CreateNamespace treats 409 as success because the namespace already exists.
func (s *RemoteStore) CreateNamespace(ctx context.Context, clientID string) error {
	if err := validateClientID(clientID); err != nil {
		return err
	}
	_, err := s.exec(ctx, http.MethodPost, "/namespaces", nil, map[string]any{
		"namespace_id": namespace(clientID),
		"description":  "Memory namespace for customer " + clientID,
	}, http.StatusOK, http.StatusCreated, http.StatusConflict)
	return err
}

func (s *RemoteStore) Store(ctx context.Context, clientID, content string, entryType contractx.EntryType, metadata map[string]any) error {
	if err := validateClientID(clientID); err != nil {
		return err
	}
	_, err := s.exec(ctx, http.MethodPost, "/memories", nil, map[string]any{
		"namespace_id": namespace(clientID),
		"content":      content,
		"type":         string(entryType),
		"metadata":     withDefaults(metadata, clientID, s.now().UTC()),
	}, http.StatusOK, http.StatusCreated)
	return err
}

func (s *RemoteStore) Search(ctx context.Context, clientID string, query contractx.SearchQuery) ([]contractx.MemoryEntry, error) {
	body := map[string]any{
		"namespace_id": namespace(clientID),
		"query":        query.Text,
		"limit":        query.Limit,
	}
	if query.Type != "" {
		body["type"] = string(query.Type)
	}
	raw, err := s.exec(ctx, http.MethodPost, "/memories/search", nil, body, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []remoteEntry `json:"results"`
	}
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", contractx.ErrRemoteMemory, err)
	}
	out := toEntries(clientID, resp.Results)
	if query.Type != "" {
		filtered := out[:0]
		for _, e := range out {
			if e.Type == query.Type {
				filtered = append(filtered, e)
			}
		}
		out = filtered
	}
	return out, nil
}

func (s *RemoteStore) List(ctx context.Context, clientID string, limit int) ([]contractx.MemoryEntry, error) {
	q := url.Values{}
	q.Set("namespace_id", namespace(clientID))
	q.Set("limit", strconv.Itoa(limit))
	raw, err := s.exec(ctx, http.MethodGet, "/memories", q, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Memories []remoteEntry `json:"memories"`
	}
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode list response: %v", contractx.ErrRemoteMemory, err)
	}
	return toEntries(clientID, resp.Memories), nil
}

func (s *RemoteStore) Update(ctx context.Context, clientID, entryID, content string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	_, err := s.exec(ctx, http.MethodPut, "/memories/"+url.PathEscape(entryID), nil, map[string]any{
		"namespace_id": namespace(clientID),
		"content":      content,
		"metadata":     metadata,
	}, http.StatusOK)
	return err
}

func (s *RemoteStore) Delete(ctx context.Context, clientID, entryID string) error {
	q := url.Values{}
	q.Set("namespace_id", namespace(clientID))
	_, err := s.exec(ctx, http.MethodDelete, "/memories/"+url.PathEscape(entryID), q, nil, http.StatusOK, http.StatusNoContent)
	return err
}

func (s *RemoteStore) exec(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	accept ...int,
) ([]byte, error) {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal remote memory request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build remote memory request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", contractx.ErrRemoteMemory, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", contractx.ErrRemoteMemory, err)
	}

	for _, code := range accept {
		if resp.StatusCode == code {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s status=%d body=%s", contractx.ErrRemoteMemory, method, path, resp.StatusCode, string(raw))
}

func namespace(clientID string) string {
	return namespacePrefix + clientID
}

func toEntries(clientID string, items []remoteEntry) []contractx.MemoryEntry {
	out := make([]contractx.MemoryEntry, 0, len(items))
	for _, item := range items {
		e := contractx.MemoryEntry{
			ID:       stringID(item.ID),
			ClientID: clientID,
			Content:  item.Content,
			Type:     contractx.EntryType(item.Type),
			Metadata: item.Metadata,
		}
		if e.Metadata == nil {
			e.Metadata = map[string]any{}
		}
		if t, err := time.Parse(time.RFC3339Nano, item.CreatedAt); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out
}

func stringID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}
