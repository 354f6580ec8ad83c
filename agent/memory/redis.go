package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/errx"
)

const defaultRedisPrefix = "crm:memory:"

// RedisStore keeps each client's entries as a JSON list with an INCR sequence for ids.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) entriesKey(clientID string) string { return s.prefix + clientID + ":entries" }
func (s *RedisStore) seqKey(clientID string) string     { return s.prefix + clientID + ":seq" }
func (s *RedisStore) namespacesKey() string             { return s.prefix + "namespaces" }

func (s *RedisStore) CreateNamespace(ctx context.Context, clientID string) error {
	if err := validateClientID(clientID); err != nil {
		return err
	}
	return errx.WrapRedis(s.client.SAdd(ctx, s.namespacesKey(), clientID).Err())
}

func (s *RedisStore) Store(ctx context.Context, clientID, content string, entryType contractx.EntryType, metadata map[string]any) error {
	if err := validateClientID(clientID); err != nil {
		return err
	}
	seq, err := s.client.Incr(ctx, s.seqKey(clientID)).Result()
	if err != nil {
		return errx.WrapRedis(err)
	}

	now := s.now().UTC()
	payload, err := sonic.MarshalString(contractx.MemoryEntry{
		ID:        strconv.FormatInt(seq, 10),
		ClientID:  clientID,
		Content:   content,
		Type:      entryType,
		Metadata:  withDefaults(metadata, clientID, now),
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("marshal memory entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.namespacesKey(), clientID)
	pipe.RPush(ctx, s.entriesKey(clientID), payload)
	_, err = pipe.Exec(ctx)
	return errx.WrapRedis(err)
}

func (s *RedisStore) Search(ctx context.Context, clientID string, query contractx.SearchQuery) ([]contractx.MemoryEntry, error) {
	entries, _, err := s.load(ctx, clientID, 0, -1)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query.Text)
	var out []contractx.MemoryEntry
	for _, e := range entries {
		if query.Limit > 0 && len(out) >= query.Limit {
			break
		}
		if query.Type != "" && e.Type != query.Type {
			continue
		}
		if strings.Contains(strings.ToLower(e.Content), needle) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *RedisStore) List(ctx context.Context, clientID string, limit int) ([]contractx.MemoryEntry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	entries, _, err := s.load(ctx, clientID, start, -1)
	return entries, err
}

func (s *RedisStore) Update(ctx context.Context, clientID, entryID, content string, metadata map[string]any) error {
	entries, _, err := s.load(ctx, clientID, 0, -1)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.ID != entryID {
			continue
		}
		e.Content = content
		for k, v := range metadata {
			e.Metadata[k] = v
		}
		e.Metadata[contractx.MetaTimestamp] = s.now().UTC().Format(time.RFC3339Nano)
		payload, err := sonic.MarshalString(e)
		if err != nil {
			return fmt.Errorf("marshal memory entry: %w", err)
		}
		return errx.WrapRedis(s.client.LSet(ctx, s.entriesKey(clientID), int64(i), payload).Err())
	}
	return fmt.Errorf("%w: %s/%s", contractx.ErrEntryNotFound, clientID, entryID)
}

func (s *RedisStore) Delete(ctx context.Context, clientID, entryID string) error {
	entries, raws, err := s.load(ctx, clientID, 0, -1)
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.ID == entryID {
			return errx.WrapRedis(s.client.LRem(ctx, s.entriesKey(clientID), 1, raws[i]).Err())
		}
	}
	return fmt.Errorf("%w: %s/%s", contractx.ErrEntryNotFound, clientID, entryID)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context, clientID string, start, stop int64) ([]contractx.MemoryEntry, []string, error) {
	raws, err := s.client.LRange(ctx, s.entriesKey(clientID), start, stop).Result()
	if err != nil {
		return nil, nil, errx.WrapRedis(err)
	}
	entries := make([]contractx.MemoryEntry, 0, len(raws))
	for _, raw := range raws {
		var e contractx.MemoryEntry
		if err := sonic.UnmarshalString(raw, &e); err != nil {
			return nil, nil, fmt.Errorf("decode memory entry: %w", err)
		}
		if e.Metadata == nil {
			e.Metadata = map[string]any{}
		}
		entries = append(entries, e)
	}
	return entries, raws, nil
}
