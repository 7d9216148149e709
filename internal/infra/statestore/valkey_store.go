package statestore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/critter-checklist/internal/domain/checklist"
)

// ValkeyStore persists the state blob under one key in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	key    string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, key string) *ValkeyStore {
	if key == "" {
		key = checklist.StorageKey
	}
	return &ValkeyStore{client: client, key: key}
}

// Load implements checklist.Store.
func (s *ValkeyStore) Load(ctx context.Context) ([]byte, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("valkey get %s: %w", s.key, err)
	}
	return payload, true, nil
}

// Save implements checklist.Store.
func (s *ValkeyStore) Save(ctx context.Context, data []byte) error {
	cmd := s.client.B().Set().Key(s.key).Value(valkey.BinaryString(data)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", s.key, err)
	}
	return nil
}

var _ checklist.Store = (*ValkeyStore)(nil)
