package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/model"
)

func (s *Store) LoadCredential(ctx context.Context) (model.AdminCredential, error) {
	raw, err := s.Client.Get(ctx, credentialKey).Result()
	if errors.Is(err, redis.Nil) {
		return model.AdminCredential{}, fmt.Errorf("admin credential: %w", errs.ErrNotFound)
	}
	if err != nil {
		return model.AdminCredential{}, fmt.Errorf("load admin credential: %w", err)
	}

	var cred model.AdminCredential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return model.AdminCredential{}, fmt.Errorf("unmarshal admin credential: %w", err)
	}

	return cred, nil
}

func (s *Store) SaveCredential(ctx context.Context, cred model.AdminCredential) error {
	doc, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal admin credential: %w", err)
	}

	if err := s.Client.Set(ctx, credentialKey, doc, 0).Err(); err != nil {
		return fmt.Errorf("save admin credential: %w", err)
	}

	return nil
}
