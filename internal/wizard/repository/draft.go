package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	wizarderrors "laundromat/internal/wizard/errors"
	"laundromat/internal/wizard/fsm"
)

const draftKeyPrefix = "wizard:draft:"

type DraftRepository interface {
	Save(ctx context.Context, draft *fsm.Draft) error
	Find(ctx context.Context, id string) (*fsm.Draft, error)
	Delete(ctx context.Context, id string) error
}

// draftRepository keeps wizard drafts in redis under a TTL. An
// abandoned wizard run simply expires; there is nothing to clean up.
type draftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftRepository(client *redis.Client, ttl time.Duration) DraftRepository {
	return &draftRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *draftRepository) Save(ctx context.Context, draft *fsm.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := r.client.Set(ctx, draftKey(draft.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (r *draftRepository) Find(ctx context.Context, id string) (*fsm.Draft, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, wizarderrors.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft fsm.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func draftKey(id string) string {
	return draftKeyPrefix + id
}
