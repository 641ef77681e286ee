package storage

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"kanban-api/domain"
	"kanban-api/usecase"
)

// BoardCache wraps a board repository with Redis-backed caching for the
// board list, the hottest read of the API. Writes evict the owner's entry;
// cache failures fall through to the backing repository.
type BoardCache struct {
	base  usecase.BoardRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewBoardCache creates a caching wrapper using the provided Redis client
// and TTL.
func NewBoardCache(base usecase.BoardRepository, client *redis.Client, ttl time.Duration) *BoardCache {
	if base == nil {
		panic("storage.NewBoardCache: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &BoardCache{base: base, redis: client, ttl: ttl}
}

func (c *BoardCache) GetByID(ctx context.Context, id string) (*domain.Board, error) {
	return c.base.GetByID(ctx, id)
}

func (c *BoardCache) GetByUserIDAndName(ctx context.Context, userID, name string) (*domain.Board, error) {
	return c.base.GetByUserIDAndName(ctx, userID, name)
}

func (c *BoardCache) GetByUserID(ctx context.Context, userID string) ([]domain.Board, error) {
	if boards, ok := c.loadFromCache(ctx, userID); ok {
		return boards, nil
	}

	boards, err := c.base.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, userID, boards)
	return boards, nil
}

func (c *BoardCache) Save(ctx context.Context, board domain.Board) error {
	if err := c.base.Save(ctx, board); err != nil {
		return err
	}
	c.evict(ctx, board.UserID)
	return nil
}

func (c *BoardCache) Delete(ctx context.Context, id string) error {
	board, err := c.base.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	if board != nil {
		c.evict(ctx, board.UserID)
	}
	return nil
}

func (c *BoardCache) loadFromCache(ctx context.Context, userID string) ([]domain.Board, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, boardsCacheKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing repository
			// without failing.
			_ = c.redis.Del(ctx, boardsCacheKey(userID)).Err()
		}
		return nil, false
	}
	var boards []domain.Board
	if err := sonic.Unmarshal(data, &boards); err != nil {
		_ = c.redis.Del(ctx, boardsCacheKey(userID)).Err()
		return nil, false
	}
	return boards, true
}

func (c *BoardCache) store(ctx context.Context, userID string, boards []domain.Board) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(boards)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, boardsCacheKey(userID), data, c.ttl).Err()
}

func (c *BoardCache) evict(ctx context.Context, userID string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, boardsCacheKey(userID)).Result()
}

func boardsCacheKey(userID string) string {
	return "boards:" + userID
}
