package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveCharacter(ctx context.Context, character *model.Character) error {
	data, err := json.Marshal(character)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, characterKey(character.ID), data, s.cfg.CharacterTTL)
	pipe.SAdd(ctx, ownerIndexKey(character.OwnerID), string(character.ID))
	if s.cfg.CharacterTTL > 0 {
		pipe.Expire(ctx, ownerIndexKey(character.OwnerID), s.cfg.CharacterTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	data, err := s.client.Get(ctx, characterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCharacterNotFound
		}
		return nil, err
	}

	var character model.Character
	if err := json.Unmarshal(data, &character); err != nil {
		return nil, err
	}
	return &character, nil
}

func (s *Storage) ListCharactersByOwner(ctx context.Context, owner model.PlayerID) ([]*model.Character, error) {
	ids, err := s.client.SMembers(ctx, ownerIndexKey(owner)).Result()
	if err != nil {
		return nil, err
	}

	characters := make([]*model.Character, 0, len(ids))
	for _, id := range ids {
		character, err := s.GetCharacter(ctx, model.CharacterID(id))
		if err != nil {
			if errors.Is(err, model.ErrCharacterNotFound) {
				// Index entry outlived an expired record; drop it
				_ = s.client.SRem(ctx, ownerIndexKey(owner), id).Err()
				continue
			}
			return nil, err
		}
		characters = append(characters, character)
	}
	sort.Slice(characters, func(i, j int) bool {
		return characters[i].CreatedAt.Before(characters[j].CreatedAt)
	})
	return characters, nil
}

func (s *Storage) DeleteCharacter(ctx context.Context, id model.CharacterID) error {
	character, err := s.GetCharacter(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCharacterNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, characterKey(id))
	pipe.SRem(ctx, ownerIndexKey(character.OwnerID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}
