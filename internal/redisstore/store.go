package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/tracing"
)

const keyPrefix = "lunacycle:periods:"

// Store keeps period documents as JSON strings in redis, one key per user.
type Store struct {
	redisClient *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redisClient: redisClient}
}

func Key(userKey string) string {
	return keyPrefix + userKey
}

func (s *Store) Read(ctx context.Context, key string) (models.PeriodDocument, bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.periodDocuments.read")
	defer span.End()
	span.SetAttributes(tracing.UserKey(key))

	raw, err := s.redisClient.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.PeriodDocument{}, false, nil
	}
	if err != nil {
		tracing.Fail(span, "redis get", err)
		return models.PeriodDocument{}, false, fmt.Errorf("redis get %s: %w", Key(key), err)
	}

	document, err := models.DecodePeriodDocument(raw)
	if err != nil {
		tracing.Fail(span, "decode period document", err)
		return models.PeriodDocument{}, false, err
	}
	return document, true, nil
}

func (s *Store) Write(ctx context.Context, key string, document models.PeriodDocument) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.periodDocuments.write")
	defer span.End()
	span.SetAttributes(tracing.UserKey(key))

	payload, err := models.EncodePeriodDocument(document)
	if err != nil {
		tracing.Fail(span, "encode period document", err)
		return err
	}

	if err := s.redisClient.Set(ctx, Key(key), string(payload), 0).Err(); err != nil {
		tracing.Fail(span, "redis set", err)
		return fmt.Errorf("redis set %s: %w", Key(key), err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redisClient.Ping(ctx).Err()
}
