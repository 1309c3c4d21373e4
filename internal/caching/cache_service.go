package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"sitedesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Material caching
	GetMaterial(ctx context.Context, materialID uuid.UUID) (*models.Material, error)
	SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error
	DeleteMaterial(ctx context.Context, materialID uuid.UUID) error

	// Allocation listing caching
	GetUserAllocations(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error)
	SetUserAllocations(ctx context.Context, userID uuid.UUID, allocations []*models.AllocationView, ttl time.Duration) error
	DeleteUserAllocations(ctx context.Context, userID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds the shared Redis client. A failed ping is logged but
// not fatal; the cache is a soft dependency.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func materialKey(materialID uuid.UUID) string {
	return fmt.Sprintf("sitedesk:material:%s", materialID.String())
}

func userAllocationsKey(userID uuid.UUID) string {
	return fmt.Sprintf("sitedesk:allocations:user:%s", userID.String())
}

func (r *redisCacheService) GetMaterial(ctx context.Context, materialID uuid.UUID) (*models.Material, error) {
	data, err := r.client.Get(ctx, materialKey(materialID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var material models.Material
	if err := json.Unmarshal(data, &material); err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *redisCacheService) SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error {
	data, err := json.Marshal(material)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, materialKey(material.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteMaterial(ctx context.Context, materialID uuid.UUID) error {
	return r.client.Del(ctx, materialKey(materialID)).Err()
}

func (r *redisCacheService) GetUserAllocations(ctx context.Context, userID uuid.UUID) ([]*models.AllocationView, error) {
	data, err := r.client.Get(ctx, userAllocationsKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var allocations []*models.AllocationView
	if err := json.Unmarshal(data, &allocations); err != nil {
		return nil, err
	}
	return allocations, nil
}

func (r *redisCacheService) SetUserAllocations(ctx context.Context, userID uuid.UUID, allocations []*models.AllocationView, ttl time.Duration) error {
	data, err := json.Marshal(allocations)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, userAllocationsKey(userID), data, ttl).Err()
}

func (r *redisCacheService) DeleteUserAllocations(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, userAllocationsKey(userID)).Err()
}
