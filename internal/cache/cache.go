package cache

import (
	"context"
	"errors"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
)

type ConfigCache interface {
	Get(ctx context.Context, productID int64) (*domain.ProductConfig, error)
	Set(ctx context.Context, productID int64, cfg *domain.ProductConfig) error
	Delete(ctx context.Context, productID int64) error
}

var ErrCacheMiss = errors.New("cache miss")
