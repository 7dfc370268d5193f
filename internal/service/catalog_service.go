package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/SeeratPeroz/Omran-Kebab/internal/cache"
	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/SeeratPeroz/Omran-Kebab/internal/repository"
	"golang.org/x/sync/singleflight"
)

// ProductConfigProvider is what the order service needs from the catalog side.
type ProductConfigProvider interface {
	ProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error)
}

type CatalogService struct {
	repo  repository.CatalogRepository
	cache cache.ConfigCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCatalogService(repo repository.CatalogRepository, cache cache.ConfigCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

// ProductConfig returns the product with its attached groups, read-through
// cached. The cached payload holds the raw overrides; effective rules are
// resolved by the caller on every validation.
func (s *CatalogService) ProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error) {
	v, err, _ := s.sfg.Do(fmt.Sprint(productID), func() (interface{}, error) {

		cfg, err := s.cache.Get(ctx, productID)
		if err == nil {
			return cfg, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cfg, errGet := s.repo.GetProductConfig(ctx, productID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), productID, cfg)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return cfg, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.ProductConfig), nil
}
