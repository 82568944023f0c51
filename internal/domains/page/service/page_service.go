package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/domains/page/model"
	"writerspocket-backend/internal/domains/page/repository"
	"writerspocket-backend/pkg/cache"
)

const (
	pageCacheKeyPrefix = "page:slug:"
	pageCacheTTL       = 30 * time.Minute
)

// ServiceInterface is the content page business logic contract.
type ServiceInterface interface {
	// GetPublished serves the public read path, cache first.
	GetPublished(ctx context.Context, slug string) (*model.ContentPage, error)

	Create(ctx context.Context, req model.CreatePageRequest) (*model.ContentPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContentPage, error)
	List(ctx context.Context, publishedOnly bool) ([]model.ContentPage, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdatePageRequest) (*model.ContentPage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pageService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

func NewPageService(repo repository.RepositoryInterface, cacheClient cache.Cache) ServiceInterface {
	return &pageService{
		repo:  repo,
		cache: cacheClient,
	}
}

func (s *pageService) GetPublished(ctx context.Context, slug string) (*model.ContentPage, error) {
	cacheKey := pageCacheKeyPrefix + slug

	if s.cache != nil {
		var cached model.ContentPage
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	page, err := s.repo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, page, pageCacheTTL); err != nil {
			log.Warn().Err(err).Str("slug", slug).Msg("Failed to cache page")
		}
	}
	return page, nil
}

func (s *pageService) Create(ctx context.Context, req model.CreatePageRequest) (*model.ContentPage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page := &model.ContentPage{
		Slug:        req.Slug,
		Title:       req.Title,
		Body:        req.Body,
		IsPublished: req.IsPublished,
	}
	if err := s.repo.Create(ctx, page); err != nil {
		return nil, err
	}

	log.Info().Str("slug", page.Slug).Msg("Content page created")
	return page, nil
}

func (s *pageService) GetByID(ctx context.Context, id uuid.UUID) (*model.ContentPage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pageService) List(ctx context.Context, publishedOnly bool) ([]model.ContentPage, error) {
	return s.repo.List(ctx, publishedOnly)
}

func (s *pageService) Update(ctx context.Context, id uuid.UUID, req model.UpdatePageRequest) (*model.ContentPage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Body != nil {
		page.Body = *req.Body
	}
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}

	s.invalidate(ctx, page.Slug)
	return page, nil
}

func (s *pageService) Delete(ctx context.Context, id uuid.UUID) error {
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, page.Slug)
	return nil
}

func (s *pageService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, pageCacheKeyPrefix+slug); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to invalidate page cache")
	}
}
