package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/domains/category/model"
	"writerspocket-backend/internal/domains/category/repository"
	"writerspocket-backend/internal/shared/utils"
)

// ServiceInterface is the category business logic contract.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.RepositoryInterface
}

func NewCategoryService(repo repository.RepositoryInterface) ServiceInterface {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:     req.Name,
		Slug:     utils.GenerateSlug(req.Name),
		IsActive: true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	log.Info().Str("category_id", category.ID.String()).Str("slug", category.Slug).Msg("Category created")
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req model.UpdateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
		category.Slug = utils.GenerateSlug(*req.Name)
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
