package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/repository"
)

type CardService interface {
	ListActive(ctx context.Context) ([]*model.Card, error)
	ListAll(ctx context.Context) ([]*model.Card, error)
	Create(ctx context.Context, req *dto.CardRequest) (*model.Card, error)
	Update(ctx context.Context, cardID string, req *dto.CardRequest) (*model.Card, error)
	Deactivate(ctx context.Context, cardID string) error
}

type cardServiceImpl struct {
	cardRepo repository.CardRepository
}

func NewCardService(cardRepo repository.CardRepository) CardService {
	return &cardServiceImpl{
		cardRepo: cardRepo,
	}
}

func (s *cardServiceImpl) ListActive(ctx context.Context) ([]*model.Card, error) {
	return s.cardRepo.ListActive(ctx)
}

func (s *cardServiceImpl) ListAll(ctx context.Context) ([]*model.Card, error) {
	return s.cardRepo.ListAll(ctx)
}

func (s *cardServiceImpl) Create(ctx context.Context, req *dto.CardRequest) (*model.Card, error) {
	card := &model.Card{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		card.IsActive = *req.IsActive
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	return card, nil
}

func (s *cardServiceImpl) Update(ctx context.Context, cardID string, req *dto.CardRequest) (*model.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("load card: %w", err)
	}

	card.Title = req.Title
	card.Price = req.Price
	card.Description = req.Description
	if req.IsActive != nil {
		card.IsActive = *req.IsActive
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}

	return card, nil
}

func (s *cardServiceImpl) Deactivate(ctx context.Context, cardID string) error {
	err := s.cardRepo.Deactivate(ctx, cardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCardNotFound
	}
	return err
}
