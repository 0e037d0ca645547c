package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"quickmoney-backend/internal/model"
)

type CardRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, cardID string) (*model.Card, error)
	ListActive(ctx context.Context) ([]*model.Card, error)
	ListAll(ctx context.Context) ([]*model.Card, error)
	Create(ctx context.Context, card *model.Card) error
	Update(ctx context.Context, card *model.Card) error
	Deactivate(ctx context.Context, cardID string) error
}

type cardRepoImpl struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepoImpl{
		db: db,
	}
}

func (r *cardRepoImpl) Seed(ctx context.Context) error {
	cards := []model.Card{
		{ID: "card_starter", Title: "Starter Card", Price: 100, Description: "Entry card, unlocks your referral code", IsActive: true},
		{ID: "card_silver", Title: "Silver Card", Price: 200, Description: "Silver tier referral card", IsActive: true},
		{ID: "card_gold", Title: "Gold Card", Price: 300, Description: "Gold tier referral card", IsActive: true},
		{ID: "card_premium", Title: "Premium Card", Price: 400, Description: "Premium tier referral card", IsActive: true},
		{ID: "card_platinum", Title: "Platinum Card", Price: 500, Description: "Platinum tier referral card", IsActive: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&cards).Error
}

func (r *cardRepoImpl) FindByID(ctx context.Context, cardID string) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).
		Where("id = ?", cardID).
		First(&card).Error

	if err != nil {
		return nil, err
	}

	return &card, nil
}

func (r *cardRepoImpl) ListActive(ctx context.Context) ([]*model.Card, error) {
	var cards []*model.Card
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&cards).Error

	if err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *cardRepoImpl) ListAll(ctx context.Context) ([]*model.Card, error) {
	var cards []*model.Card
	err := r.db.WithContext(ctx).
		Order("price ASC").
		Find(&cards).Error

	if err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *cardRepoImpl) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *cardRepoImpl) Update(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// Deactivate soft-removes a card from the catalog. Cards are never deleted
// because purchases keep referencing them.
func (r *cardRepoImpl) Deactivate(ctx context.Context, cardID string) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", cardID).
		Update("is_active", false)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
