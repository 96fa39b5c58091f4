package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	repo "github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"

	"github.com/shopspring/decimal"
)

type SweetUsecase struct {
	sweetRepo repo.SweetRepository
}

// DI
func NewSweetUsecase(sweetRepo repo.SweetRepository) *SweetUsecase {
	return &SweetUsecase{sweetRepo: sweetRepo}
}

// GET /api/sweets の入力DTO
type ListSweetsInput struct {
	Page     int
	Limit    int
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type SweetListOutput struct {
	Items []model.Sweet `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *SweetUsecase) ListSweets(ctx context.Context, in ListSweetsInput) (SweetListOutput, error) {
	if in.Page < 1 {
		return SweetListOutput{}, fmt.Errorf("%w: invalid page", repo.ErrInvalidInput)
	}
	if in.Limit < 1 || in.Limit > 100 {
		return SweetListOutput{}, fmt.Errorf("%w: invalid limit", repo.ErrInvalidInput)
	}
	if len(in.Name) > 100 {
		return SweetListOutput{}, fmt.Errorf("%w: name too long", repo.ErrInvalidInput)
	}
	if len(in.Category) > 100 {
		return SweetListOutput{}, fmt.Errorf("%w: category too long", repo.ErrInvalidInput)
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return SweetListOutput{}, fmt.Errorf("%w: min_price must be >= 0", repo.ErrInvalidInput)
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return SweetListOutput{}, fmt.Errorf("%w: max_price must be >= 0", repo.ErrInvalidInput)
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return SweetListOutput{}, fmt.Errorf("%w: min_price must be <= max_price", repo.ErrInvalidInput)
	}
	switch in.Sort {
	case "", "new", "name", "price_asc", "price_desc":
	default:
		return SweetListOutput{}, fmt.Errorf("%w: invalid sort", repo.ErrInvalidInput)
	}

	items, total, err := u.sweetRepo.List(ctx, repo.SweetListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return SweetListOutput{}, err
	}

	return SweetListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *SweetUsecase) GetSweet(ctx context.Context, sweetID int64) (model.Sweet, error) {
	if sweetID <= 0 {
		return model.Sweet{}, fmt.Errorf("%w: invalid sweet id", repo.ErrInvalidInput)
	}
	return u.sweetRepo.FindByID(ctx, sweetID)
}

type SweetInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int64
	Description string
}

// 共通の項目チェック（作成・更新とも全項目必須）
func validateSweetInput(in SweetInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name required", repo.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category required", repo.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", repo.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be >= 0", repo.ErrInvalidInput)
	}
	return nil
}

func (u *SweetUsecase) CreateSweet(ctx context.Context, in SweetInput) (model.Sweet, error) {
	if err := validateSweetInput(in); err != nil {
		return model.Sweet{}, err
	}

	now := time.Now()
	return u.sweetRepo.Create(ctx, model.Sweet{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (u *SweetUsecase) UpdateSweet(ctx context.Context, sweetID int64, in SweetInput) (model.Sweet, error) {
	if sweetID <= 0 {
		return model.Sweet{}, fmt.Errorf("%w: invalid sweet id", repo.ErrInvalidInput)
	}
	if err := validateSweetInput(in); err != nil {
		return model.Sweet{}, err
	}

	err := u.sweetRepo.Update(ctx, model.Sweet{
		ID:          sweetID,
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		return model.Sweet{}, err
	}

	return u.sweetRepo.FindByID(ctx, sweetID)
}

func (u *SweetUsecase) DeleteSweet(ctx context.Context, sweetID int64) error {
	if sweetID <= 0 {
		return fmt.Errorf("%w: invalid sweet id", repo.ErrInvalidInput)
	}
	return u.sweetRepo.Delete(ctx, sweetID)
}

// 購入。減算はrepo側の条件付きUPDATE1発に任せる。在庫不足はリトライしない。
func (u *SweetUsecase) Purchase(ctx context.Context, sweetID int64, amount int64) (model.Sweet, error) {
	return u.adjust(ctx, sweetID, amount, -1)
}

// 補充。上限はない。正のdeltaはガードに当たらない。
func (u *SweetUsecase) Restock(ctx context.Context, sweetID int64, amount int64) (model.Sweet, error) {
	return u.adjust(ctx, sweetID, amount, +1)
}

// 購入と補充は向きが違うだけで同じ形。signは-1（購入）か+1（補充）。
func (u *SweetUsecase) adjust(ctx context.Context, sweetID int64, amount int64, sign int64) (model.Sweet, error) {
	if sweetID <= 0 {
		return model.Sweet{}, fmt.Errorf("%w: invalid sweet id", repo.ErrInvalidInput)
	}
	if amount <= 0 {
		return model.Sweet{}, fmt.Errorf("%w: amount must be > 0", repo.ErrInvalidInput)
	}

	return u.sweetRepo.AdjustQuantity(ctx, sweetID, sign*amount)
}
