package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/domain/model"
	repo "github.com/Priya-Sri24/Sweet-Shop-Management-System/internal/repository"

	"gorm.io/gorm"
)

type SweetGormRepository struct {
	db *gorm.DB
}

// DI
func NewSweetGormRepository(db *gorm.DB) *SweetGormRepository {
	return &SweetGormRepository{db: db}
}

// 名前・カテゴリ・価格帯のAND検索（ページング付き）で返す。
func (r *SweetGormRepository) List(ctx context.Context, q repo.SweetListQuery) ([]model.Sweet, int64, error) {
	var sweets []model.Sweet
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Sweet{})

	// name 部分一致
	if strings.TrimSpace(q.Name) != "" {
		like := "%" + strings.TrimSpace(q.Name) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}

	// category 部分一致
	if strings.TrimSpace(q.Category) != "" {
		like := "%" + strings.TrimSpace(q.Category) + "%"
		tx = tx.Where("category ILIKE ?", like)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Sweet{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("price desc").Order("id desc")
	case "name":
		tx = tx.Order("name asc").Order("id asc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&sweets).Error; err != nil {
		return []model.Sweet{}, 0, err
	}

	return sweets, total, nil
}

// IDで1件取得
func (r *SweetGormRepository) FindByID(ctx context.Context, id int64) (model.Sweet, error) {
	var s model.Sweet
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sweet{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sweet{}, err
	}
	return s, nil
}

// 作成（IDはDBが採番）
func (r *SweetGormRepository) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Sweet{}, err
	}
	return s, nil
}

// 全項目置き換えで更新
func (r *SweetGormRepository) Update(ctx context.Context, s model.Sweet) error {
	res := r.db.WithContext(ctx).Model(&model.Sweet{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":        s.Name,
		"category":    s.Category,
		"price":       s.Price,
		"quantity":    s.Quantity,
		"description": s.Description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 削除
func (r *SweetGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Sweet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 数量にdeltaを加算する。quantity + delta >= 0 のときだけ1行更新される。
// 条件付きUPDATE1発なので、同一行への同時実行は行ロックで直列化される。
func (r *SweetGormRepository) AdjustQuantity(ctx context.Context, id int64, delta int64) (model.Sweet, error) {
	var out model.Sweet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Sweet{}).
			Where("id = ? AND quantity + ? >= 0", id, delta).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// 0件更新は「存在しない」か「在庫不足」。読み直して区別する。
			var s model.Sweet
			if err := tx.First(&s, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return repo.ErrNotFound
				}
				return err
			}
			return &repo.InsufficientStockError{Available: s.Quantity}
		}

		//更新後の状態を返す
		if err := tx.First(&out, id).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return model.Sweet{}, err
	}

	return out, nil
}
