package repository

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/util"

	"gorm.io/gorm"
)

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: tx}
}

func (r *ItemRepository) Create(ctx context.Context, item *model.Item) error {
	err := r.DB.WithContext(ctx).Create(item).Error
	return translate(err, fmt.Sprintf("item question %q", item.Question), nil)
}

func (r *ItemRepository) FindByID(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	err := r.DB.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, translate(err, "find item", itemNotFound(id))
	}
	return &item, nil
}

// FindByIDForUpdate 在事务内锁定题目行
func (r *ItemRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Item, error) {
	var item model.Item
	err := forUpdate(r.DB.WithContext(ctx)).First(&item, id).Error
	if err != nil {
		return nil, translate(err, "lock item", itemNotFound(id))
	}
	return &item, nil
}

// Updates 只写入 fields 中的列，随后重新读取
func (r *ItemRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (*model.Item, error) {
	db := r.DB.WithContext(ctx)
	if len(fields) > 0 {
		res := db.Model(&model.Item{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error, fmt.Sprintf("update item %d", id), itemNotFound(id))
		}
	}
	return r.FindByID(ctx, id)
}

func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete item %d", id), nil)
	}
	if res.RowsAffected == 0 {
		return itemNotFound(id)
	}
	return nil
}

func (r *ItemRepository) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, translate(err, "list items", nil)
}

func (r *ItemRepository) ListByLevel(ctx context.Context, level model.Level) ([]model.Item, error) {
	var items []model.Item
	err := r.DB.WithContext(ctx).Where("level = ?", level).Order("id ASC").Find(&items).Error
	return items, translate(err, "list items by level", nil)
}

// FirstByLevel 按 id 升序取该层级前 limit 道题
func (r *ItemRepository) FirstByLevel(ctx context.Context, level model.Level, limit int) ([]model.Item, error) {
	var items []model.Item
	if limit <= 0 {
		return items, nil
	}
	err := r.DB.WithContext(ctx).
		Where("level = ?", level).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	return items, translate(err, "first items by level", nil)
}

// LeastAttempted 按历史作答次数升序（id 升序兜底）取该层级前 limit 道题
func (r *ItemRepository) LeastAttempted(ctx context.Context, level model.Level, limit int) ([]model.Item, error) {
	type resultRow struct {
		model.Item
		AttemptCount int64
	}

	var rows []resultRow
	err := r.DB.WithContext(ctx).
		Table("test_items").
		Select("test_items.*, COUNT(test_answers.id) AS attempt_count").
		Joins("LEFT JOIN test_answers ON test_answers.item_id = test_items.id").
		Where("test_items.level = ?", level).
		Group("test_items.id").
		Order("attempt_count ASC, test_items.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "rank items by attempts", nil)
	}

	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Item)
	}
	return items, nil
}

func itemNotFound(id uint) error {
	return fmt.Errorf("%w: id=%d", util.ErrItemNotFound, id)
}
