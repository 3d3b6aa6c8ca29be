package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shopfront/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var rec productRecord
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	product := productFromRecord(rec)
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return r.productPage(ctx, r.DB.WithContext(ctx).Model(&productRecord{}), offset, limit)
}

// SearchProducts matches query as a literal, case-insensitive substring of
// the product name.
func (r *GormRepo) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	scope := r.DB.WithContext(ctx).
		Model(&productRecord{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	return r.productPage(ctx, scope, offset, limit)
}

func (r *GormRepo) productPage(ctx context.Context, scope *gorm.DB, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("count products: %w", err)
	}

	var recs []productRecord
	if err := scope.Session(&gorm.Session{}).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&recs).Error; err != nil {
		return 0, nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]models.Product, 0, len(recs))
	for _, rec := range recs {
		items = append(items, productFromRecord(rec))
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	rec := productToRecord(product)
	rec.ID = 0
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	created := productFromRecord(rec)
	return &created, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&productRecord{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}
