package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// AreaRepository read-only access to areas.
type AreaRepository interface {
	List(ctx context.Context) ([]model.Area, error)
}

type areaRepo struct {
	db *gorm.DB
}

// NewAreaRepo creates the GORM-backed AreaRepository.
func NewAreaRepo(db *gorm.DB) AreaRepository {
	return &areaRepo{db: db}
}

func (r *areaRepo) List(ctx context.Context) ([]model.Area, error) {
	var areas []model.Area
	err := r.db.WithContext(ctx).
		Order("nome ASC").
		Find(&areas).Error
	return areas, err
}
