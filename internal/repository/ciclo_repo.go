package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// CicloRepository access to ciclo reporting groups.
type CicloRepository interface {
	Create(ctx context.Context, ciclo *model.Ciclo) error
	GetByID(ctx context.Context, id string) (*model.Ciclo, error)
	GetByNome(ctx context.Context, nome string) (*model.Ciclo, error)
	List(ctx context.Context) ([]model.Ciclo, error)
}

type cicloRepo struct {
	db *gorm.DB
}

// NewCicloRepo creates the GORM-backed CicloRepository.
func NewCicloRepo(db *gorm.DB) CicloRepository {
	return &cicloRepo{db: db}
}

func (r *cicloRepo) Create(ctx context.Context, ciclo *model.Ciclo) error {
	return r.db.WithContext(ctx).Create(ciclo).Error
}

func (r *cicloRepo) GetByID(ctx context.Context, id string) (*model.Ciclo, error) {
	var c model.Ciclo
	err := r.db.WithContext(ctx).
		Where("ciclo_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloRepo) GetByNome(ctx context.Context, nome string) (*model.Ciclo, error) {
	var c model.Ciclo
	err := r.db.WithContext(ctx).
		Where("nome = ?", nome).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloRepo) List(ctx context.Context) ([]model.Ciclo, error) {
	var ciclos []model.Ciclo
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&ciclos).Error
	return ciclos, err
}
