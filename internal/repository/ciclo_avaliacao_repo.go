package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// CicloAvaliacaoRepository access to evaluation cycles.
type CicloAvaliacaoRepository interface {
	Create(ctx context.Context, ciclo *model.CicloAvaliacao) error
	GetByID(ctx context.Context, id string) (*model.CicloAvaliacao, error)
	GetByNome(ctx context.Context, nome string) (*model.CicloAvaliacao, error)
	// GetAtivo returns the single non-finalized cycle, or
	// gorm.ErrRecordNotFound when none is open.
	GetAtivo(ctx context.Context) (*model.CicloAvaliacao, error)
	List(ctx context.Context) ([]model.CicloAvaliacao, error)
	ListByCiclo(ctx context.Context, cicloID string) ([]model.CicloAvaliacao, error)
	Update(ctx context.Context, ciclo *model.CicloAvaliacao) error
}

type cicloAvaliacaoRepo struct {
	db *gorm.DB
}

// NewCicloAvaliacaoRepo creates the GORM-backed CicloAvaliacaoRepository.
func NewCicloAvaliacaoRepo(db *gorm.DB) CicloAvaliacaoRepository {
	return &cicloAvaliacaoRepo{db: db}
}

func (r *cicloAvaliacaoRepo) Create(ctx context.Context, ciclo *model.CicloAvaliacao) error {
	return r.db.WithContext(ctx).Create(ciclo).Error
}

func (r *cicloAvaliacaoRepo) GetByID(ctx context.Context, id string) (*model.CicloAvaliacao, error) {
	var c model.CicloAvaliacao
	err := r.db.WithContext(ctx).
		Where("ciclo_avaliacao_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloAvaliacaoRepo) GetByNome(ctx context.Context, nome string) (*model.CicloAvaliacao, error) {
	var c model.CicloAvaliacao
	err := r.db.WithContext(ctx).
		Where("nome = ?", nome).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloAvaliacaoRepo) GetAtivo(ctx context.Context) (*model.CicloAvaliacao, error) {
	var c model.CicloAvaliacao
	err := r.db.WithContext(ctx).
		Where("finalizada = ?", false).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cicloAvaliacaoRepo) List(ctx context.Context) ([]model.CicloAvaliacao, error) {
	var ciclos []model.CicloAvaliacao
	err := r.db.WithContext(ctx).
		Order("data_inicio ASC").
		Find(&ciclos).Error
	return ciclos, err
}

func (r *cicloAvaliacaoRepo) ListByCiclo(ctx context.Context, cicloID string) ([]model.CicloAvaliacao, error) {
	var ciclos []model.CicloAvaliacao
	err := r.db.WithContext(ctx).
		Where("ciclo_id = ?", cicloID).
		Order("data_inicio ASC").
		Find(&ciclos).Error
	return ciclos, err
}

func (r *cicloAvaliacaoRepo) Update(ctx context.Context, ciclo *model.CicloAvaliacao) error {
	return r.db.WithContext(ctx).Save(ciclo).Error
}
