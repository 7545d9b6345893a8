package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// AlocacaoRepository read-only access to staffing records.
type AlocacaoRepository interface {
	// ListAtivas returns allocations of active members on non-finalized
	// demandas, with the demanda preloaded. This is the assignment
	// resolver's raw material.
	ListAtivas(ctx context.Context) ([]model.Alocacao, error)
}

type alocacaoRepo struct {
	db *gorm.DB
}

// NewAlocacaoRepo creates the GORM-backed AlocacaoRepository.
func NewAlocacaoRepo(db *gorm.DB) AlocacaoRepository {
	return &alocacaoRepo{db: db}
}

func (r *alocacaoRepo) ListAtivas(ctx context.Context) ([]model.Alocacao, error) {
	var alocs []model.Alocacao
	err := r.db.WithContext(ctx).
		Joins("JOIN demandas ON demandas.demanda_id = alocacoes.demanda_id AND demandas.finalizada = ?", false).
		Joins("JOIN membros ON membros.membro_id = alocacoes.membro_id AND membros.ativo = ?", true).
		Preload("Demanda").
		Preload("Demanda.Area").
		Find(&alocs).Error
	return alocs, err
}
