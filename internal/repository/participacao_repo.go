package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// ParticipacaoRepository access to per-cycle participation records.
// Completion flags only ever move false → true; the Set operations below
// never clear a flag.
type ParticipacaoRepository interface {
	Get(ctx context.Context, cicloID, membroID string) (*model.Participacao, error)
	ListByCiclo(ctx context.Context, cicloID string) ([]model.Participacao, error)
	SetRespondeuAvaliacao(ctx context.Context, cicloID, membroID string) error
	SetAvaliouFeedbacks(ctx context.Context, cicloID, membroID string) error
}

type participacaoRepo struct {
	db *gorm.DB
}

// NewParticipacaoRepo creates the GORM-backed ParticipacaoRepository.
func NewParticipacaoRepo(db *gorm.DB) ParticipacaoRepository {
	return &participacaoRepo{db: db}
}

func (r *participacaoRepo) Get(ctx context.Context, cicloID, membroID string) (*model.Participacao, error) {
	var p model.Participacao
	err := r.db.WithContext(ctx).
		Where("ciclo_avaliacao_id = ? AND membro_id = ?", cicloID, membroID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participacaoRepo) ListByCiclo(ctx context.Context, cicloID string) ([]model.Participacao, error) {
	var parts []model.Participacao
	err := r.db.WithContext(ctx).
		Where("ciclo_avaliacao_id = ?", cicloID).
		Find(&parts).Error
	return parts, err
}

func (r *participacaoRepo) SetRespondeuAvaliacao(ctx context.Context, cicloID, membroID string) error {
	return r.upsertFlag(ctx, cicloID, membroID, "respondeu_avaliacao")
}

func (r *participacaoRepo) SetAvaliouFeedbacks(ctx context.Context, cicloID, membroID string) error {
	return r.upsertFlag(ctx, cicloID, membroID, "avaliou_feedbacks")
}

func (r *participacaoRepo) upsertFlag(ctx context.Context, cicloID, membroID, coluna string) error {
	p := &model.Participacao{
		CicloAvaliacaoID: cicloID,
		MembroID:         membroID,
	}
	switch coluna {
	case "respondeu_avaliacao":
		p.RespondeuAvaliacao = true
	case "avaliou_feedbacks":
		p.AvaliouFeedbacks = true
	}
	// Only the flag being set is assigned on conflict, so the other flag
	// keeps its value.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "ciclo_avaliacao_id"},
				{Name: "membro_id"},
			},
			DoUpdates: clause.Assignments(map[string]interface{}{coluna: true}),
		}).
		Create(p).Error
}
