package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// RespostaRepository access to evaluation responses and their action plans.
type RespostaRepository interface {
	// Upsert writes the response keyed by (ciclo, avaliador, avaliado).
	// On conflict the new ratings, feedback and finalizada flag win and
	// resp.RespostaID is populated with the existing row's id.
	Upsert(ctx context.Context, resp *model.RespostaAvaliacao) error
	GetByID(ctx context.Context, id string) (*model.RespostaAvaliacao, error)
	GetByChave(ctx context.Context, cicloID, avaliadorID, avaliadoID string) (*model.RespostaAvaliacao, error)
	// CountAvaliadosDistintos counts distinct evaluated members the
	// evaluator has any response for (draft or final) in the cycle.
	CountAvaliadosDistintos(ctx context.Context, cicloID, avaliadorID string) (int64, error)
	// ListRecebidas returns finalized responses addressed to the member
	// across all cycles, newest first, with evaluator and cycle preloaded.
	ListRecebidas(ctx context.Context, avaliadoID string) ([]model.RespostaAvaliacao, error)
	ListFinalizadasByAvaliado(ctx context.Context, cicloID, avaliadoID string) ([]model.RespostaAvaliacao, error)
	ListFinalizadasByCiclo(ctx context.Context, cicloID string) ([]model.RespostaAvaliacao, error)
	ListByAvaliador(ctx context.Context, cicloID, avaliadorID string) ([]model.RespostaAvaliacao, error)

	// ReplacePlanos swaps the response's whole action-plan set.
	ReplacePlanos(ctx context.Context, respostaID string, planos []model.PlanoAcao) error
	ListPlanos(ctx context.Context, respostaID string) ([]model.PlanoAcao, error)
}

type respostaRepo struct {
	db *gorm.DB
}

// NewRespostaRepo creates the GORM-backed RespostaRepository.
func NewRespostaRepo(db *gorm.DB) RespostaRepository {
	return &respostaRepo{db: db}
}

func (r *respostaRepo) Upsert(ctx context.Context, resp *model.RespostaAvaliacao) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "ciclo_avaliacao_id"},
				{Name: "avaliador_id"},
				{Name: "avaliado_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"nota_entrega", "nota_cultura", "feedback", "finalizada", "updated_at",
			}),
		}, clause.Returning{}).
		Create(resp).Error
}

func (r *respostaRepo) GetByID(ctx context.Context, id string) (*model.RespostaAvaliacao, error) {
	var resp model.RespostaAvaliacao
	err := r.db.WithContext(ctx).
		Where("resposta_id = ?", id).
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *respostaRepo) GetByChave(ctx context.Context, cicloID, avaliadorID, avaliadoID string) (*model.RespostaAvaliacao, error) {
	var resp model.RespostaAvaliacao
	err := r.db.WithContext(ctx).
		Where("ciclo_avaliacao_id = ? AND avaliador_id = ? AND avaliado_id = ?", cicloID, avaliadorID, avaliadoID).
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *respostaRepo) CountAvaliadosDistintos(ctx context.Context, cicloID, avaliadorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RespostaAvaliacao{}).
		Where("ciclo_avaliacao_id = ? AND avaliador_id = ?", cicloID, avaliadorID).
		Distinct("avaliado_id").
		Count(&count).Error
	return count, err
}

func (r *respostaRepo) ListRecebidas(ctx context.Context, avaliadoID string) ([]model.RespostaAvaliacao, error) {
	var resps []model.RespostaAvaliacao
	err := r.db.WithContext(ctx).
		Preload("Avaliador").
		Preload("CicloAvaliacao").
		Where("avaliado_id = ? AND finalizada = ?", avaliadoID, true).
		Order("created_at DESC").
		Find(&resps).Error
	return resps, err
}

func (r *respostaRepo) ListFinalizadasByAvaliado(ctx context.Context, cicloID, avaliadoID string) ([]model.RespostaAvaliacao, error) {
	var resps []model.RespostaAvaliacao
	err := r.db.WithContext(ctx).
		Where("ciclo_avaliacao_id = ? AND avaliado_id = ? AND finalizada = ?", cicloID, avaliadoID, true).
		Find(&resps).Error
	return resps, err
}

func (r *respostaRepo) ListFinalizadasByCiclo(ctx context.Context, cicloID string) ([]model.RespostaAvaliacao, error) {
	var resps []model.RespostaAvaliacao
	err := r.db.WithContext(ctx).
		Preload("Avaliado").
		Preload("Avaliado.Area").
		Where("ciclo_avaliacao_id = ? AND finalizada = ?", cicloID, true).
		Find(&resps).Error
	return resps, err
}

func (r *respostaRepo) ListByAvaliador(ctx context.Context, cicloID, avaliadorID string) ([]model.RespostaAvaliacao, error) {
	var resps []model.RespostaAvaliacao
	err := r.db.WithContext(ctx).
		Where("ciclo_avaliacao_id = ? AND avaliador_id = ?", cicloID, avaliadorID).
		Find(&resps).Error
	return resps, err
}

func (r *respostaRepo) ReplacePlanos(ctx context.Context, respostaID string, planos []model.PlanoAcao) error {
	if err := r.db.WithContext(ctx).
		Where("resposta_id = ?", respostaID).
		Delete(&model.PlanoAcao{}).Error; err != nil {
		return err
	}
	if len(planos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&planos).Error
}

func (r *respostaRepo) ListPlanos(ctx context.Context, respostaID string) ([]model.PlanoAcao, error) {
	var planos []model.PlanoAcao
	err := r.db.WithContext(ctx).
		Where("resposta_id = ?", respostaID).
		Order("created_at ASC").
		Find(&planos).Error
	return planos, err
}
