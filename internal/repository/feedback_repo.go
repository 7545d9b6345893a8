package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// FeedbackRepository access to feedback-quality ratings.
type FeedbackRepository interface {
	// Upsert writes the rating keyed by resposta_id; a re-rating wins.
	Upsert(ctx context.Context, fb *model.AvaliacaoFeedback) error
	GetByResposta(ctx context.Context, respostaID string) (*model.AvaliacaoFeedback, error)
	ListByRespostas(ctx context.Context, respostaIDs []string) ([]model.AvaliacaoFeedback, error)
	// ListByCiclo returns ratings tied to finalized responses of a cycle.
	ListByCiclo(ctx context.Context, cicloID string) ([]model.AvaliacaoFeedback, error)
}

type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo creates the GORM-backed FeedbackRepository.
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Upsert(ctx context.Context, fb *model.AvaliacaoFeedback) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resposta_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"nota_feedback", "updated_at"}),
		}, clause.Returning{}).
		Create(fb).Error
}

func (r *feedbackRepo) GetByResposta(ctx context.Context, respostaID string) (*model.AvaliacaoFeedback, error) {
	var fb model.AvaliacaoFeedback
	err := r.db.WithContext(ctx).
		Where("resposta_id = ?", respostaID).
		First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepo) ListByRespostas(ctx context.Context, respostaIDs []string) ([]model.AvaliacaoFeedback, error) {
	if len(respostaIDs) == 0 {
		return nil, nil
	}
	var fbs []model.AvaliacaoFeedback
	err := r.db.WithContext(ctx).
		Where("resposta_id IN ?", respostaIDs).
		Find(&fbs).Error
	return fbs, err
}

func (r *feedbackRepo) ListByCiclo(ctx context.Context, cicloID string) ([]model.AvaliacaoFeedback, error) {
	var fbs []model.AvaliacaoFeedback
	err := r.db.WithContext(ctx).
		Joins("JOIN respostas_avaliacao ON respostas_avaliacao.resposta_id = avaliacoes_feedback.resposta_id").
		Where("respostas_avaliacao.ciclo_avaliacao_id = ? AND respostas_avaliacao.finalizada = ?", cicloID, true).
		Find(&fbs).Error
	return fbs, err
}
