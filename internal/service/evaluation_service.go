package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/model"
	"github.com/gabzinnn/av-continua-sub001/internal/repository"
	"github.com/gabzinnn/av-continua-sub001/pkg/redis"
)

// ── evaluation errors ──

var (
	ErrRespostaNaoEncontrada = errors.New("resposta de avaliação não encontrada")
	ErrAutoAvaliacao         = errors.New("não é possível avaliar a si mesmo")
	ErrFeedbackNaoPermitido  = errors.New("apenas o membro avaliado pode avaliar o feedback recebido")
)

// EvaluationService handles response writes and derives participation.
//
// Writes are idempotent per (ciclo, avaliador, avaliado): a re-submission
// overwrites ratings, feedback and the finalizada flag, and replaces the
// action-plan set wholesale. Response upsert, plan replacement and the
// participation recompute run in one transaction.
type EvaluationService interface {
	SubmitResponse(ctx context.Context, avaliadorID string, req *dto.SubmitRespostaRequest) (*dto.SubmitRespostaResponse, error)
	// GetExistingResponse returns the saved response for the triple, or
	// (nil, nil) when none exists yet.
	GetExistingResponse(ctx context.Context, cicloID, avaliadorID, avaliadoID string) (*dto.RespostaDetalheResponse, error)
	GetReceived(ctx context.Context, membroID string) ([]dto.AvaliacaoRecebidaResponse, error)
	SubmitFeedbackRating(ctx context.Context, avaliadoID string, req *dto.SubmitFeedbackRequest) error
}

type evaluationService struct {
	repo        *repository.Repository
	assignments AssignmentService
	cache       *redis.Client
	logger      *zap.Logger
}

// NewEvaluationService creates the EvaluationService.
func NewEvaluationService(repo *repository.Repository, assignments AssignmentService, cache *redis.Client, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, assignments: assignments, cache: cache, logger: logger}
}

// ────────────────────── SubmitResponse ──────────────────────

func (s *evaluationService) SubmitResponse(ctx context.Context, avaliadorID string, req *dto.SubmitRespostaRequest) (*dto.SubmitRespostaResponse, error) {
	if avaliadorID == req.AvaliadoID {
		return nil, ErrAutoAvaliacao
	}

	if _, err := s.repo.CicloAvaliacao.GetByID(ctx, req.CicloAvaliacaoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCicloNaoEncontrado
		}
		s.logger.Error("failed to load cycle", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Membro.GetByID(ctx, req.AvaliadoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembroNaoEncontrado
		}
		s.logger.Error("failed to load evaluated member", zap.Error(err))
		return nil, err
	}

	// the phase-1 denominator uses the shared-demand-only relation
	required, err := s.assignments.RequiredSet(ctx, avaliadorID, false)
	if err != nil {
		return nil, err
	}

	resposta := &model.RespostaAvaliacao{
		CicloAvaliacaoID: req.CicloAvaliacaoID,
		AvaliadorID:      avaliadorID,
		AvaliadoID:       req.AvaliadoID,
		NotaEntrega:      req.NotaEntrega,
		NotaCultura:      req.NotaCultura,
		Feedback:         req.Feedback,
		Finalizada:       req.Finalizada,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Resposta.Upsert(ctx, resposta); err != nil {
			return err
		}

		// replace, never merge: the submitted set is the plan set
		planos := make([]model.PlanoAcao, 0, len(req.PlanosAcao))
		for _, linha := range req.PlanosAcao {
			descricao := strings.TrimSpace(linha)
			if descricao == "" {
				continue
			}
			planos = append(planos, model.PlanoAcao{
				RespostaID:    resposta.RespostaID,
				Descricao:     descricao,
				ResponsavelID: req.AvaliadoID,
			})
		}
		if err := txRepo.Resposta.ReplacePlanos(ctx, resposta.RespostaID, planos); err != nil {
			return err
		}

		return s.recomputeFase1(ctx, txRepo, req.CicloAvaliacaoID, avaliadorID, len(required))
	})
	if err != nil {
		s.logger.Error("failed to submit response",
			zap.String("ciclo_avaliacao_id", req.CicloAvaliacaoID),
			zap.String("avaliador_id", avaliadorID),
			zap.String("avaliado_id", req.AvaliadoID),
			zap.Error(err),
		)
		return nil, err
	}

	s.cache.DeleteByPrefix(ctx, relatorioCachePrefix)

	return &dto.SubmitRespostaResponse{
		RespostaID: resposta.RespostaID,
		Finalizada: resposta.Finalizada,
	}, nil
}

// recomputeFase1 marks phase 1 done when the evaluator has a response,
// draft or final, for every member of their required set. The flag is
// monotonic: it is only ever set, never cleared.
func (s *evaluationService) recomputeFase1(ctx context.Context, txRepo *repository.Repository, cicloID, avaliadorID string, totalEsperado int) error {
	if totalEsperado == 0 {
		return nil
	}
	respondidos, err := txRepo.Resposta.CountAvaliadosDistintos(ctx, cicloID, avaliadorID)
	if err != nil {
		return err
	}
	if respondidos < int64(totalEsperado) {
		return nil
	}
	return txRepo.Participacao.SetRespondeuAvaliacao(ctx, cicloID, avaliadorID)
}

// ────────────────────── GetExistingResponse ──────────────────────

func (s *evaluationService) GetExistingResponse(ctx context.Context, cicloID, avaliadorID, avaliadoID string) (*dto.RespostaDetalheResponse, error) {
	resposta, err := s.repo.Resposta.GetByChave(ctx, cicloID, avaliadorID, avaliadoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to load response", zap.Error(err))
		return nil, err
	}

	planos, err := s.repo.Resposta.ListPlanos(ctx, resposta.RespostaID)
	if err != nil {
		s.logger.Error("failed to load action plans", zap.Error(err))
		return nil, err
	}
	linhas := make([]string, 0, len(planos))
	for i := range planos {
		linhas = append(linhas, planos[i].Descricao)
	}

	return &dto.RespostaDetalheResponse{
		RespostaID:  resposta.RespostaID,
		NotaEntrega: resposta.NotaEntrega,
		NotaCultura: resposta.NotaCultura,
		Feedback:    resposta.Feedback,
		Finalizada:  resposta.Finalizada,
		PlanosAcao:  linhas,
	}, nil
}

// ────────────────────── GetReceived ──────────────────────

func (s *evaluationService) GetReceived(ctx context.Context, membroID string) ([]dto.AvaliacaoRecebidaResponse, error) {
	respostas, err := s.repo.Resposta.ListRecebidas(ctx, membroID)
	if err != nil {
		s.logger.Error("failed to list received evaluations", zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(respostas))
	for i := range respostas {
		ids = append(ids, respostas[i].RespostaID)
	}
	feedbacks, err := s.repo.Feedback.ListByRespostas(ctx, ids)
	if err != nil {
		s.logger.Error("failed to list feedback ratings", zap.Error(err))
		return nil, err
	}
	notaPorResposta := make(map[string]int, len(feedbacks))
	for i := range feedbacks {
		notaPorResposta[feedbacks[i].RespostaID] = feedbacks[i].NotaFeedback
	}

	result := make([]dto.AvaliacaoRecebidaResponse, 0, len(respostas))
	for i := range respostas {
		r := &respostas[i]
		item := dto.AvaliacaoRecebidaResponse{
			RespostaID:  r.RespostaID,
			Data:        r.UpdatedAt.Format("2006-01-02"),
			NotaEntrega: r.NotaEntrega,
			NotaCultura: r.NotaCultura,
			Feedback:    r.Feedback,
		}
		if r.Avaliador != nil {
			item.AvaliadorNome = r.Avaliador.Nome
			item.AvaliadorFoto = r.Avaliador.Foto
		}
		if r.CicloAvaliacao != nil {
			item.CicloNome = r.CicloAvaliacao.Nome
		}
		if nota, ok := notaPorResposta[r.RespostaID]; ok {
			n := nota
			item.NotaFeedback = &n
		}
		result = append(result, item)
	}

	return result, nil
}

// ────────────────────── SubmitFeedbackRating ──────────────────────

func (s *evaluationService) SubmitFeedbackRating(ctx context.Context, avaliadoID string, req *dto.SubmitFeedbackRequest) error {
	resposta, err := s.repo.Resposta.GetByID(ctx, req.RespostaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRespostaNaoEncontrada
		}
		s.logger.Error("failed to load response", zap.Error(err))
		return err
	}
	if resposta.AvaliadoID != avaliadoID {
		return ErrFeedbackNaoPermitido
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		fb := &model.AvaliacaoFeedback{
			RespostaID:   req.RespostaID,
			AvaliadoID:   avaliadoID,
			NotaFeedback: req.NotaFeedback,
		}
		if err := txRepo.Feedback.Upsert(ctx, fb); err != nil {
			return err
		}
		return s.recomputeFase2(ctx, txRepo, resposta.CicloAvaliacaoID, avaliadoID)
	})
	if err != nil {
		s.logger.Error("failed to submit feedback rating",
			zap.String("resposta_id", req.RespostaID),
			zap.String("avaliado_id", avaliadoID),
			zap.Error(err),
		)
		return err
	}

	s.cache.DeleteByPrefix(ctx, relatorioCachePrefix)
	return nil
}

// recomputeFase2 marks phase 2 done when every finalized response addressed
// to the member in the cycle carries a feedback rating. Monotonic like
// phase 1.
func (s *evaluationService) recomputeFase2(ctx context.Context, txRepo *repository.Repository, cicloID, avaliadoID string) error {
	recebidas, err := txRepo.Resposta.ListFinalizadasByAvaliado(ctx, cicloID, avaliadoID)
	if err != nil {
		return err
	}
	if len(recebidas) == 0 {
		return nil
	}

	ids := make([]string, 0, len(recebidas))
	for i := range recebidas {
		ids = append(ids, recebidas[i].RespostaID)
	}
	avaliadas, err := txRepo.Feedback.ListByRespostas(ctx, ids)
	if err != nil {
		return err
	}
	if len(avaliadas) < len(recebidas) {
		return nil
	}
	return txRepo.Participacao.SetAvaliouFeedbacks(ctx, cicloID, avaliadoID)
}
