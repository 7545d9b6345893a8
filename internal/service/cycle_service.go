package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/config"
	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/model"
	"github.com/gabzinnn/av-continua-sub001/internal/repository"
	"github.com/gabzinnn/av-continua-sub001/pkg/redis"
)

// ── cycle errors ──

var (
	ErrCicloAtivoExistente = errors.New("já existe um ciclo de avaliação em andamento")
	ErrCicloNomeExistente  = errors.New("já existe um ciclo de avaliação com esse nome")
	ErrCicloNaoEncontrado  = errors.New("ciclo de avaliação não encontrado")
	ErrCicloJaFinalizado   = errors.New("ciclo de avaliação já finalizado")
	ErrSemCicloAtivo       = errors.New("nenhum ciclo de avaliação em andamento")
	ErrGrupoNomeExistente  = errors.New("já existe um ciclo com esse nome")
	ErrGrupoNaoEncontrado  = errors.New("ciclo não encontrado")
)

// CycleService owns the evaluation-cycle lifecycle: at most one open cycle
// at a time, irreversible finalization, and eligibility by account age.
type CycleService interface {
	Create(ctx context.Context, req *dto.CreateCicloAvaliacaoRequest, criadoPor string) (*dto.CicloAvaliacaoResponse, error)
	Finalize(ctx context.Context, id string) error
	Active(ctx context.Context) (*dto.CicloAvaliacaoResponse, error)
	List(ctx context.Context) ([]dto.CicloAvaliacaoResponse, error)
	// Progress reports completion of a cycle; an empty id targets the
	// active one.
	Progress(ctx context.Context, id string) (*dto.ProgressoCicloResponse, error)
	// EligibleMembers returns active members whose account existed on or
	// before the cycle's start date.
	EligibleMembers(ctx context.Context, cicloID string) ([]model.Membro, error)

	CreateCiclo(ctx context.Context, req *dto.CreateCicloRequest) (*dto.CicloResponse, error)
	ListCiclos(ctx context.Context) ([]dto.CicloResponse, error)
}

type cycleService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
	janela time.Duration
}

// NewCycleService creates the CycleService.
func NewCycleService(cfg *config.Config, repo *repository.Repository, cache *redis.Client, logger *zap.Logger) CycleService {
	return &cycleService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		janela: time.Duration(cfg.Avaliacao.JanelaDias) * 24 * time.Hour,
	}
}

// ────────────────────── Create ──────────────────────

func (s *cycleService) Create(ctx context.Context, req *dto.CreateCicloAvaliacaoRequest, criadoPor string) (*dto.CicloAvaliacaoResponse, error) {
	// one open cycle at a time
	if _, err := s.repo.CicloAvaliacao.GetAtivo(ctx); err == nil {
		return nil, ErrCicloAtivoExistente
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check active cycle", zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.CicloAvaliacao.GetByNome(ctx, req.Nome); err == nil {
		return nil, ErrCicloNomeExistente
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check cycle name", zap.Error(err))
		return nil, err
	}

	inicio := time.Now()
	fim := inicio.Add(s.janela)
	ciclo := &model.CicloAvaliacao{
		Nome:       req.Nome,
		DataInicio: inicio,
		DataFim:    &fim,
		CicloID:    req.CicloID,
		CriadoPor:  &criadoPor,
	}
	if err := s.repo.CicloAvaliacao.Create(ctx, ciclo); err != nil {
		s.logger.Error("failed to create evaluation cycle", zap.Error(err))
		return nil, err
	}

	s.cache.DeleteByPrefix(ctx, relatorioCachePrefix)
	s.logger.Info("evaluation cycle created",
		zap.String("ciclo_avaliacao_id", ciclo.CicloAvaliacaoID),
		zap.String("nome", ciclo.Nome),
	)

	return toCicloAvaliacaoResponse(ciclo), nil
}

// ────────────────────── Finalize ──────────────────────

func (s *cycleService) Finalize(ctx context.Context, id string) error {
	ciclo, err := s.repo.CicloAvaliacao.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCicloNaoEncontrado
		}
		s.logger.Error("failed to load cycle", zap.String("id", id), zap.Error(err))
		return err
	}
	if ciclo.Finalizada {
		return ErrCicloJaFinalizado
	}

	// irreversible: there is no un-finalize
	agora := time.Now()
	ciclo.Finalizada = true
	ciclo.DataFim = &agora
	if err := s.repo.CicloAvaliacao.Update(ctx, ciclo); err != nil {
		s.logger.Error("failed to finalize cycle", zap.String("id", id), zap.Error(err))
		return err
	}

	s.cache.DeleteByPrefix(ctx, relatorioCachePrefix)
	s.logger.Info("evaluation cycle finalized", zap.String("ciclo_avaliacao_id", id))
	return nil
}

// ────────────────────── Active / List ──────────────────────

func (s *cycleService) Active(ctx context.Context) (*dto.CicloAvaliacaoResponse, error) {
	ciclo, err := s.repo.CicloAvaliacao.GetAtivo(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemCicloAtivo
		}
		s.logger.Error("failed to load active cycle", zap.Error(err))
		return nil, err
	}
	return toCicloAvaliacaoResponse(ciclo), nil
}

func (s *cycleService) List(ctx context.Context) ([]dto.CicloAvaliacaoResponse, error) {
	ciclos, err := s.repo.CicloAvaliacao.List(ctx)
	if err != nil {
		s.logger.Error("failed to list cycles", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CicloAvaliacaoResponse, 0, len(ciclos))
	for i := range ciclos {
		result = append(result, *toCicloAvaliacaoResponse(&ciclos[i]))
	}
	return result, nil
}

// ────────────────────── Progress ──────────────────────

func (s *cycleService) Progress(ctx context.Context, id string) (*dto.ProgressoCicloResponse, error) {
	var ciclo *model.CicloAvaliacao
	var err error
	if id == "" {
		ciclo, err = s.repo.CicloAvaliacao.GetAtivo(ctx)
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemCicloAtivo
		}
	} else {
		ciclo, err = s.repo.CicloAvaliacao.GetByID(ctx, id)
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCicloNaoEncontrado
		}
	}
	if err != nil {
		s.logger.Error("failed to load cycle for progress", zap.Error(err))
		return nil, err
	}

	elegiveis, err := s.repo.Membro.ListElegiveis(ctx, ciclo.DataInicio)
	if err != nil {
		s.logger.Error("failed to list eligible members", zap.Error(err))
		return nil, err
	}
	elegivelSet := make(map[string]bool, len(elegiveis))
	for i := range elegiveis {
		elegivelSet[elegiveis[i].MembroID] = true
	}

	participacoes, err := s.repo.Participacao.ListByCiclo(ctx, ciclo.CicloAvaliacaoID)
	if err != nil {
		s.logger.Error("failed to list participations", zap.Error(err))
		return nil, err
	}
	concluidos := 0
	for i := range participacoes {
		p := &participacoes[i]
		// members who joined after the cycle started do not count in
		// the denominator, so they do not count here either
		if p.RespondeuAvaliacao && elegivelSet[p.MembroID] {
			concluidos++
		}
	}

	percentual := 0.0
	if len(elegiveis) > 0 {
		percentual = float64(concluidos) / float64(len(elegiveis)) * 100
	}

	return &dto.ProgressoCicloResponse{
		CicloAvaliacaoID: ciclo.CicloAvaliacaoID,
		Nome:             ciclo.Nome,
		DataInicio:       ciclo.DataInicio.Format(time.RFC3339),
		DiasRestantes:    diasRestantes(ciclo),
		TotalElegiveis:   len(elegiveis),
		TotalConcluidos:  concluidos,
		Percentual:       round1(percentual),
	}, nil
}

// diasRestantes estimates remaining days from the start+window end date.
// Finalized cycles always report 0.
func diasRestantes(ciclo *model.CicloAvaliacao) int {
	if ciclo.Finalizada || ciclo.DataFim == nil {
		return 0
	}
	restante := time.Until(*ciclo.DataFim)
	if restante <= 0 {
		return 0
	}
	return int(math.Ceil(restante.Hours() / 24))
}

// ────────────────────── EligibleMembers ──────────────────────

func (s *cycleService) EligibleMembers(ctx context.Context, cicloID string) ([]model.Membro, error) {
	ciclo, err := s.repo.CicloAvaliacao.GetByID(ctx, cicloID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCicloNaoEncontrado
		}
		s.logger.Error("failed to load cycle", zap.String("id", cicloID), zap.Error(err))
		return nil, err
	}
	return s.repo.Membro.ListElegiveis(ctx, ciclo.DataInicio)
}

// ────────────────────── ciclo groups ──────────────────────

func (s *cycleService) CreateCiclo(ctx context.Context, req *dto.CreateCicloRequest) (*dto.CicloResponse, error) {
	if _, err := s.repo.Ciclo.GetByNome(ctx, req.Nome); err == nil {
		return nil, ErrGrupoNomeExistente
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check ciclo name", zap.Error(err))
		return nil, err
	}

	ciclo := &model.Ciclo{Nome: req.Nome}
	if err := s.repo.Ciclo.Create(ctx, ciclo); err != nil {
		s.logger.Error("failed to create ciclo", zap.Error(err))
		return nil, err
	}
	return &dto.CicloResponse{ID: ciclo.CicloID, Nome: ciclo.Nome}, nil
}

func (s *cycleService) ListCiclos(ctx context.Context) ([]dto.CicloResponse, error) {
	ciclos, err := s.repo.Ciclo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list ciclos", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CicloResponse, 0, len(ciclos))
	for i := range ciclos {
		result = append(result, dto.CicloResponse{ID: ciclos[i].CicloID, Nome: ciclos[i].Nome})
	}
	return result, nil
}

// ── helpers ──

func toCicloAvaliacaoResponse(c *model.CicloAvaliacao) *dto.CicloAvaliacaoResponse {
	resp := &dto.CicloAvaliacaoResponse{
		ID:         c.CicloAvaliacaoID,
		Nome:       c.Nome,
		DataInicio: c.DataInicio.Format(time.RFC3339),
		Finalizada: c.Finalizada,
		CicloID:    c.CicloID,
	}
	if c.DataFim != nil {
		fim := c.DataFim.Format(time.RFC3339)
		resp.DataFim = &fim
	}
	return resp
}
