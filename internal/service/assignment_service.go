package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/model"
	"github.com/gabzinnn/av-continua-sub001/internal/repository"
	"github.com/gabzinnn/av-continua-sub001/pkg/redis"
)

// ── assignment errors ──

var ErrMembroNaoEncontrado = errors.New("membro não encontrado")

const (
	previewCacheKey = "avaliacao:preview"
	previewCacheTTL = 5 * time.Minute
)

// AssignmentService derives who evaluates whom in the current cycle.
//
// There is exactly one resolver. The hierarchy rules (own-area coordinators,
// OI/CG coordinators, coordinator extras) are switched by includeHierarchy:
// the preview uses the full relation, while the evaluator's worklist and the
// phase-1 completion denominator use the shared-demand-only relation, so the
// count shown to the member always matches the count that marks them done.
type AssignmentService interface {
	// RequiredSet computes the ordered list of members membroID must
	// evaluate, from the current roster snapshot.
	RequiredSet(ctx context.Context, membroID string, includeHierarchy bool) ([]model.Membro, error)
	// GetOverview returns the caller's worklist for the active cycle.
	GetOverview(ctx context.Context, membroID string) (*dto.OverviewResponse, error)
	// GetPreview returns, for every active member, everyone they must
	// evaluate under the full relation.
	GetPreview(ctx context.Context) ([]dto.PreviewEntryResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewAssignmentService creates the AssignmentService.
func NewAssignmentService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, cache: cache, logger: logger}
}

// ── roster snapshot ──

// rosterSnapshot is one consistent read of active members and their
// allocations on non-finalized demandas. It is recomputed per call, never
// persisted.
type rosterSnapshot struct {
	membros    map[string]*model.Membro
	demandasDe map[string][]string        // membro → demandas
	membrosDa  map[string][]string        // demanda → membros
	lideresDa  map[string]map[string]bool // area → members with a leader allocation there

	coordenadores     []string
	coordenadoresOICG []string
}

func (s *assignmentService) loadSnapshot(ctx context.Context) (*rosterSnapshot, error) {
	membros, err := s.repo.Membro.ListAtivos(ctx)
	if err != nil {
		s.logger.Error("failed to list active members", zap.Error(err))
		return nil, err
	}
	alocs, err := s.repo.Alocacao.ListAtivas(ctx)
	if err != nil {
		s.logger.Error("failed to list active allocations", zap.Error(err))
		return nil, err
	}

	snap := &rosterSnapshot{
		membros:    make(map[string]*model.Membro, len(membros)),
		demandasDe: make(map[string][]string),
		membrosDa:  make(map[string][]string),
		lideresDa:  make(map[string]map[string]bool),
	}

	for i := range membros {
		m := &membros[i]
		snap.membros[m.MembroID] = m
		if !m.IsCoordenador {
			continue
		}
		snap.coordenadores = append(snap.coordenadores, m.MembroID)
		if model.IsAreaPrivilegiada(m.AreaNome()) {
			snap.coordenadoresOICG = append(snap.coordenadoresOICG, m.MembroID)
		}
	}

	for i := range alocs {
		a := &alocs[i]
		if _, ok := snap.membros[a.MembroID]; !ok {
			continue
		}
		snap.demandasDe[a.MembroID] = append(snap.demandasDe[a.MembroID], a.DemandaID)
		snap.membrosDa[a.DemandaID] = append(snap.membrosDa[a.DemandaID], a.MembroID)

		if a.IsLider && a.Demanda != nil && a.Demanda.AreaID != nil {
			areaID := *a.Demanda.AreaID
			if snap.lideresDa[areaID] == nil {
				snap.lideresDa[areaID] = make(map[string]bool)
			}
			snap.lideresDa[areaID][a.MembroID] = true
		}
	}

	return snap, nil
}

// resolve computes the required-evaluation set for one member. The result
// never contains the member themself and only contains active members.
func (snap *rosterSnapshot) resolve(membroID string, includeHierarchy bool) []model.Membro {
	m, ok := snap.membros[membroID]
	if !ok {
		return nil
	}

	set := make(map[string]bool)

	// a. everyone sharing a non-finalized demanda (symmetric)
	for _, demandaID := range snap.demandasDe[membroID] {
		for _, outro := range snap.membrosDa[demandaID] {
			if outro != membroID {
				set[outro] = true
			}
		}
	}

	if includeHierarchy {
		// b. coordinators of the member's own area
		if m.AreaID != nil {
			for _, c := range snap.coordenadores {
				co := snap.membros[c]
				if c != membroID && co.AreaID != nil && *co.AreaID == *m.AreaID {
					set[c] = true
				}
			}
		}

		// c. the OI/CG coordinator set
		for _, c := range snap.coordenadoresOICG {
			if c != membroID {
				set[c] = true
			}
		}

		// d. coordinator extras: own-area demanda leaders plus every
		// other coordinator in the organization
		if m.IsCoordenador {
			if m.AreaID != nil {
				for lider := range snap.lideresDa[*m.AreaID] {
					if lider != membroID {
						set[lider] = true
					}
				}
			}
			for _, c := range snap.coordenadores {
				if c != membroID {
					set[c] = true
				}
			}
		}
	}

	result := make([]model.Membro, 0, len(set))
	for id := range set {
		result = append(result, *snap.membros[id])
	}
	sortParaExibicao(result)
	return result
}

// sortParaExibicao orders a required set for display: coordinators first,
// then area name (lexicographic, intentionally not the canonical area
// order), then member name.
func sortParaExibicao(membros []model.Membro) {
	sort.Slice(membros, func(i, j int) bool {
		a, b := &membros[i], &membros[j]
		if a.IsCoordenador != b.IsCoordenador {
			return a.IsCoordenador
		}
		an, bn := a.AreaNome(), b.AreaNome()
		if an != bn {
			return an < bn
		}
		return a.Nome < b.Nome
	})
}

// ── operations ──

func (s *assignmentService) RequiredSet(ctx context.Context, membroID string, includeHierarchy bool) ([]model.Membro, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.membros[membroID]; !ok {
		return nil, ErrMembroNaoEncontrado
	}
	return snap.resolve(membroID, includeHierarchy), nil
}

func (s *assignmentService) GetOverview(ctx context.Context, membroID string) (*dto.OverviewResponse, error) {
	ciclo, err := s.repo.CicloAvaliacao.GetAtivo(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemCicloAtivo
		}
		s.logger.Error("failed to load active cycle", zap.Error(err))
		return nil, err
	}

	required, err := s.RequiredSet(ctx, membroID, false)
	if err != nil {
		return nil, err
	}

	respostas, err := s.repo.Resposta.ListByAvaliador(ctx, ciclo.CicloAvaliacaoID, membroID)
	if err != nil {
		s.logger.Error("failed to list evaluator responses", zap.Error(err))
		return nil, err
	}
	porAvaliado := make(map[string]*model.RespostaAvaliacao, len(respostas))
	for i := range respostas {
		porAvaliado[respostas[i].AvaliadoID] = &respostas[i]
	}

	overview := &dto.OverviewResponse{
		CicloAvaliacaoID: ciclo.CicloAvaliacaoID,
		CicloNome:        ciclo.Nome,
		Avaliacoes:       make([]dto.OverviewMembroResponse, 0, len(required)),
		Total:            len(required),
	}
	for i := range required {
		m := &required[i]
		resp, existe := porAvaliado[m.MembroID]
		status := statusResposta(existe, existe && resp.Finalizada)
		if status == dto.StatusCompleted {
			overview.Concluidas++
		}
		overview.Avaliacoes = append(overview.Avaliacoes, dto.OverviewMembroResponse{
			MembroResumoResponse: toMembroResumo(m),
			Status:               status,
		})
	}

	return overview, nil
}

func (s *assignmentService) GetPreview(ctx context.Context) ([]dto.PreviewEntryResponse, error) {
	var cached []dto.PreviewEntryResponse
	if s.cache.GetJSON(ctx, previewCacheKey, &cached) {
		return cached, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	membros := make([]model.Membro, 0, len(snap.membros))
	for _, m := range snap.membros {
		membros = append(membros, *m)
	}
	sortParaExibicao(membros)

	preview := make([]dto.PreviewEntryResponse, 0, len(membros))
	for i := range membros {
		alvo := snap.resolve(membros[i].MembroID, true)
		avalia := make([]dto.MembroResumoResponse, 0, len(alvo))
		for j := range alvo {
			avalia = append(avalia, toMembroResumo(&alvo[j]))
		}
		preview = append(preview, dto.PreviewEntryResponse{
			Membro: toMembroResumo(&membros[i]),
			Avalia: avalia,
		})
	}

	s.cache.SetJSON(ctx, previewCacheKey, preview, previewCacheTTL)
	return preview, nil
}

// ── helpers ──

// statusResposta derives the three-state response status from presence and
// the finalizada flag.
func statusResposta(existe, finalizada bool) string {
	switch {
	case !existe:
		return dto.StatusPending
	case finalizada:
		return dto.StatusCompleted
	default:
		return dto.StatusDraft
	}
}

func toMembroResumo(m *model.Membro) dto.MembroResumoResponse {
	return dto.MembroResumoResponse{
		MembroID:      m.MembroID,
		Nome:          m.Nome,
		Foto:          m.Foto,
		AreaNome:      m.AreaNome(),
		IsCoordenador: m.IsCoordenador,
	}
}
