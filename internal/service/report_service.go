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

const (
	relatorioCachePrefix = "relatorio:"
	relatorioCacheTTL    = 5 * time.Minute

	// most recent non-empty month buckets shown on individual dashboards
	historicoMensalJanela = 6
)

// mesesAbrev three-letter month labels for the monthly history chart.
var mesesAbrev = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// ReportService aggregates finalized responses into report shapes.
//
// Conventions carried through every shape: empty inputs aggregate to 0
// (TotalRespostas distinguishes "no data"), std-dev is the population
// formula, area means are two-level (mean of member means), and the monthly
// history buckets by the cycle's start month, not the response timestamp.
type ReportService interface {
	// GetReport produces the full nested aggregation for a ciclo group.
	GetReport(ctx context.Context, cicloID string) (*dto.RelatorioResponse, error)
	// GetMediasCiclo returns one evaluation cycle's overall averages.
	GetMediasCiclo(ctx context.Context, cicloAvaliacaoID string) (*dto.MediasCicloResponse, error)
	// GetHistoricoMensal returns the member's last months of received
	// ratings, bucketed by cycle start month.
	GetHistoricoMensal(ctx context.Context, membroID string) ([]dto.PontoMensalResponse, error)
	// GetEvolucao returns one aggregate point per evaluation cycle, in
	// chronological order. Distinct from the monthly history.
	GetEvolucao(ctx context.Context) ([]dto.MediasCicloResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewReportService creates the ReportService.
func NewReportService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, cache: cache, logger: logger}
}

// ────────────────────── GetReport ──────────────────────

// membroAcc accumulates one member's numbers across the cycle group.
type membroAcc struct {
	membro         *model.Membro
	entregas       []float64 // ratings received
	culturas       []float64 // ratings received
	feedbacksDados []float64 // feedback-quality ratings this member gave
	porCiclo       map[string]*cicloNotas
}

type cicloNotas struct {
	entregas []float64
	culturas []float64
}

func (s *reportService) GetReport(ctx context.Context, cicloID string) (*dto.RelatorioResponse, error) {
	cacheKey := relatorioCachePrefix + cicloID
	var cached dto.RelatorioResponse
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	grupo, err := s.repo.Ciclo.GetByID(ctx, cicloID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGrupoNaoEncontrado
		}
		s.logger.Error("failed to load ciclo", zap.String("id", cicloID), zap.Error(err))
		return nil, err
	}

	ciclos, err := s.repo.CicloAvaliacao.ListByCiclo(ctx, grupo.CicloID)
	if err != nil {
		s.logger.Error("failed to list cycles of ciclo", zap.Error(err))
		return nil, err
	}

	relatorio := &dto.RelatorioResponse{
		CicloID:   grupo.CicloID,
		CicloNome: grupo.Nome,
		Ciclos:    make([]dto.MediasCicloResponse, 0, len(ciclos)),
		Membros:   []dto.MembroRelatorioResponse{},
		Areas:     []dto.AreaRelatorioResponse{},
	}

	acc := make(map[string]*membroAcc)
	soFeedback := make(map[string]bool) // members seen only as feedback-givers

	for i := range ciclos {
		ciclo := &ciclos[i]
		resps, err := s.repo.Resposta.ListFinalizadasByCiclo(ctx, ciclo.CicloAvaliacaoID)
		if err != nil {
			s.logger.Error("failed to list responses", zap.String("ciclo_avaliacao_id", ciclo.CicloAvaliacaoID), zap.Error(err))
			return nil, err
		}
		fbs, err := s.repo.Feedback.ListByCiclo(ctx, ciclo.CicloAvaliacaoID)
		if err != nil {
			s.logger.Error("failed to list feedback ratings", zap.String("ciclo_avaliacao_id", ciclo.CicloAvaliacaoID), zap.Error(err))
			return nil, err
		}

		relatorio.Ciclos = append(relatorio.Ciclos, mediasDeCiclo(ciclo, resps, fbs))
		relatorio.TotalRespostas += len(resps)

		for j := range resps {
			r := &resps[j]
			a := acc[r.AvaliadoID]
			if a == nil {
				a = &membroAcc{membro: r.Avaliado, porCiclo: make(map[string]*cicloNotas)}
				acc[r.AvaliadoID] = a
			}
			if a.membro == nil {
				a.membro = r.Avaliado
			}
			a.entregas = append(a.entregas, float64(r.NotaEntrega))
			a.culturas = append(a.culturas, float64(r.NotaCultura))

			n := a.porCiclo[ciclo.CicloAvaliacaoID]
			if n == nil {
				n = &cicloNotas{}
				a.porCiclo[ciclo.CicloAvaliacaoID] = n
			}
			n.entregas = append(n.entregas, float64(r.NotaEntrega))
			n.culturas = append(n.culturas, float64(r.NotaCultura))
		}

		for j := range fbs {
			fb := &fbs[j]
			a := acc[fb.AvaliadoID]
			if a == nil {
				a = &membroAcc{porCiclo: make(map[string]*cicloNotas)}
				acc[fb.AvaliadoID] = a
				soFeedback[fb.AvaliadoID] = true
			}
			a.feedbacksDados = append(a.feedbacksDados, float64(fb.NotaFeedback))
		}
	}

	if err := s.carregarMembrosFaltantes(ctx, acc, soFeedback); err != nil {
		return nil, err
	}

	relatorio.Membros = montarMembros(acc, ciclos)
	relatorio.Areas = montarAreas(acc)

	s.cache.SetJSON(ctx, cacheKey, relatorio, relatorioCacheTTL)
	return relatorio, nil
}

// carregarMembrosFaltantes fetches identity for members that only appear as
// feedback-givers, so every rollup entry carries a name and area.
func (s *reportService) carregarMembrosFaltantes(ctx context.Context, acc map[string]*membroAcc, soFeedback map[string]bool) error {
	faltantes := make([]string, 0, len(soFeedback))
	for id := range soFeedback {
		if acc[id].membro == nil {
			faltantes = append(faltantes, id)
		}
	}
	if len(faltantes) == 0 {
		return nil
	}

	membros, err := s.repo.Membro.ListByIDs(ctx, faltantes)
	if err != nil {
		s.logger.Error("failed to load feedback-giver members", zap.Error(err))
		return err
	}
	for i := range membros {
		if a, ok := acc[membros[i].MembroID]; ok {
			a.membro = &membros[i]
		}
	}
	return nil
}

// montarMembros builds the per-member rollups, with the history array
// aligned to every cycle of the group.
func montarMembros(acc map[string]*membroAcc, ciclos []model.CicloAvaliacao) []dto.MembroRelatorioResponse {
	membros := make([]dto.MembroRelatorioResponse, 0, len(acc))
	for membroID, a := range acc {
		rollup := dto.MembroRelatorioResponse{
			MembroID:       membroID,
			MediaEntrega:   round1(mean(a.entregas)),
			MediaCultura:   round1(mean(a.culturas)),
			MediaFeedback:  round1(mean(a.feedbacksDados)),
			DesvioEntrega:  round1(stdDevPop(a.entregas)),
			DesvioCultura:  round1(stdDevPop(a.culturas)),
			TotalRespostas: len(a.entregas),
			Historico:      make([]dto.PontoHistoricoResponse, 0, len(ciclos)),
		}
		if a.membro != nil {
			rollup.Nome = a.membro.Nome
			rollup.Foto = a.membro.Foto
			rollup.AreaNome = a.membro.AreaNome()
		}

		// one entry per cycle, zeroed when the member has no data there,
		// so chart arrays keep their length and order
		for i := range ciclos {
			ciclo := &ciclos[i]
			ponto := dto.PontoHistoricoResponse{
				CicloAvaliacaoID: ciclo.CicloAvaliacaoID,
				Nome:             ciclo.Nome,
			}
			if n := a.porCiclo[ciclo.CicloAvaliacaoID]; n != nil {
				ponto.MediaEntrega = round1(mean(n.entregas))
				ponto.MediaCultura = round1(mean(n.culturas))
				ponto.TotalRespostas = len(n.entregas)
			}
			rollup.Historico = append(rollup.Historico, ponto)
		}

		membros = append(membros, rollup)
	}

	sort.Slice(membros, func(i, j int) bool {
		if membros[i].AreaNome != membros[j].AreaNome {
			return model.AreaBefore(membros[i].AreaNome, membros[j].AreaNome)
		}
		return membros[i].Nome < membros[j].Nome
	})
	return membros
}

// montarAreas builds the per-area rollups. The area mean is the unweighted
// mean of each member's already-averaged mean, which differs from a flat
// mean over raw responses when members have unequal response counts. The
// feedback mean excludes members with no feedback data instead of counting
// them as zero.
func montarAreas(acc map[string]*membroAcc) []dto.AreaRelatorioResponse {
	type areaAcc struct {
		mediasEntrega  []float64
		mediasCultura  []float64
		mediasFeedback []float64
		totalMembros   int
	}
	porArea := make(map[string]*areaAcc)

	for _, a := range acc {
		nomeArea := ""
		if a.membro != nil {
			nomeArea = a.membro.AreaNome()
		}
		g := porArea[nomeArea]
		if g == nil {
			g = &areaAcc{}
			porArea[nomeArea] = g
		}
		g.totalMembros++
		if len(a.entregas) > 0 {
			g.mediasEntrega = append(g.mediasEntrega, mean(a.entregas))
			g.mediasCultura = append(g.mediasCultura, mean(a.culturas))
		}
		if len(a.feedbacksDados) > 0 {
			g.mediasFeedback = append(g.mediasFeedback, mean(a.feedbacksDados))
		}
	}

	areas := make([]dto.AreaRelatorioResponse, 0, len(porArea))
	for nome, g := range porArea {
		areas = append(areas, dto.AreaRelatorioResponse{
			AreaNome:      nome,
			MediaEntrega:  round1(mean(g.mediasEntrega)),
			MediaCultura:  round1(mean(g.mediasCultura)),
			MediaFeedback: round1(mean(g.mediasFeedback)),
			TotalMembros:  g.totalMembros,
		})
	}

	sort.Slice(areas, func(i, j int) bool {
		return model.AreaBefore(areas[i].AreaNome, areas[j].AreaNome)
	})
	return areas
}

// ────────────────────── GetMediasCiclo ──────────────────────

func (s *reportService) GetMediasCiclo(ctx context.Context, cicloAvaliacaoID string) (*dto.MediasCicloResponse, error) {
	ciclo, err := s.repo.CicloAvaliacao.GetByID(ctx, cicloAvaliacaoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCicloNaoEncontrado
		}
		s.logger.Error("failed to load cycle", zap.String("id", cicloAvaliacaoID), zap.Error(err))
		return nil, err
	}

	resps, err := s.repo.Resposta.ListFinalizadasByCiclo(ctx, ciclo.CicloAvaliacaoID)
	if err != nil {
		s.logger.Error("failed to list responses", zap.Error(err))
		return nil, err
	}
	fbs, err := s.repo.Feedback.ListByCiclo(ctx, ciclo.CicloAvaliacaoID)
	if err != nil {
		s.logger.Error("failed to list feedback ratings", zap.Error(err))
		return nil, err
	}

	medias := mediasDeCiclo(ciclo, resps, fbs)
	return &medias, nil
}

// mediasDeCiclo aggregates one cycle's finalized responses. A cycle with no
// responses reports all means as 0.
func mediasDeCiclo(ciclo *model.CicloAvaliacao, resps []model.RespostaAvaliacao, fbs []model.AvaliacaoFeedback) dto.MediasCicloResponse {
	entregas := make([]float64, 0, len(resps))
	culturas := make([]float64, 0, len(resps))
	for i := range resps {
		entregas = append(entregas, float64(resps[i].NotaEntrega))
		culturas = append(culturas, float64(resps[i].NotaCultura))
	}
	notasFeedback := make([]float64, 0, len(fbs))
	for i := range fbs {
		notasFeedback = append(notasFeedback, float64(fbs[i].NotaFeedback))
	}

	return dto.MediasCicloResponse{
		CicloAvaliacaoID: ciclo.CicloAvaliacaoID,
		Nome:             ciclo.Nome,
		MediaEntrega:     round1(mean(entregas)),
		MediaCultura:     round1(mean(culturas)),
		MediaFeedback:    round1(mean(notasFeedback)),
		TotalRespostas:   len(resps),
	}
}

// ────────────────────── GetHistoricoMensal ──────────────────────

func (s *reportService) GetHistoricoMensal(ctx context.Context, membroID string) ([]dto.PontoMensalResponse, error) {
	ciclos, err := s.repo.CicloAvaliacao.List(ctx)
	if err != nil {
		s.logger.Error("failed to list cycles", zap.Error(err))
		return nil, err
	}

	type balde struct {
		ano, mes  int
		entregas  []float64
		culturas  []float64
		feedbacks []float64
	}
	baldes := make(map[int]*balde) // key: ano*100 + mes

	for i := range ciclos {
		ciclo := &ciclos[i]
		recebidas, err := s.repo.Resposta.ListFinalizadasByAvaliado(ctx, ciclo.CicloAvaliacaoID, membroID)
		if err != nil {
			s.logger.Error("failed to list received responses", zap.Error(err))
			return nil, err
		}
		fbs, err := s.repo.Feedback.ListByCiclo(ctx, ciclo.CicloAvaliacaoID)
		if err != nil {
			s.logger.Error("failed to list feedback ratings", zap.Error(err))
			return nil, err
		}

		// the bucket is the cycle's start month, not each row's own
		// timestamp
		ano, mes := ciclo.DataInicio.Year(), int(ciclo.DataInicio.Month())
		chave := ano*100 + mes

		for j := range recebidas {
			b := baldes[chave]
			if b == nil {
				b = &balde{ano: ano, mes: mes}
				baldes[chave] = b
			}
			b.entregas = append(b.entregas, float64(recebidas[j].NotaEntrega))
			b.culturas = append(b.culturas, float64(recebidas[j].NotaCultura))
		}
		for j := range fbs {
			if fbs[j].AvaliadoID != membroID {
				continue
			}
			b := baldes[chave]
			if b == nil {
				b = &balde{ano: ano, mes: mes}
				baldes[chave] = b
			}
			b.feedbacks = append(b.feedbacks, float64(fbs[j].NotaFeedback))
		}
	}

	chaves := make([]int, 0, len(baldes))
	for chave := range baldes {
		chaves = append(chaves, chave)
	}
	sort.Ints(chaves)
	if len(chaves) > historicoMensalJanela {
		chaves = chaves[len(chaves)-historicoMensalJanela:]
	}

	pontos := make([]dto.PontoMensalResponse, 0, len(chaves))
	for _, chave := range chaves {
		b := baldes[chave]
		pontos = append(pontos, dto.PontoMensalResponse{
			Label:         mesesAbrev[b.mes-1],
			Ano:           b.ano,
			Mes:           b.mes,
			MediaEntrega:  round1(mean(b.entregas)),
			MediaCultura:  round1(mean(b.culturas)),
			MediaFeedback: round1(mean(b.feedbacks)),
		})
	}
	return pontos, nil
}

// ────────────────────── GetEvolucao ──────────────────────

func (s *reportService) GetEvolucao(ctx context.Context) ([]dto.MediasCicloResponse, error) {
	ciclos, err := s.repo.CicloAvaliacao.List(ctx)
	if err != nil {
		s.logger.Error("failed to list cycles", zap.Error(err))
		return nil, err
	}

	pontos := make([]dto.MediasCicloResponse, 0, len(ciclos))
	for i := range ciclos {
		ciclo := &ciclos[i]
		resps, err := s.repo.Resposta.ListFinalizadasByCiclo(ctx, ciclo.CicloAvaliacaoID)
		if err != nil {
			s.logger.Error("failed to list responses", zap.Error(err))
			return nil, err
		}
		fbs, err := s.repo.Feedback.ListByCiclo(ctx, ciclo.CicloAvaliacaoID)
		if err != nil {
			s.logger.Error("failed to list feedback ratings", zap.Error(err))
			return nil, err
		}
		pontos = append(pontos, mediasDeCiclo(ciclo, resps, fbs))
	}
	return pontos, nil
}
