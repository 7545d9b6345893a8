package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
	"github.com/gabzinnn/av-continua-sub001/internal/repository"
)

// In-memory repository mocks. newTestRepo wires them into a *Repository
// with a nil db handle, so Repository.Transaction runs callbacks inline.

// ── Mock MembroRepository ──

type mockMembroRepo struct {
	membros map[string]*model.Membro
}

func newMockMembroRepo() *mockMembroRepo {
	return &mockMembroRepo{membros: make(map[string]*model.Membro)}
}

func (m *mockMembroRepo) add(membro *model.Membro) {
	if membro.CreatedAt.IsZero() {
		membro.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.membros[membro.MembroID] = membro
}

func (m *mockMembroRepo) GetByID(_ context.Context, id string) (*model.Membro, error) {
	if mem, ok := m.membros[id]; ok {
		return mem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMembroRepo) ListAtivos(_ context.Context) ([]model.Membro, error) {
	var result []model.Membro
	for _, mem := range m.membros {
		if mem.Ativo {
			result = append(result, *mem)
		}
	}
	sortByNome(result)
	return result, nil
}

func (m *mockMembroRepo) ListAll(_ context.Context) ([]model.Membro, error) {
	var result []model.Membro
	for _, mem := range m.membros {
		result = append(result, *mem)
	}
	sortByNome(result)
	return result, nil
}

func (m *mockMembroRepo) ListByIDs(_ context.Context, ids []string) ([]model.Membro, error) {
	var result []model.Membro
	for _, id := range ids {
		if mem, ok := m.membros[id]; ok {
			result = append(result, *mem)
		}
	}
	return result, nil
}

func (m *mockMembroRepo) ListElegiveis(_ context.Context, criadoAte time.Time) ([]model.Membro, error) {
	var result []model.Membro
	for _, mem := range m.membros {
		if mem.Ativo && !mem.CreatedAt.After(criadoAte) {
			result = append(result, *mem)
		}
	}
	sortByNome(result)
	return result, nil
}

func sortByNome(membros []model.Membro) {
	sort.Slice(membros, func(i, j int) bool { return membros[i].Nome < membros[j].Nome })
}

// ── Mock AreaRepository ──

type mockAreaRepo struct {
	areas []model.Area
}

func newMockAreaRepo() *mockAreaRepo {
	return &mockAreaRepo{}
}

func (m *mockAreaRepo) List(_ context.Context) ([]model.Area, error) {
	result := make([]model.Area, len(m.areas))
	copy(result, m.areas)
	return result, nil
}

// ── Mock AlocacaoRepository ──

type mockAlocacaoRepo struct {
	alocs    []model.Alocacao
	demandas map[string]*model.Demanda
	membros  *mockMembroRepo
}

func newMockAlocacaoRepo(membros *mockMembroRepo) *mockAlocacaoRepo {
	return &mockAlocacaoRepo{demandas: make(map[string]*model.Demanda), membros: membros}
}

func (m *mockAlocacaoRepo) addDemanda(d *model.Demanda) {
	m.demandas[d.DemandaID] = d
}

func (m *mockAlocacaoRepo) alocar(membroID, demandaID string, isLider bool) {
	m.alocs = append(m.alocs, model.Alocacao{
		AlocacaoID: fmt.Sprintf("aloc-%d", len(m.alocs)+1),
		MembroID:   membroID,
		DemandaID:  demandaID,
		IsLider:    isLider,
	})
}

func (m *mockAlocacaoRepo) ListAtivas(_ context.Context) ([]model.Alocacao, error) {
	var result []model.Alocacao
	for _, a := range m.alocs {
		d := m.demandas[a.DemandaID]
		if d == nil || d.Finalizada {
			continue
		}
		mem := m.membros.membros[a.MembroID]
		if mem == nil || !mem.Ativo {
			continue
		}
		aloc := a
		aloc.Demanda = d
		result = append(result, aloc)
	}
	return result, nil
}

// ── Mock CicloRepository ──

type mockCicloRepo struct {
	ciclos map[string]*model.Ciclo
}

func newMockCicloRepo() *mockCicloRepo {
	return &mockCicloRepo{ciclos: make(map[string]*model.Ciclo)}
}

func (m *mockCicloRepo) Create(_ context.Context, ciclo *model.Ciclo) error {
	if ciclo.CicloID == "" {
		ciclo.CicloID = "grupo-" + ciclo.Nome
	}
	m.ciclos[ciclo.CicloID] = ciclo
	return nil
}

func (m *mockCicloRepo) GetByID(_ context.Context, id string) (*model.Ciclo, error) {
	if c, ok := m.ciclos[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCicloRepo) GetByNome(_ context.Context, nome string) (*model.Ciclo, error) {
	for _, c := range m.ciclos {
		if c.Nome == nome {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCicloRepo) List(_ context.Context) ([]model.Ciclo, error) {
	var result []model.Ciclo
	for _, c := range m.ciclos {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Nome < result[j].Nome })
	return result, nil
}

// ── Mock CicloAvaliacaoRepository ──

type mockCicloAvaliacaoRepo struct {
	ciclos map[string]*model.CicloAvaliacao
}

func newMockCicloAvaliacaoRepo() *mockCicloAvaliacaoRepo {
	return &mockCicloAvaliacaoRepo{ciclos: make(map[string]*model.CicloAvaliacao)}
}

func (m *mockCicloAvaliacaoRepo) Create(_ context.Context, ciclo *model.CicloAvaliacao) error {
	if ciclo.CicloAvaliacaoID == "" {
		ciclo.CicloAvaliacaoID = "ciclo-" + ciclo.Nome
	}
	m.ciclos[ciclo.CicloAvaliacaoID] = ciclo
	return nil
}

func (m *mockCicloAvaliacaoRepo) GetByID(_ context.Context, id string) (*model.CicloAvaliacao, error) {
	if c, ok := m.ciclos[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCicloAvaliacaoRepo) GetByNome(_ context.Context, nome string) (*model.CicloAvaliacao, error) {
	for _, c := range m.ciclos {
		if c.Nome == nome {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCicloAvaliacaoRepo) GetAtivo(_ context.Context) (*model.CicloAvaliacao, error) {
	for _, c := range m.ciclos {
		if !c.Finalizada {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCicloAvaliacaoRepo) List(_ context.Context) ([]model.CicloAvaliacao, error) {
	var result []model.CicloAvaliacao
	for _, c := range m.ciclos {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DataInicio.Before(result[j].DataInicio) })
	return result, nil
}

func (m *mockCicloAvaliacaoRepo) ListByCiclo(_ context.Context, cicloID string) ([]model.CicloAvaliacao, error) {
	var result []model.CicloAvaliacao
	for _, c := range m.ciclos {
		if c.CicloID != nil && *c.CicloID == cicloID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DataInicio.Before(result[j].DataInicio) })
	return result, nil
}

func (m *mockCicloAvaliacaoRepo) Update(_ context.Context, ciclo *model.CicloAvaliacao) error {
	m.ciclos[ciclo.CicloAvaliacaoID] = ciclo
	return nil
}

// ── Mock RespostaRepository ──

type mockRespostaRepo struct {
	respostas map[string]*model.RespostaAvaliacao
	planos    map[string][]model.PlanoAcao
	membros   *mockMembroRepo
	ciclos    *mockCicloAvaliacaoRepo
	seq       int
}

func newMockRespostaRepo(membros *mockMembroRepo, ciclos *mockCicloAvaliacaoRepo) *mockRespostaRepo {
	return &mockRespostaRepo{
		respostas: make(map[string]*model.RespostaAvaliacao),
		planos:    make(map[string][]model.PlanoAcao),
		membros:   membros,
		ciclos:    ciclos,
	}
}

func (m *mockRespostaRepo) Upsert(_ context.Context, resp *model.RespostaAvaliacao) error {
	for _, r := range m.respostas {
		if r.CicloAvaliacaoID == resp.CicloAvaliacaoID &&
			r.AvaliadorID == resp.AvaliadorID &&
			r.AvaliadoID == resp.AvaliadoID {
			r.NotaEntrega = resp.NotaEntrega
			r.NotaCultura = resp.NotaCultura
			r.Feedback = resp.Feedback
			r.Finalizada = resp.Finalizada
			r.UpdatedAt = time.Now()
			resp.RespostaID = r.RespostaID
			return nil
		}
	}
	m.seq++
	resp.RespostaID = fmt.Sprintf("resp-%d", m.seq)
	cp := *resp
	m.respostas[resp.RespostaID] = &cp
	return nil
}

func (m *mockRespostaRepo) GetByID(_ context.Context, id string) (*model.RespostaAvaliacao, error) {
	if r, ok := m.respostas[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRespostaRepo) GetByChave(_ context.Context, cicloID, avaliadorID, avaliadoID string) (*model.RespostaAvaliacao, error) {
	for _, r := range m.respostas {
		if r.CicloAvaliacaoID == cicloID && r.AvaliadorID == avaliadorID && r.AvaliadoID == avaliadoID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRespostaRepo) CountAvaliadosDistintos(_ context.Context, cicloID, avaliadorID string) (int64, error) {
	seen := make(map[string]bool)
	for _, r := range m.respostas {
		if r.CicloAvaliacaoID == cicloID && r.AvaliadorID == avaliadorID {
			seen[r.AvaliadoID] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *mockRespostaRepo) ListRecebidas(_ context.Context, avaliadoID string) ([]model.RespostaAvaliacao, error) {
	var result []model.RespostaAvaliacao
	for _, r := range m.respostas {
		if r.AvaliadoID == avaliadoID && r.Finalizada {
			cp := *r
			cp.Avaliador = m.membros.membros[r.AvaliadorID]
			cp.CicloAvaliacao = m.ciclos.ciclos[r.CicloAvaliacaoID]
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RespostaID > result[j].RespostaID })
	return result, nil
}

func (m *mockRespostaRepo) ListFinalizadasByAvaliado(_ context.Context, cicloID, avaliadoID string) ([]model.RespostaAvaliacao, error) {
	var result []model.RespostaAvaliacao
	for _, r := range m.respostas {
		if r.CicloAvaliacaoID == cicloID && r.AvaliadoID == avaliadoID && r.Finalizada {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRespostaRepo) ListFinalizadasByCiclo(_ context.Context, cicloID string) ([]model.RespostaAvaliacao, error) {
	var result []model.RespostaAvaliacao
	for _, r := range m.respostas {
		if r.CicloAvaliacaoID == cicloID && r.Finalizada {
			cp := *r
			cp.Avaliado = m.membros.membros[r.AvaliadoID]
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockRespostaRepo) ListByAvaliador(_ context.Context, cicloID, avaliadorID string) ([]model.RespostaAvaliacao, error) {
	var result []model.RespostaAvaliacao
	for _, r := range m.respostas {
		if r.CicloAvaliacaoID == cicloID && r.AvaliadorID == avaliadorID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRespostaRepo) ReplacePlanos(_ context.Context, respostaID string, planos []model.PlanoAcao) error {
	delete(m.planos, respostaID)
	if len(planos) > 0 {
		m.planos[respostaID] = append([]model.PlanoAcao(nil), planos...)
	}
	return nil
}

func (m *mockRespostaRepo) ListPlanos(_ context.Context, respostaID string) ([]model.PlanoAcao, error) {
	return m.planos[respostaID], nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	feedbacks map[string]*model.AvaliacaoFeedback // keyed by resposta_id
	respostas *mockRespostaRepo
	seq       int
}

func newMockFeedbackRepo(respostas *mockRespostaRepo) *mockFeedbackRepo {
	return &mockFeedbackRepo{feedbacks: make(map[string]*model.AvaliacaoFeedback), respostas: respostas}
}

func (m *mockFeedbackRepo) Upsert(_ context.Context, fb *model.AvaliacaoFeedback) error {
	if existing, ok := m.feedbacks[fb.RespostaID]; ok {
		existing.NotaFeedback = fb.NotaFeedback
		fb.AvaliacaoFeedbackID = existing.AvaliacaoFeedbackID
		return nil
	}
	m.seq++
	fb.AvaliacaoFeedbackID = fmt.Sprintf("fb-%d", m.seq)
	cp := *fb
	m.feedbacks[fb.RespostaID] = &cp
	return nil
}

func (m *mockFeedbackRepo) GetByResposta(_ context.Context, respostaID string) (*model.AvaliacaoFeedback, error) {
	if fb, ok := m.feedbacks[respostaID]; ok {
		return fb, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeedbackRepo) ListByRespostas(_ context.Context, respostaIDs []string) ([]model.AvaliacaoFeedback, error) {
	var result []model.AvaliacaoFeedback
	for _, id := range respostaIDs {
		if fb, ok := m.feedbacks[id]; ok {
			result = append(result, *fb)
		}
	}
	return result, nil
}

func (m *mockFeedbackRepo) ListByCiclo(_ context.Context, cicloID string) ([]model.AvaliacaoFeedback, error) {
	var result []model.AvaliacaoFeedback
	for respostaID, fb := range m.feedbacks {
		r := m.respostas.respostas[respostaID]
		if r != nil && r.CicloAvaliacaoID == cicloID && r.Finalizada {
			result = append(result, *fb)
		}
	}
	return result, nil
}

// ── Mock ParticipacaoRepository ──

type mockParticipacaoRepo struct {
	parts map[string]*model.Participacao // keyed by ciclo|membro
}

func newMockParticipacaoRepo() *mockParticipacaoRepo {
	return &mockParticipacaoRepo{parts: make(map[string]*model.Participacao)}
}

func participacaoKey(cicloID, membroID string) string {
	return cicloID + "|" + membroID
}

func (m *mockParticipacaoRepo) Get(_ context.Context, cicloID, membroID string) (*model.Participacao, error) {
	if p, ok := m.parts[participacaoKey(cicloID, membroID)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockParticipacaoRepo) ListByCiclo(_ context.Context, cicloID string) ([]model.Participacao, error) {
	var result []model.Participacao
	for _, p := range m.parts {
		if p.CicloAvaliacaoID == cicloID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockParticipacaoRepo) SetRespondeuAvaliacao(_ context.Context, cicloID, membroID string) error {
	m.setFlag(cicloID, membroID, func(p *model.Participacao) { p.RespondeuAvaliacao = true })
	return nil
}

func (m *mockParticipacaoRepo) SetAvaliouFeedbacks(_ context.Context, cicloID, membroID string) error {
	m.setFlag(cicloID, membroID, func(p *model.Participacao) { p.AvaliouFeedbacks = true })
	return nil
}

func (m *mockParticipacaoRepo) setFlag(cicloID, membroID string, apply func(*model.Participacao)) {
	key := participacaoKey(cicloID, membroID)
	p, ok := m.parts[key]
	if !ok {
		p = &model.Participacao{
			ParticipacaoID:   "part-" + key,
			CicloAvaliacaoID: cicloID,
			MembroID:         membroID,
		}
		m.parts[key] = p
	}
	apply(p)
}

// ── aggregate ──

type testMocks struct {
	membros       *mockMembroRepo
	areas         *mockAreaRepo
	alocacoes     *mockAlocacaoRepo
	ciclos        *mockCicloRepo
	ciclosAval    *mockCicloAvaliacaoRepo
	respostas     *mockRespostaRepo
	feedbacks     *mockFeedbackRepo
	participacoes *mockParticipacaoRepo
}

func newTestRepo() (*repository.Repository, *testMocks) {
	membros := newMockMembroRepo()
	ciclosAval := newMockCicloAvaliacaoRepo()
	respostas := newMockRespostaRepo(membros, ciclosAval)
	mocks := &testMocks{
		membros:       membros,
		areas:         newMockAreaRepo(),
		alocacoes:     newMockAlocacaoRepo(membros),
		ciclos:        newMockCicloRepo(),
		ciclosAval:    ciclosAval,
		respostas:     respostas,
		feedbacks:     newMockFeedbackRepo(respostas),
		participacoes: newMockParticipacaoRepo(),
	}
	repo := &repository.Repository{
		Membro:         mocks.membros,
		Area:           mocks.areas,
		Alocacao:       mocks.alocacoes,
		Ciclo:          mocks.ciclos,
		CicloAvaliacao: mocks.ciclosAval,
		Resposta:       mocks.respostas,
		Feedback:       mocks.feedbacks,
		Participacao:   mocks.participacoes,
	}
	return repo, mocks
}

// membroFixture builds an active member attached to an area.
func membroFixture(id, nome, areaNome string, coordenador bool) *model.Membro {
	areaID := "area-" + areaNome
	return &model.Membro{
		MembroID:      id,
		Nome:          nome,
		Ativo:         true,
		IsCoordenador: coordenador,
		AreaID:        &areaID,
		Area:          &model.Area{AreaID: areaID, Nome: areaNome},
	}
}
