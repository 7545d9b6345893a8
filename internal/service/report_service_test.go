package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

func setupReportService() (ReportService, *testMocks) {
	repo, mocks := newTestRepo()
	svc := NewReportService(repo, nil, zap.NewNop())
	return svc, mocks
}

func addCiclo(mocks *testMocks, nome, grupoID string, inicio time.Time) string {
	c := &model.CicloAvaliacao{
		Nome:       nome,
		DataInicio: inicio,
		Finalizada: true,
	}
	if grupoID != "" {
		c.CicloID = &grupoID
	}
	mocks.ciclosAval.Create(context.Background(), c)
	return c.CicloAvaliacaoID
}

func addResposta(mocks *testMocks, cicloID, avaliador, avaliado string, entrega, cultura int) string {
	r := &model.RespostaAvaliacao{
		CicloAvaliacaoID: cicloID,
		AvaliadorID:      avaliador,
		AvaliadoID:       avaliado,
		NotaEntrega:      entrega,
		NotaCultura:      cultura,
		Finalizada:       true,
	}
	mocks.respostas.Upsert(context.Background(), r)
	return r.RespostaID
}

func addFeedback(mocks *testMocks, respostaID, avaliado string, nota int) {
	mocks.feedbacks.Upsert(context.Background(), &model.AvaliacaoFeedback{
		RespostaID:   respostaID,
		AvaliadoID:   avaliado,
		NotaFeedback: nota,
	})
}

// ── GetReport ──

func TestReport_GetReport_NotFound(t *testing.T) {
	svc, _ := setupReportService()

	_, err := svc.GetReport(context.Background(), "ghost")
	if !errors.Is(err, ErrGrupoNaoEncontrado) {
		t.Errorf("expected ErrGrupoNaoEncontrado, got %v", err)
	}
}

func TestReport_GetReport_Basico(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("a", "Ana", "Projetos", false))
	mocks.membros.add(membroFixture("b", "Bruno", "Marketing", false))
	mocks.ciclos.Create(context.Background(), &model.Ciclo{Nome: "Gestão"})
	c1 := addCiclo(mocks, "2025.1", "grupo-Gestão", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	// b rates a low, a rates b high
	respDeB := addResposta(mocks, c1, "b", "a", 6, 7)
	addResposta(mocks, c1, "a", "b", 8, 9)
	// a rates the feedback they received from b
	addFeedback(mocks, respDeB, "a", 9)

	relatorio, err := svc.GetReport(context.Background(), "grupo-Gestão")
	if err != nil {
		t.Fatalf("GetReport should succeed: %v", err)
	}

	if relatorio.TotalRespostas != 2 {
		t.Errorf("expected 2 responses, got %d", relatorio.TotalRespostas)
	}
	if len(relatorio.Ciclos) != 1 {
		t.Fatalf("expected 1 cycle aggregate, got %d", len(relatorio.Ciclos))
	}
	cicloAgg := relatorio.Ciclos[0]
	if cicloAgg.MediaEntrega != 7.0 || cicloAgg.MediaCultura != 8.0 {
		t.Errorf("expected cycle means 7.0/8.0, got %v/%v", cicloAgg.MediaEntrega, cicloAgg.MediaCultura)
	}
	if cicloAgg.MediaFeedback != 9.0 {
		t.Errorf("expected cycle feedback mean 9.0, got %v", cicloAgg.MediaFeedback)
	}

	porMembro := make(map[string]int)
	for i, m := range relatorio.Membros {
		porMembro[m.MembroID] = i
	}
	ana := relatorio.Membros[porMembro["a"]]
	bruno := relatorio.Membros[porMembro["b"]]

	if ana.MediaEntrega != 6.0 || bruno.MediaEntrega != 8.0 {
		t.Errorf("expected member means 6.0/8.0, got %v/%v", ana.MediaEntrega, bruno.MediaEntrega)
	}
	// feedback mean counts ratings GIVEN by the member
	if ana.MediaFeedback != 9.0 {
		t.Errorf("expected Ana's feedback-given mean 9.0, got %v", ana.MediaFeedback)
	}
	if bruno.MediaFeedback != 0 {
		t.Errorf("expected 0 for Bruno (no feedback given), got %v", bruno.MediaFeedback)
	}
	// single received response: std dev is 0
	if ana.DesvioEntrega != 0 {
		t.Errorf("expected 0 std dev for single sample, got %v", ana.DesvioEntrega)
	}
	if ana.Nome != "Ana" || ana.AreaNome != "Projetos" {
		t.Errorf("member identity not filled: %+v", ana)
	}
}

func TestReport_AreaMeanIsTwoLevel(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("a1", "Ana", "Projetos", false))
	mocks.membros.add(membroFixture("a2", "Beto", "Projetos", false))
	mocks.membros.add(membroFixture("x", "Xuxa", "Marketing", false))
	mocks.ciclos.Create(context.Background(), &model.Ciclo{Nome: "Gestão"})
	c1 := addCiclo(mocks, "2025.1", "grupo-Gestão", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	// a1 averages 10 over two responses, a2 averages 4 over one.
	// Two-level mean: (10 + 4) / 2 = 7.0. A flat mean over the three raw
	// responses would give 8.0.
	addResposta(mocks, c1, "x", "a1", 10, 10)
	addResposta(mocks, c1, "a2", "a1", 10, 10)
	addResposta(mocks, c1, "x", "a2", 4, 4)

	relatorio, err := svc.GetReport(context.Background(), "grupo-Gestão")
	if err != nil {
		t.Fatalf("GetReport should succeed: %v", err)
	}

	var projetos *struct{ entrega, feedback float64 }
	for _, area := range relatorio.Areas {
		if area.AreaNome == "Projetos" {
			projetos = &struct{ entrega, feedback float64 }{area.MediaEntrega, area.MediaFeedback}
		}
	}
	if projetos == nil {
		t.Fatal("expected a Projetos area aggregate")
	}
	if projetos.entrega != 7.0 {
		t.Errorf("expected two-level area mean 7.0, got %v", projetos.entrega)
	}
	// nobody in Projetos gave feedback ratings; excluded, not zero-averaged
	if projetos.feedback != 0 {
		t.Errorf("expected 0 feedback mean for area without data, got %v", projetos.feedback)
	}
}

func TestReport_AreasInCanonicalOrder(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("m", "Marina", "Marketing", false))
	mocks.membros.add(membroFixture("o", "Otávio", "Organização Interna", false))
	mocks.membros.add(membroFixture("p", "Paula", "Projetos", false))
	mocks.ciclos.Create(context.Background(), &model.Ciclo{Nome: "Gestão"})
	c1 := addCiclo(mocks, "2025.1", "grupo-Gestão", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	addResposta(mocks, c1, "p", "m", 7, 7)
	addResposta(mocks, c1, "m", "o", 7, 7)
	addResposta(mocks, c1, "m", "p", 7, 7)

	relatorio, err := svc.GetReport(context.Background(), "grupo-Gestão")
	if err != nil {
		t.Fatalf("GetReport should succeed: %v", err)
	}

	want := []string{"Organização Interna", "Projetos", "Marketing"}
	if len(relatorio.Areas) != len(want) {
		t.Fatalf("expected %d areas, got %d", len(want), len(relatorio.Areas))
	}
	for i, nome := range want {
		if relatorio.Areas[i].AreaNome != nome {
			t.Errorf("position %d: expected %s, got %s", i, nome, relatorio.Areas[i].AreaNome)
		}
	}
}

func TestReport_HistoricoAlignedToAllCycles(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("a", "Ana", "Projetos", false))
	mocks.membros.add(membroFixture("b", "Bruno", "Projetos", false))
	mocks.ciclos.Create(context.Background(), &model.Ciclo{Nome: "Gestão"})
	c1 := addCiclo(mocks, "2025.1", "grupo-Gestão", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	addCiclo(mocks, "2025.2", "grupo-Gestão", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	// Ana only has data in the first cycle
	addResposta(mocks, c1, "b", "a", 8, 8)

	relatorio, err := svc.GetReport(context.Background(), "grupo-Gestão")
	if err != nil {
		t.Fatalf("GetReport should succeed: %v", err)
	}

	var ana *[]float64
	for _, m := range relatorio.Membros {
		if m.MembroID != "a" {
			continue
		}
		if len(m.Historico) != 2 {
			t.Fatalf("history must have one entry per cycle, got %d", len(m.Historico))
		}
		vals := []float64{m.Historico[0].MediaEntrega, m.Historico[1].MediaEntrega}
		ana = &vals
	}
	if ana == nil {
		t.Fatal("expected Ana in the member rollup")
	}
	if (*ana)[0] != 8.0 || (*ana)[1] != 0 {
		t.Errorf("expected history [8.0, 0], got %v", *ana)
	}
}

// ── GetMediasCiclo ──

func TestReport_GetMediasCiclo_EmptyCycleIsZero(t *testing.T) {
	svc, mocks := setupReportService()

	c1 := addCiclo(mocks, "2025.1", "", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	medias, err := svc.GetMediasCiclo(context.Background(), c1)
	if err != nil {
		t.Fatalf("GetMediasCiclo should succeed: %v", err)
	}
	if medias.MediaEntrega != 0 || medias.MediaCultura != 0 || medias.MediaFeedback != 0 {
		t.Errorf("empty cycle must aggregate to zeros, got %+v", medias)
	}
	if medias.TotalRespostas != 0 {
		t.Errorf("expected 0 responses, got %d", medias.TotalRespostas)
	}
}

func TestReport_GetMediasCiclo_NotFound(t *testing.T) {
	svc, _ := setupReportService()

	_, err := svc.GetMediasCiclo(context.Background(), "ghost")
	if !errors.Is(err, ErrCicloNaoEncontrado) {
		t.Errorf("expected ErrCicloNaoEncontrado, got %v", err)
	}
}

// ── GetHistoricoMensal ──

func TestReport_HistoricoMensal_BucketsByCycleStart(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("a", "Ana", "Projetos", false))
	mocks.membros.add(membroFixture("b", "Bruno", "Projetos", false))

	jan := addCiclo(mocks, "2025.1", "", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	mar := addCiclo(mocks, "2025.2", "", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))

	addResposta(mocks, jan, "b", "a", 6, 6)
	rMar := addResposta(mocks, mar, "b", "a", 8, 8)
	addFeedback(mocks, rMar, "a", 10)

	pontos, err := svc.GetHistoricoMensal(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetHistoricoMensal should succeed: %v", err)
	}
	if len(pontos) != 2 {
		t.Fatalf("expected 2 non-empty buckets, got %d", len(pontos))
	}
	if pontos[0].Label != "jan" || pontos[0].Mes != 1 || pontos[0].Ano != 2025 {
		t.Errorf("unexpected first bucket: %+v", pontos[0])
	}
	if pontos[1].Label != "mar" || pontos[1].MediaEntrega != 8.0 {
		t.Errorf("unexpected second bucket: %+v", pontos[1])
	}
	if pontos[1].MediaFeedback != 10.0 {
		t.Errorf("expected feedback mean 10.0 in march, got %v", pontos[1].MediaFeedback)
	}
	// january had no feedback data: zero, not NaN
	if pontos[0].MediaFeedback != 0 {
		t.Errorf("expected 0 feedback mean in january, got %v", pontos[0].MediaFeedback)
	}
}

func TestReport_HistoricoMensal_KeepsLastSixBuckets(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("a", "Ana", "Projetos", false))
	mocks.membros.add(membroFixture("b", "Bruno", "Projetos", false))

	for mes := 1; mes <= 8; mes++ {
		id := addCiclo(mocks, fmt.Sprintf("2025.%d", mes), "", time.Date(2025, time.Month(mes), 1, 0, 0, 0, 0, time.UTC))
		addResposta(mocks, id, "b", "a", mes, mes)
	}

	pontos, err := svc.GetHistoricoMensal(context.Background(), "a")
	if err != nil {
		t.Fatalf("GetHistoricoMensal should succeed: %v", err)
	}
	if len(pontos) != 6 {
		t.Fatalf("expected the 6 most recent buckets, got %d", len(pontos))
	}
	if pontos[0].Mes != 3 || pontos[5].Mes != 8 {
		t.Errorf("expected months 3..8, got %d..%d", pontos[0].Mes, pontos[5].Mes)
	}
}

// ── GetEvolucao ──

func TestReport_GetEvolucao(t *testing.T) {
	svc, mocks := setupReportService()

	mocks.membros.add(membroFixture("a", "Ana", "Projetos", false))
	mocks.membros.add(membroFixture("b", "Bruno", "Projetos", false))

	c1 := addCiclo(mocks, "2025.1", "", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	addCiclo(mocks, "2025.2", "", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	addResposta(mocks, c1, "b", "a", 7, 9)

	pontos, err := svc.GetEvolucao(context.Background())
	if err != nil {
		t.Fatalf("GetEvolucao should succeed: %v", err)
	}
	if len(pontos) != 2 {
		t.Fatalf("expected one point per cycle, got %d", len(pontos))
	}
	if pontos[0].Nome != "2025.1" || pontos[1].Nome != "2025.2" {
		t.Errorf("points must come in chronological order: %s, %s", pontos[0].Nome, pontos[1].Nome)
	}
	if pontos[0].MediaEntrega != 7.0 || pontos[0].MediaCultura != 9.0 {
		t.Errorf("unexpected first point: %+v", pontos[0])
	}
	// a cycle without responses still produces a zeroed point
	if pontos[1].MediaEntrega != 0 || pontos[1].TotalRespostas != 0 {
		t.Errorf("expected zeroed point for empty cycle, got %+v", pontos[1])
	}
}
