package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gabzinnn/av-continua-sub001/config"
	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

func setupCycleService() (CycleService, *testMocks) {
	repo, mocks := newTestRepo()
	cfg := &config.Config{Avaliacao: config.AvaliacaoConfig{JanelaDias: 6}}
	svc := NewCycleService(cfg, repo, nil, zap.NewNop())
	return svc, mocks
}

// ── Create ──

func TestCycle_Create_Success(t *testing.T) {
	svc, _ := setupCycleService()

	ciclo, err := svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.1"}, "coord-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if ciclo.Nome != "2025.1" {
		t.Errorf("expected nome 2025.1, got %s", ciclo.Nome)
	}
	if ciclo.Finalizada {
		t.Error("new cycle must start open")
	}
	if ciclo.DataFim == nil {
		t.Error("new cycle should carry the estimated end date")
	}
}

func TestCycle_Create_RejectsSecondActive(t *testing.T) {
	svc, _ := setupCycleService()

	if _, err := svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.1"}, "coord-1"); err != nil {
		t.Fatalf("first Create should succeed: %v", err)
	}

	_, err := svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.2"}, "coord-1")
	if !errors.Is(err, ErrCicloAtivoExistente) {
		t.Errorf("expected ErrCicloAtivoExistente, got %v", err)
	}
}

func TestCycle_Create_RejectsDuplicateName(t *testing.T) {
	svc, _ := setupCycleService()

	ciclo, err := svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.1"}, "coord-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if err := svc.Finalize(context.Background(), ciclo.ID); err != nil {
		t.Fatalf("Finalize should succeed: %v", err)
	}

	_, err = svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.1"}, "coord-1")
	if !errors.Is(err, ErrCicloNomeExistente) {
		t.Errorf("expected ErrCicloNomeExistente, got %v", err)
	}
}

// ── Finalize ──

func TestCycle_Finalize(t *testing.T) {
	svc, mocks := setupCycleService()

	ciclo, err := svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.1"}, "coord-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	if err := svc.Finalize(context.Background(), ciclo.ID); err != nil {
		t.Fatalf("Finalize should succeed: %v", err)
	}
	if !mocks.ciclosAval.ciclos[ciclo.ID].Finalizada {
		t.Error("cycle should be finalized")
	}

	// finalization is irreversible; a second call fails
	if err := svc.Finalize(context.Background(), ciclo.ID); !errors.Is(err, ErrCicloJaFinalizado) {
		t.Errorf("expected ErrCicloJaFinalizado, got %v", err)
	}
}

func TestCycle_Finalize_NotFound(t *testing.T) {
	svc, _ := setupCycleService()

	if err := svc.Finalize(context.Background(), "ghost"); !errors.Is(err, ErrCicloNaoEncontrado) {
		t.Errorf("expected ErrCicloNaoEncontrado, got %v", err)
	}
}

// ── Active ──

func TestCycle_Active_None(t *testing.T) {
	svc, _ := setupCycleService()

	if _, err := svc.Active(context.Background()); !errors.Is(err, ErrSemCicloAtivo) {
		t.Errorf("expected ErrSemCicloAtivo, got %v", err)
	}
}

// ── Progress ──

func TestCycle_Progress(t *testing.T) {
	svc, mocks := setupCycleService()

	nomes := []string{"Ana", "Bruno", "Carla", "Davi", "Elisa"}
	for i, nome := range nomes {
		mocks.membros.add(membroFixture(string(rune('a'+i)), nome, "Projetos", false))
	}
	// joined after the cycle started: out of the denominator
	tarde := membroFixture("z", "Zeca", "Projetos", false)
	tarde.CreatedAt = time.Now().Add(24 * time.Hour)
	mocks.membros.add(tarde)

	ciclo, err := svc.Create(context.Background(), &dto.CreateCicloAvaliacaoRequest{Nome: "2025.1"}, "coord-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	mocks.participacoes.SetRespondeuAvaliacao(context.Background(), ciclo.ID, "a")
	mocks.participacoes.SetRespondeuAvaliacao(context.Background(), ciclo.ID, "b")
	// the late joiner finishing must not push the count past the denominator
	mocks.participacoes.SetRespondeuAvaliacao(context.Background(), ciclo.ID, "z")

	progresso, err := svc.Progress(context.Background(), "")
	if err != nil {
		t.Fatalf("Progress should succeed: %v", err)
	}
	if progresso.TotalElegiveis != 5 {
		t.Errorf("expected 5 eligible, got %d", progresso.TotalElegiveis)
	}
	if progresso.TotalConcluidos != 2 {
		t.Errorf("expected 2 concluded, got %d", progresso.TotalConcluidos)
	}
	if progresso.Percentual != 40.0 {
		t.Errorf("expected 40%%, got %v", progresso.Percentual)
	}
	if progresso.DiasRestantes <= 0 || progresso.DiasRestantes > 6 {
		t.Errorf("expected dias restantes within the window, got %d", progresso.DiasRestantes)
	}
}

func TestCycle_Progress_SemCicloAtivo(t *testing.T) {
	svc, _ := setupCycleService()

	if _, err := svc.Progress(context.Background(), ""); !errors.Is(err, ErrSemCicloAtivo) {
		t.Errorf("expected ErrSemCicloAtivo, got %v", err)
	}
}

func TestDiasRestantes_Finalizado(t *testing.T) {
	fim := time.Now().Add(48 * time.Hour)
	ciclo := &model.CicloAvaliacao{Finalizada: true, DataFim: &fim}
	if got := diasRestantes(ciclo); got != 0 {
		t.Errorf("finalized cycle must report 0 days, got %d", got)
	}
}

// ── ciclo groups ──

func TestCycle_CreateCiclo_DuplicateName(t *testing.T) {
	svc, _ := setupCycleService()

	if _, err := svc.CreateCiclo(context.Background(), &dto.CreateCicloRequest{Nome: "Gestão 2025"}); err != nil {
		t.Fatalf("CreateCiclo should succeed: %v", err)
	}
	_, err := svc.CreateCiclo(context.Background(), &dto.CreateCicloRequest{Nome: "Gestão 2025"})
	if !errors.Is(err, ErrGrupoNomeExistente) {
		t.Errorf("expected ErrGrupoNomeExistente, got %v", err)
	}
}
