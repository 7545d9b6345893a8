package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gabzinnn/av-continua-sub001/internal/dto"
)

// ── export errors ──

var (
	ErrExportSemRespostas = errors.New("o ciclo não possui respostas finalizadas")
	ErrExportFalhou       = errors.New("falha ao gerar o arquivo Excel")
)

// ExportService turns a ciclo group report into a downloadable .xlsx.
//
// The buffer is returned to the handler, which sets the HTTP headers and
// streams it. Three sheets: Resumo (per-cycle averages), Membros (per-member
// rollup) and Áreas (per-area rollup).
type ExportService interface {
	ExportRelatorio(ctx context.Context, cicloID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	reports ReportService
	logger  *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(reports ReportService, logger *zap.Logger) ExportService {
	return &exportService{reports: reports, logger: logger}
}

// ────────────────────── ExportRelatorio ──────────────────────

func (s *exportService) ExportRelatorio(ctx context.Context, cicloID string) (*bytes.Buffer, string, error) {
	relatorio, err := s.reports.GetReport(ctx, cicloID)
	if err != nil {
		return nil, "", err
	}
	if relatorio.TotalRespostas == 0 {
		return nil, "", ErrExportSemRespostas
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	s.escreverResumo(f, headerStyle, relatorio)
	s.escreverMembros(f, headerStyle, relatorio)
	s.escreverAreas(f, headerStyle, relatorio)
	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write xlsx", zap.Error(err))
		return nil, "", ErrExportFalhou
	}

	filename := fmt.Sprintf("relatorio_%s.xlsx", relatorio.CicloNome)
	return buf, filename, nil
}

func (s *exportService) escreverResumo(f *excelize.File, headerStyle int, relatorio *dto.RelatorioResponse) {
	const sheet = "Resumo"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "E", 16)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s — Relatório de Avaliação", relatorio.CicloNome))
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	cabecalho := []string{"Ciclo de Avaliação", "Média Entrega", "Média Cultura", "Média Feedback", "Respostas"}
	for i, h := range cabecalho {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, cel(col, 2), h)
		f.SetCellStyle(sheet, cel(col, 2), cel(col, 2), headerStyle)
	}

	linha := 3
	for _, c := range relatorio.Ciclos {
		f.SetCellValue(sheet, cel("A", linha), c.Nome)
		f.SetCellValue(sheet, cel("B", linha), c.MediaEntrega)
		f.SetCellValue(sheet, cel("C", linha), c.MediaCultura)
		f.SetCellValue(sheet, cel("D", linha), c.MediaFeedback)
		f.SetCellValue(sheet, cel("E", linha), c.TotalRespostas)
		linha++
	}

	f.SetCellValue(sheet, cel("A", linha+1), "Total de respostas")
	f.SetCellValue(sheet, cel("B", linha+1), relatorio.TotalRespostas)
}

func (s *exportService) escreverMembros(f *excelize.File, headerStyle int, relatorio *dto.RelatorioResponse) {
	const sheet = "Membros"
	f.NewSheet(sheet)

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "H", 16)

	cabecalho := []string{
		"Membro", "Área",
		"Média Entrega", "Média Cultura", "Média Feedback",
		"Desvio Entrega", "Desvio Cultura", "Respostas",
	}
	for i, h := range cabecalho {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, cel(col, 1), h)
		f.SetCellStyle(sheet, cel(col, 1), cel(col, 1), headerStyle)
	}

	for i, m := range relatorio.Membros {
		linha := i + 2
		f.SetCellValue(sheet, cel("A", linha), m.Nome)
		f.SetCellValue(sheet, cel("B", linha), m.AreaNome)
		f.SetCellValue(sheet, cel("C", linha), m.MediaEntrega)
		f.SetCellValue(sheet, cel("D", linha), m.MediaCultura)
		f.SetCellValue(sheet, cel("E", linha), m.MediaFeedback)
		f.SetCellValue(sheet, cel("F", linha), m.DesvioEntrega)
		f.SetCellValue(sheet, cel("G", linha), m.DesvioCultura)
		f.SetCellValue(sheet, cel("H", linha), m.TotalRespostas)
	}
}

func (s *exportService) escreverAreas(f *excelize.File, headerStyle int, relatorio *dto.RelatorioResponse) {
	const sheet = "Áreas"
	f.NewSheet(sheet)

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "E", 16)

	cabecalho := []string{"Área", "Média Entrega", "Média Cultura", "Média Feedback", "Membros"}
	for i, h := range cabecalho {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, cel(col, 1), h)
		f.SetCellStyle(sheet, cel(col, 1), cel(col, 1), headerStyle)
	}

	for i, a := range relatorio.Areas {
		linha := i + 2
		f.SetCellValue(sheet, cel("A", linha), a.AreaNome)
		f.SetCellValue(sheet, cel("B", linha), a.MediaEntrega)
		f.SetCellValue(sheet, cel("C", linha), a.MediaCultura)
		f.SetCellValue(sheet, cel("D", linha), a.MediaFeedback)
		f.SetCellValue(sheet, cel("E", linha), a.TotalMembros)
	}
}

// ── helpers ──

func cel(col string, linha int) string {
	return fmt.Sprintf("%s%d", col, linha)
}
