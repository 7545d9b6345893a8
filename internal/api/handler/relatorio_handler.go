package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/gabzinnn/av-continua-sub001/internal/service"
	"github.com/gabzinnn/av-continua-sub001/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RelatorioHandler aggregated-report endpoints.
type RelatorioHandler struct {
	reportSvc service.ReportService
	exportSvc service.ExportService
}

// NewRelatorioHandler creates the RelatorioHandler.
func NewRelatorioHandler(reportSvc service.ReportService, exportSvc service.ExportService) *RelatorioHandler {
	return &RelatorioHandler{reportSvc: reportSvc, exportSvc: exportSvc}
}

// GetRelatorio returns the full aggregation for one ciclo group.
// GET /api/v1/relatorios/:cicloId (coordinators only)
func (h *RelatorioHandler) GetRelatorio(c *gin.Context) {
	cicloID := c.Param("cicloId")
	if cicloID == "" {
		response.BadRequest(c, 10001, "id do ciclo não pode ser vazio")
		return
	}

	relatorio, err := h.reportSvc.GetReport(c.Request.Context(), cicloID)
	if err != nil {
		h.handleRelatorioError(c, err)
		return
	}

	response.OK(c, relatorio)
}

// GetMediasCiclo returns one evaluation cycle's overall averages.
// GET /api/v1/relatorios/ciclos-avaliacao/:id (coordinators only)
func (h *RelatorioHandler) GetMediasCiclo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id do ciclo de avaliação não pode ser vazio")
		return
	}

	medias, err := h.reportSvc.GetMediasCiclo(c.Request.Context(), id)
	if err != nil {
		h.handleRelatorioError(c, err)
		return
	}

	response.OK(c, medias)
}

// GetEvolucao returns one aggregate point per evaluation cycle.
// GET /api/v1/relatorios/evolucao (coordinators only)
func (h *RelatorioHandler) GetEvolucao(c *gin.Context) {
	pontos, err := h.reportSvc.GetEvolucao(c.Request.Context())
	if err != nil {
		h.handleRelatorioError(c, err)
		return
	}

	response.OK(c, gin.H{"list": pontos})
}

// Export streams the ciclo group report as an .xlsx download.
// GET /api/v1/relatorios/:cicloId/export (coordinators only)
func (h *RelatorioHandler) Export(c *gin.Context) {
	cicloID := c.Param("cicloId")
	if cicloID == "" {
		response.BadRequest(c, 10001, "id do ciclo não pode ser vazio")
		return
	}

	buf, filename, err := h.exportSvc.ExportRelatorio(c.Request.Context(), cicloID)
	if err != nil {
		h.handleRelatorioError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleRelatorioError maps report sentinels to the envelope.
func (h *RelatorioHandler) handleRelatorioError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGrupoNaoEncontrado):
		response.NotFound(c, 14001, "ciclo não encontrado")
	case errors.Is(err, service.ErrCicloNaoEncontrado):
		response.NotFound(c, 14002, "ciclo de avaliação não encontrado")
	case errors.Is(err, service.ErrExportSemRespostas):
		response.BadRequest(c, 14003, "o ciclo não possui respostas finalizadas")
	case errors.Is(err, service.ErrExportFalhou):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
