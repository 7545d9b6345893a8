package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/service"
	"github.com/gabzinnn/av-continua-sub001/pkg/response"
)

// AvaliacaoHandler evaluation endpoints: worklist, responses, received
// evaluations, feedback ratings and the coordinator preview.
type AvaliacaoHandler struct {
	assignSvc service.AssignmentService
	evalSvc   service.EvaluationService
	reportSvc service.ReportService
}

// NewAvaliacaoHandler creates the AvaliacaoHandler.
func NewAvaliacaoHandler(assignSvc service.AssignmentService, evalSvc service.EvaluationService, reportSvc service.ReportService) *AvaliacaoHandler {
	return &AvaliacaoHandler{assignSvc: assignSvc, evalSvc: evalSvc, reportSvc: reportSvc}
}

// GetOverview returns the caller's worklist for the active cycle.
// GET /api/v1/avaliacoes/overview
func (h *AvaliacaoHandler) GetOverview(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	overview, err := h.assignSvc.GetOverview(c.Request.Context(), membroID)
	if err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}

	response.OK(c, overview)
}

// GetResposta returns the caller's saved response for one evaluated member,
// or empty data when none exists yet.
// GET /api/v1/avaliacoes/resposta?ciclo_avaliacao_id=...&avaliado_id=...
func (h *AvaliacaoHandler) GetResposta(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	cicloID := c.Query("ciclo_avaliacao_id")
	avaliadoID := c.Query("avaliado_id")
	if cicloID == "" || avaliadoID == "" {
		response.BadRequest(c, 10001, "ciclo_avaliacao_id e avaliado_id são obrigatórios")
		return
	}

	resposta, err := h.evalSvc.GetExistingResponse(c.Request.Context(), cicloID, membroID, avaliadoID)
	if err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}
	if resposta == nil {
		response.OK(c, nil)
		return
	}

	response.OK(c, resposta)
}

// SubmitResposta saves or finalizes a response. Re-submitting the same
// (ciclo, avaliado) pair overwrites the previous response.
// POST /api/v1/avaliacoes/resposta
func (h *AvaliacaoHandler) SubmitResposta(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	var req dto.SubmitRespostaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.evalSvc.SubmitResponse(c.Request.Context(), membroID, &req)
	if err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}

	response.OK(c, result)
}

// GetRecebidas lists finalized evaluations the caller received.
// GET /api/v1/avaliacoes/recebidas
func (h *AvaliacaoHandler) GetRecebidas(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	recebidas, err := h.evalSvc.GetReceived(c.Request.Context(), membroID)
	if err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}

	response.OK(c, gin.H{"list": recebidas})
}

// SubmitFeedback rates the quality of one received evaluation.
// POST /api/v1/avaliacoes/feedback
func (h *AvaliacaoHandler) SubmitFeedback(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	if err := h.evalSvc.SubmitFeedbackRating(c.Request.Context(), membroID, &req); err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetPreview shows, for every active member, everyone they must evaluate.
// GET /api/v1/avaliacoes/preview (coordinators only)
func (h *AvaliacaoHandler) GetPreview(c *gin.Context) {
	preview, err := h.assignSvc.GetPreview(c.Request.Context())
	if err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}

	response.OK(c, gin.H{"list": preview})
}

// GetHistorico returns the caller's monthly history of received ratings.
// GET /api/v1/avaliacoes/historico
func (h *AvaliacaoHandler) GetHistorico(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	pontos, err := h.reportSvc.GetHistoricoMensal(c.Request.Context(), membroID)
	if err != nil {
		h.handleAvaliacaoError(c, err)
		return
	}

	response.OK(c, gin.H{"list": pontos})
}

// handleAvaliacaoError maps evaluation sentinels to the envelope.
func (h *AvaliacaoHandler) handleAvaliacaoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemCicloAtivo):
		response.NotFound(c, 13001, "nenhum ciclo de avaliação em andamento")
	case errors.Is(err, service.ErrCicloNaoEncontrado):
		response.NotFound(c, 13002, "ciclo de avaliação não encontrado")
	case errors.Is(err, service.ErrMembroNaoEncontrado):
		response.NotFound(c, 13003, "membro não encontrado")
	case errors.Is(err, service.ErrAutoAvaliacao):
		response.BadRequest(c, 13004, "não é possível avaliar a si mesmo")
	case errors.Is(err, service.ErrRespostaNaoEncontrada):
		response.NotFound(c, 13005, "resposta de avaliação não encontrada")
	case errors.Is(err, service.ErrFeedbackNaoPermitido):
		response.Forbidden(c, 13006, "apenas o membro avaliado pode avaliar o feedback recebido")
	default:
		response.InternalError(c)
	}
}
