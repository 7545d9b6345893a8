package handler

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/service"
	"github.com/gabzinnn/av-continua-sub001/pkg/response"
)

// nomeCicloRe the "2025.1" naming convention. Enforced at this boundary
// only; the service layer accepts any name.
var nomeCicloRe = regexp.MustCompile(`^\d{4}\.\d$`)

// CicloHandler evaluation-cycle lifecycle endpoints.
type CicloHandler struct {
	cycleSvc service.CycleService
}

// NewCicloHandler creates the CicloHandler.
func NewCicloHandler(cycleSvc service.CycleService) *CicloHandler {
	return &CicloHandler{cycleSvc: cycleSvc}
}

// Create opens a new evaluation cycle.
// POST /api/v1/ciclos-avaliacao (coordinators only)
func (h *CicloHandler) Create(c *gin.Context) {
	membroID, ok := MustGetMembroID(c)
	if !ok {
		return
	}

	var req dto.CreateCicloAvaliacaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}
	if !nomeCicloRe.MatchString(req.Nome) {
		response.BadRequest(c, 10001, "nome do ciclo deve seguir o formato AAAA.S (ex: 2025.1)")
		return
	}

	ciclo, err := h.cycleSvc.Create(c.Request.Context(), &req, membroID)
	if err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.Created(c, ciclo)
}

// Finalizar closes a cycle for good.
// POST /api/v1/ciclos-avaliacao/:id/finalizar (coordinators only)
func (h *CicloHandler) Finalizar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id do ciclo não pode ser vazio")
		return
	}

	if err := h.cycleSvc.Finalize(c.Request.Context(), id); err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.OK(c, nil)
}

// Ativo returns the open cycle.
// GET /api/v1/ciclos-avaliacao/ativo
func (h *CicloHandler) Ativo(c *gin.Context) {
	ciclo, err := h.cycleSvc.Active(c.Request.Context())
	if err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.OK(c, ciclo)
}

// List returns every evaluation cycle, oldest first.
// GET /api/v1/ciclos-avaliacao
func (h *CicloHandler) List(c *gin.Context) {
	ciclos, err := h.cycleSvc.List(c.Request.Context())
	if err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.OK(c, gin.H{"list": ciclos})
}

// Progresso reports cycle completion; without an id query it targets the
// active cycle.
// GET /api/v1/ciclos-avaliacao/progresso?id=...
func (h *CicloHandler) Progresso(c *gin.Context) {
	progresso, err := h.cycleSvc.Progress(c.Request.Context(), c.Query("id"))
	if err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.OK(c, progresso)
}

// CreateCiclo creates a reporting group of evaluation cycles.
// POST /api/v1/ciclos (coordinators only)
func (h *CicloHandler) CreateCiclo(c *gin.Context) {
	var req dto.CreateCicloRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	ciclo, err := h.cycleSvc.CreateCiclo(c.Request.Context(), &req)
	if err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.Created(c, ciclo)
}

// ListCiclos lists the reporting groups.
// GET /api/v1/ciclos
func (h *CicloHandler) ListCiclos(c *gin.Context) {
	ciclos, err := h.cycleSvc.ListCiclos(c.Request.Context())
	if err != nil {
		h.handleCicloError(c, err)
		return
	}

	response.OK(c, gin.H{"list": ciclos})
}

// handleCicloError maps cycle sentinels to the envelope.
func (h *CicloHandler) handleCicloError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCicloAtivoExistente):
		response.Conflict(c, 12001, "já existe um ciclo de avaliação em andamento")
	case errors.Is(err, service.ErrCicloNomeExistente):
		response.Conflict(c, 12002, "já existe um ciclo de avaliação com esse nome")
	case errors.Is(err, service.ErrCicloNaoEncontrado):
		response.NotFound(c, 12003, "ciclo de avaliação não encontrado")
	case errors.Is(err, service.ErrCicloJaFinalizado):
		response.BadRequest(c, 12004, "ciclo de avaliação já finalizado")
	case errors.Is(err, service.ErrSemCicloAtivo):
		response.NotFound(c, 12005, "nenhum ciclo de avaliação em andamento")
	case errors.Is(err, service.ErrGrupoNomeExistente):
		response.Conflict(c, 12006, "já existe um ciclo com esse nome")
	case errors.Is(err, service.ErrGrupoNaoEncontrado):
		response.NotFound(c, 12007, "ciclo não encontrado")
	default:
		response.InternalError(c)
	}
}
