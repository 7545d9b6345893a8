package dto

// Response status values derived from (exists, finalizada).
const (
	StatusPending   = "pending"
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

// MembroResumoResponse compact member identity used in listings.
type MembroResumoResponse struct {
	MembroID      string `json:"membro_id"`
	Nome          string `json:"nome"`
	Foto          string `json:"foto,omitempty"`
	AreaNome      string `json:"area_nome,omitempty"`
	IsCoordenador bool   `json:"is_coordenador"`
}

// OverviewMembroResponse one member the caller must evaluate, with the
// caller's completion status for them.
type OverviewMembroResponse struct {
	MembroResumoResponse
	Status string `json:"status"`
}

// OverviewResponse the caller's phase-1 worklist for the active cycle.
type OverviewResponse struct {
	CicloAvaliacaoID string                   `json:"ciclo_avaliacao_id"`
	CicloNome        string                   `json:"ciclo_nome"`
	Avaliacoes       []OverviewMembroResponse `json:"avaliacoes"`
	Total            int                      `json:"total"`
	Concluidas       int                      `json:"concluidas"`
}

// SubmitRespostaRequest saves or finalizes one evaluation response.
// Blank plan lines are discarded; the remaining lines replace the
// response's previous plan set wholesale.
type SubmitRespostaRequest struct {
	CicloAvaliacaoID string   `json:"ciclo_avaliacao_id" binding:"required,uuid"`
	AvaliadoID       string   `json:"avaliado_id"        binding:"required,uuid"`
	NotaEntrega      int      `json:"nota_entrega"       binding:"min=0,max=10"`
	NotaCultura      int      `json:"nota_cultura"       binding:"min=0,max=10"`
	Feedback         string   `json:"feedback"`
	PlanosAcao       []string `json:"planos_acao"`
	Finalizada       bool     `json:"finalizada"`
}

// SubmitRespostaResponse result of a response submission.
type SubmitRespostaResponse struct {
	RespostaID string `json:"resposta_id"`
	Finalizada bool   `json:"finalizada"`
}

// RespostaDetalheResponse a previously saved response, for editing.
type RespostaDetalheResponse struct {
	RespostaID  string   `json:"resposta_id"`
	NotaEntrega int      `json:"nota_entrega"`
	NotaCultura int      `json:"nota_cultura"`
	Feedback    string   `json:"feedback"`
	Finalizada  bool     `json:"finalizada"`
	PlanosAcao  []string `json:"planos_acao"`
}

// AvaliacaoRecebidaResponse one finalized evaluation the caller received,
// with the feedback rating they gave it (nil while unrated).
type AvaliacaoRecebidaResponse struct {
	RespostaID    string `json:"resposta_id"`
	CicloNome     string `json:"ciclo_nome"`
	AvaliadorNome string `json:"avaliador_nome"`
	AvaliadorFoto string `json:"avaliador_foto,omitempty"`
	Data          string `json:"data"`
	NotaEntrega   int    `json:"nota_entrega"`
	NotaCultura   int    `json:"nota_cultura"`
	Feedback      string `json:"feedback"`
	NotaFeedback  *int   `json:"nota_feedback,omitempty"`
}

// SubmitFeedbackRequest rates the quality of feedback received.
type SubmitFeedbackRequest struct {
	RespostaID   string `json:"resposta_id"   binding:"required,uuid"`
	NotaFeedback int    `json:"nota_feedback" binding:"min=0,max=10"`
}

// PreviewEntryResponse one member and everyone they must evaluate.
type PreviewEntryResponse struct {
	Membro MembroResumoResponse   `json:"membro"`
	Avalia []MembroResumoResponse `json:"avalia"`
}
