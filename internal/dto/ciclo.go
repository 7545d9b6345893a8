package dto

// ── evaluation-cycle DTOs ──

// CreateCicloAvaliacaoRequest creates a new evaluation cycle.
// The YYYY.S naming convention is checked here at the boundary; the service
// layer stays permissive for lower-level callers.
type CreateCicloAvaliacaoRequest struct {
	Nome    string  `json:"nome"     binding:"required,min=3,max=100"`
	CicloID *string `json:"ciclo_id" binding:"omitempty,uuid"`
}

// CicloAvaliacaoResponse evaluation-cycle details.
type CicloAvaliacaoResponse struct {
	ID         string  `json:"id"`
	Nome       string  `json:"nome"`
	DataInicio string  `json:"data_inicio"`
	DataFim    *string `json:"data_fim,omitempty"`
	Finalizada bool    `json:"finalizada"`
	CicloID    *string `json:"ciclo_id,omitempty"`
}

// ProgressoCicloResponse completion progress of a cycle.
// DiasRestantes comes from the start+window heuristic and is an estimate,
// not a deadline.
type ProgressoCicloResponse struct {
	CicloAvaliacaoID string  `json:"ciclo_avaliacao_id"`
	Nome             string  `json:"nome"`
	DataInicio       string  `json:"data_inicio"`
	DiasRestantes    int     `json:"dias_restantes"`
	TotalElegiveis   int     `json:"total_elegiveis"`
	TotalConcluidos  int     `json:"total_concluidos"`
	Percentual       float64 `json:"percentual"`
}

// ── ciclo-group DTOs ──

// CreateCicloRequest creates a reporting group of evaluation cycles.
type CreateCicloRequest struct {
	Nome string `json:"nome" binding:"required,min=3,max=100"`
}

// CicloResponse ciclo-group details.
type CicloResponse struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}
