package dto

// ── report DTOs ──
//
// Every mean in this file is rounded to one decimal at the service boundary;
// internal aggregation keeps full precision. Empty inputs report 0, never
// null; TotalRespostas lets consumers tell 0.0 from "no data".

// MediasCicloResponse overall averages of one evaluation cycle.
type MediasCicloResponse struct {
	CicloAvaliacaoID string  `json:"ciclo_avaliacao_id"`
	Nome             string  `json:"nome"`
	MediaEntrega     float64 `json:"media_entrega"`
	MediaCultura     float64 `json:"media_cultura"`
	MediaFeedback    float64 `json:"media_feedback"`
	TotalRespostas   int     `json:"total_respostas"`
}

// PontoHistoricoResponse one member's aggregate in one cycle of a group.
// Cycles with no data for the member carry zeroed entries so chart arrays
// keep their length and order.
type PontoHistoricoResponse struct {
	CicloAvaliacaoID string  `json:"ciclo_avaliacao_id"`
	Nome             string  `json:"nome"`
	MediaEntrega     float64 `json:"media_entrega"`
	MediaCultura     float64 `json:"media_cultura"`
	TotalRespostas   int     `json:"total_respostas"`
}

// MembroRelatorioResponse per-member rollup across the cycle group.
// MediaFeedback averages feedback ratings the member *gave*: it measures the
// quality of the feedback text the member wrote.
type MembroRelatorioResponse struct {
	MembroID       string                   `json:"membro_id"`
	Nome           string                   `json:"nome"`
	Foto           string                   `json:"foto,omitempty"`
	AreaNome       string                   `json:"area_nome,omitempty"`
	MediaEntrega   float64                  `json:"media_entrega"`
	MediaCultura   float64                  `json:"media_cultura"`
	MediaFeedback  float64                  `json:"media_feedback"`
	DesvioEntrega  float64                  `json:"desvio_entrega"`
	DesvioCultura  float64                  `json:"desvio_cultura"`
	TotalRespostas int                      `json:"total_respostas"`
	Historico      []PontoHistoricoResponse `json:"historico"`
}

// AreaRelatorioResponse per-area rollup: the unweighted mean of each
// member's already-averaged mean, not a flat mean over raw responses.
type AreaRelatorioResponse struct {
	AreaNome      string  `json:"area_nome"`
	MediaEntrega  float64 `json:"media_entrega"`
	MediaCultura  float64 `json:"media_cultura"`
	MediaFeedback float64 `json:"media_feedback"`
	TotalMembros  int     `json:"total_membros"`
}

// RelatorioResponse full nested aggregation for one ciclo group.
type RelatorioResponse struct {
	CicloID        string                    `json:"ciclo_id"`
	CicloNome      string                    `json:"ciclo_nome"`
	Ciclos         []MediasCicloResponse     `json:"ciclos"`
	Membros        []MembroRelatorioResponse `json:"membros"`
	Areas          []AreaRelatorioResponse   `json:"areas"`
	TotalRespostas int                       `json:"total_respostas"`
}

// PontoMensalResponse one monthly bucket of a member's dashboard history.
// Buckets group by the cycle's start month, not the response timestamp.
type PontoMensalResponse struct {
	Label         string  `json:"label"`
	Ano           int     `json:"ano"`
	Mes           int     `json:"mes"`
	MediaEntrega  float64 `json:"media_entrega"`
	MediaCultura  float64 `json:"media_cultura"`
	MediaFeedback float64 `json:"media_feedback"`
}
