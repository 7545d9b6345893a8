package dto

// ── roster read DTOs (roster CRUD lives in the portal, not here) ──

// MembroResponse member details for listings.
type MembroResponse struct {
	MembroID      string `json:"membro_id"`
	Nome          string `json:"nome"`
	Foto          string `json:"foto,omitempty"`
	Ativo         bool   `json:"ativo"`
	IsCoordenador bool   `json:"is_coordenador"`
	AreaNome      string `json:"area_nome,omitempty"`
}

// AreaResponse area details for listings, in canonical order.
type AreaResponse struct {
	AreaID string `json:"area_id"`
	Nome   string `json:"nome"`
}
