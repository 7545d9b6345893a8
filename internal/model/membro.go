package model

// Membro club member (table membros)
// Roster data is owned by the roster subsystem; this service only reads it.
type Membro struct {
	MembroID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"membro_id"`
	Nome           string  `gorm:"type:varchar(100);not null"                     json:"nome"`
	Foto           string  `gorm:"type:text"                                      json:"foto,omitempty"`
	Ativo          bool    `gorm:"not null;default:true"                          json:"ativo"`
	IsCoordenador  bool    `gorm:"not null;default:false"                         json:"is_coordenador"`
	AreaID         *string `gorm:"type:uuid"                                      json:"area_id,omitempty"`
	SubareaID      *string `gorm:"type:uuid"                                      json:"subarea_id,omitempty"`
	IsLiderSubarea bool    `gorm:"not null;default:false"                         json:"is_lider_subarea"`
	BaseModel

	Area    *Area    `gorm:"foreignKey:AreaID;references:AreaID"          json:"area,omitempty"`
	Subarea *Subarea `gorm:"foreignKey:SubareaID;references:SubareaID"    json:"subarea,omitempty"`
}

// TableName sets the table name.
func (Membro) TableName() string { return "membros" }

// AreaNome returns the member's area name, or "" when none is set.
func (m *Membro) AreaNome() string {
	if m.Area != nil {
		return m.Area.Nome
	}
	return ""
}
