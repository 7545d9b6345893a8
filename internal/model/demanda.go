package model

// Demanda internal project members are staffed against (table demandas)
// Finalized demandas drop out of assignment computation and credit totals
// but stay in history.
type Demanda struct {
	DemandaID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"demanda_id"`
	Nome          string  `gorm:"type:varchar(200);not null"                     json:"nome"`
	AreaID        *string `gorm:"type:uuid"                                      json:"area_id,omitempty"`
	CreditoMembro float64 `gorm:"type:numeric(6,2);not null;default:0"           json:"credito_membro"`
	CreditoLider  float64 `gorm:"type:numeric(6,2);not null;default:0"           json:"credito_lider"`
	Finalizada    bool    `gorm:"not null;default:false"                         json:"finalizada"`
	BaseModel

	Area *Area `gorm:"foreignKey:AreaID;references:AreaID" json:"area,omitempty"`
}

// TableName sets the table name.
func (Demanda) TableName() string { return "demandas" }

// Alocacao staffing of a member on a demanda (table alocacoes)
// Nothing prevents two leader allocations on the same demanda; credit is
// paid per leader allocation.
type Alocacao struct {
	AlocacaoID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"alocacao_id"`
	MembroID   string `gorm:"type:uuid;not null;uniqueIndex:uq_alocacao,priority:1"    json:"membro_id"`
	DemandaID  string `gorm:"type:uuid;not null;uniqueIndex:uq_alocacao,priority:2"    json:"demanda_id"`
	IsLider    bool   `gorm:"not null;default:false"                                   json:"is_lider"`
	BaseModel

	Membro  *Membro  `gorm:"foreignKey:MembroID;references:MembroID"    json:"membro,omitempty"`
	Demanda *Demanda `gorm:"foreignKey:DemandaID;references:DemandaID"  json:"demanda,omitempty"`
}

// TableName sets the table name.
func (Alocacao) TableName() string { return "alocacoes" }
