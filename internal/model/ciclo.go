package model

import "time"

// Ciclo grouping of evaluation cycles for multi-cycle reporting (table ciclos)
type Ciclo struct {
	CicloID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ciclo_id"`
	Nome    string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"nome"`
	BaseModel
}

// TableName sets the table name.
func (Ciclo) TableName() string { return "ciclos" }

// CicloAvaliacao one peer-evaluation round (table ciclos_avaliacao)
// A partial unique index guarantees at most one row with finalizada = false.
type CicloAvaliacao struct {
	CicloAvaliacaoID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ciclo_avaliacao_id"`
	Nome             string     `gorm:"type:varchar(100);not null;uniqueIndex"         json:"nome"`
	DataInicio       time.Time  `gorm:"not null"                                       json:"data_inicio"`
	DataFim          *time.Time `json:"data_fim,omitempty"`
	Finalizada       bool       `gorm:"not null;default:false"                         json:"finalizada"`
	CicloID          *string    `gorm:"type:uuid"                                      json:"ciclo_id,omitempty"`
	CriadoPor        *string    `gorm:"type:uuid"                                      json:"criado_por,omitempty"`
	BaseModel

	Ciclo *Ciclo `gorm:"foreignKey:CicloID;references:CicloID" json:"ciclo,omitempty"`
}

// TableName sets the table name.
func (CicloAvaliacao) TableName() string { return "ciclos_avaliacao" }
