package model

// RespostaAvaliacao one evaluator's rating of one evaluated member within a
// cycle (table respostas_avaliacao)
// The unique constraint on (ciclo, avaliador, avaliado) makes writes
// idempotent: duplicate submissions converge to last-writer-wins.
type RespostaAvaliacao struct {
	RespostaID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"resposta_id"`
	CicloAvaliacaoID string `gorm:"type:uuid;not null;uniqueIndex:uq_resposta,priority:1" json:"ciclo_avaliacao_id"`
	AvaliadorID      string `gorm:"type:uuid;not null;uniqueIndex:uq_resposta,priority:2" json:"avaliador_id"`
	AvaliadoID       string `gorm:"type:uuid;not null;uniqueIndex:uq_resposta,priority:3" json:"avaliado_id"`
	NotaEntrega      int    `gorm:"not null"                                              json:"nota_entrega"`
	NotaCultura      int    `gorm:"not null"                                              json:"nota_cultura"`
	Feedback         string `gorm:"type:text;not null;default:''"                         json:"feedback"`
	Finalizada       bool   `gorm:"not null;default:false"                                json:"finalizada"`
	BaseModel

	CicloAvaliacao *CicloAvaliacao `gorm:"foreignKey:CicloAvaliacaoID;references:CicloAvaliacaoID" json:"ciclo_avaliacao,omitempty"`
	Avaliador      *Membro         `gorm:"foreignKey:AvaliadorID;references:MembroID"              json:"avaliador,omitempty"`
	Avaliado       *Membro         `gorm:"foreignKey:AvaliadoID;references:MembroID"               json:"avaliado,omitempty"`
}

// TableName sets the table name.
func (RespostaAvaliacao) TableName() string { return "respostas_avaliacao" }

// PlanoAcao action item attached to a response, owned by the evaluated
// member (table planos_acao)
// Saving a response replaces its whole plan set; Concluido is toggled
// independently afterwards.
type PlanoAcao struct {
	PlanoID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plano_id"`
	RespostaID    string `gorm:"type:uuid;not null;index"                       json:"resposta_id"`
	Descricao     string `gorm:"type:text;not null"                             json:"descricao"`
	ResponsavelID string `gorm:"type:uuid;not null"                             json:"responsavel_id"`
	Concluido     bool   `gorm:"not null;default:false"                         json:"concluido"`
	BaseModel

	Responsavel *Membro `gorm:"foreignKey:ResponsavelID;references:MembroID" json:"responsavel,omitempty"`
}

// TableName sets the table name.
func (PlanoAcao) TableName() string { return "planos_acao" }

// AvaliacaoFeedback the evaluated member's rating of the feedback text they
// received (table avaliacoes_feedback)
// At most one per response; avaliado_id is who wrote the rating, which is
// what the per-member "feedback quality given" aggregate reads.
type AvaliacaoFeedback struct {
	AvaliacaoFeedbackID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"avaliacao_feedback_id"`
	RespostaID          string `gorm:"type:uuid;not null;uniqueIndex"                 json:"resposta_id"`
	AvaliadoID          string `gorm:"type:uuid;not null;index"                       json:"avaliado_id"`
	NotaFeedback        int    `gorm:"not null"                                       json:"nota_feedback"`
	BaseModel
}

// TableName sets the table name.
func (AvaliacaoFeedback) TableName() string { return "avaliacoes_feedback" }

// Participacao per-member, per-cycle completion flags (table participacoes)
// Both flags are monotonic within a cycle: once true, never reset.
type Participacao struct {
	ParticipacaoID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"participacao_id"`
	CicloAvaliacaoID   string `gorm:"type:uuid;not null;uniqueIndex:uq_participacao,priority:1" json:"ciclo_avaliacao_id"`
	MembroID           string `gorm:"type:uuid;not null;uniqueIndex:uq_participacao,priority:2" json:"membro_id"`
	RespondeuAvaliacao bool   `gorm:"not null;default:false"                                    json:"respondeu_avaliacao"`
	AvaliouFeedbacks   bool   `gorm:"not null;default:false"                                    json:"avaliou_feedbacks"`
	BaseModel
}

// TableName sets the table name.
func (Participacao) TableName() string { return "participacoes" }
