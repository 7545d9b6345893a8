package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository interface.
type Repository struct {
	Membro         MembroRepository
	Area           AreaRepository
	Alocacao       AlocacaoRepository
	Ciclo          CicloRepository
	CicloAvaliacao CicloAvaliacaoRepository
	Resposta       RespostaRepository
	Feedback       FeedbackRepository
	Participacao   ParticipacaoRepository

	db *gorm.DB
}

// NewRepository wires every repository over one gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Membro:         NewMembroRepo(db),
		Area:           NewAreaRepo(db),
		Alocacao:       NewAlocacaoRepo(db),
		Ciclo:          NewCicloRepo(db),
		CicloAvaliacao: NewCicloAvaliacaoRepo(db),
		Resposta:       NewRespostaRepo(db),
		Feedback:       NewFeedbackRepo(db),
		Participacao:   NewParticipacaoRepo(db),
		db:             db,
	}
}

// Transaction runs fn against a transactional copy of the aggregate, so a
// response upsert, its plan replacement and the participation recompute
// commit or roll back together. Aggregates built without a db (service
// tests with mock repos) run the callback inline.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
