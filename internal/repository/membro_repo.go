package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gabzinnn/av-continua-sub001/internal/model"
)

// MembroRepository read-only access to the member roster.
type MembroRepository interface {
	GetByID(ctx context.Context, id string) (*model.Membro, error)
	ListAtivos(ctx context.Context) ([]model.Membro, error)
	ListAll(ctx context.Context) ([]model.Membro, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Membro, error)
	// ListElegiveis returns active members whose account existed on or
	// before the given instant.
	ListElegiveis(ctx context.Context, criadoAte time.Time) ([]model.Membro, error)
}

type membroRepo struct {
	db *gorm.DB
}

// NewMembroRepo creates the GORM-backed MembroRepository.
func NewMembroRepo(db *gorm.DB) MembroRepository {
	return &membroRepo{db: db}
}

func (r *membroRepo) GetByID(ctx context.Context, id string) (*model.Membro, error) {
	var m model.Membro
	err := r.db.WithContext(ctx).
		Preload("Area").
		Where("membro_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membroRepo) ListAtivos(ctx context.Context) ([]model.Membro, error) {
	var membros []model.Membro
	err := r.db.WithContext(ctx).
		Preload("Area").
		Where("ativo = ?", true).
		Order("nome ASC").
		Find(&membros).Error
	return membros, err
}

func (r *membroRepo) ListAll(ctx context.Context) ([]model.Membro, error) {
	var membros []model.Membro
	err := r.db.WithContext(ctx).
		Preload("Area").
		Order("nome ASC").
		Find(&membros).Error
	return membros, err
}

func (r *membroRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Membro, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var membros []model.Membro
	err := r.db.WithContext(ctx).
		Preload("Area").
		Where("membro_id IN ?", ids).
		Find(&membros).Error
	return membros, err
}

func (r *membroRepo) ListElegiveis(ctx context.Context, criadoAte time.Time) ([]model.Membro, error) {
	var membros []model.Membro
	err := r.db.WithContext(ctx).
		Preload("Area").
		Where("ativo = ? AND created_at <= ?", true, criadoAte).
		Order("nome ASC").
		Find(&membros).Error
	return membros, err
}
