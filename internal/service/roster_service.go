package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/gabzinnn/av-continua-sub001/internal/dto"
	"github.com/gabzinnn/av-continua-sub001/internal/model"
	"github.com/gabzinnn/av-continua-sub001/internal/repository"
)

// RosterService read-only roster listings. Roster writes happen in the
// member portal, not here.
type RosterService interface {
	ListMembros(ctx context.Context, somenteAtivos bool) ([]dto.MembroResponse, error)
	// ListAreas returns areas in the canonical organizational order.
	ListAreas(ctx context.Context) ([]dto.AreaResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates the RosterService.
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

func (s *rosterService) ListMembros(ctx context.Context, somenteAtivos bool) ([]dto.MembroResponse, error) {
	var membros []model.Membro
	var err error
	if somenteAtivos {
		membros, err = s.repo.Membro.ListAtivos(ctx)
	} else {
		membros, err = s.repo.Membro.ListAll(ctx)
	}
	if err != nil {
		s.logger.Error("failed to list members", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MembroResponse, 0, len(membros))
	for i := range membros {
		m := &membros[i]
		result = append(result, dto.MembroResponse{
			MembroID:      m.MembroID,
			Nome:          m.Nome,
			Foto:          m.Foto,
			Ativo:         m.Ativo,
			IsCoordenador: m.IsCoordenador,
			AreaNome:      m.AreaNome(),
		})
	}
	return result, nil
}

func (s *rosterService) ListAreas(ctx context.Context) ([]dto.AreaResponse, error) {
	areas, err := s.repo.Area.List(ctx)
	if err != nil {
		s.logger.Error("failed to list areas", zap.Error(err))
		return nil, err
	}

	sort.Slice(areas, func(i, j int) bool {
		return model.AreaBefore(areas[i].Nome, areas[j].Nome)
	})

	result := make([]dto.AreaResponse, 0, len(areas))
	for i := range areas {
		result = append(result, dto.AreaResponse{
			AreaID: areas[i].AreaID,
			Nome:   areas[i].Nome,
		})
	}
	return result, nil
}
