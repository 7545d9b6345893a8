package service

import (
	"go.uber.org/zap"

	"github.com/gabzinnn/av-continua-sub001/config"
	"github.com/gabzinnn/av-continua-sub001/internal/repository"
	"github.com/gabzinnn/av-continua-sub001/pkg/redis"
)

// Service aggregates every service of the engine.
type Service struct {
	Assignment AssignmentService
	Cycle      CycleService
	Evaluation EvaluationService
	Report     ReportService
	Export     ExportService
	Roster     RosterService
}

// NewService wires the service layer.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	assignment := NewAssignmentService(repo, cache, logger)
	report := NewReportService(repo, cache, logger)

	return &Service{
		Assignment: assignment,
		Cycle:      NewCycleService(cfg, repo, cache, logger),
		Evaluation: NewEvaluationService(repo, assignment, cache, logger),
		Report:     report,
		Export:     NewExportService(report, logger),
		Roster:     NewRosterService(repo, logger),
	}
}
