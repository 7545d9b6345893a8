package handler

import "github.com/gabzinnn/av-continua-sub001/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Avaliacao *AvaliacaoHandler
	Ciclo     *CicloHandler
	Relatorio *RelatorioHandler
	Roster    *RosterHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Avaliacao: NewAvaliacaoHandler(svc.Assignment, svc.Evaluation, svc.Report),
		Ciclo:     NewCicloHandler(svc.Cycle),
		Relatorio: NewRelatorioHandler(svc.Report, svc.Export),
		Roster:    NewRosterHandler(svc.Roster),
	}
}
