package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gabzinnn/av-continua-sub001/config"
	"github.com/gabzinnn/av-continua-sub001/internal/api/handler"
	"github.com/gabzinnn/av-continua-sub001/internal/api/middleware"
	"github.com/gabzinnn/av-continua-sub001/pkg/jwt"
)

// Setup builds the Gin engine with every route of the service.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 (everything requires identity) ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		avaliacoes := v1.Group("/avaliacoes")
		{
			avaliacoes.GET("/overview", h.Avaliacao.GetOverview)
			avaliacoes.GET("/resposta", h.Avaliacao.GetResposta)
			avaliacoes.POST("/resposta", h.Avaliacao.SubmitResposta)
			avaliacoes.GET("/recebidas", h.Avaliacao.GetRecebidas)
			avaliacoes.POST("/feedback", h.Avaliacao.SubmitFeedback)
			avaliacoes.GET("/historico", h.Avaliacao.GetHistorico)
			avaliacoes.GET("/preview", middleware.CoordenadorOnly(), h.Avaliacao.GetPreview)
		}

		ciclosAvaliacao := v1.Group("/ciclos-avaliacao")
		{
			ciclosAvaliacao.POST("", middleware.CoordenadorOnly(), h.Ciclo.Create)
			ciclosAvaliacao.POST("/:id/finalizar", middleware.CoordenadorOnly(), h.Ciclo.Finalizar)
			ciclosAvaliacao.GET("/ativo", h.Ciclo.Ativo)
			ciclosAvaliacao.GET("", h.Ciclo.List)
			ciclosAvaliacao.GET("/progresso", h.Ciclo.Progresso)
		}

		ciclos := v1.Group("/ciclos")
		{
			ciclos.POST("", middleware.CoordenadorOnly(), h.Ciclo.CreateCiclo)
			ciclos.GET("", h.Ciclo.ListCiclos)
		}

		relatorios := v1.Group("/relatorios", middleware.CoordenadorOnly())
		{
			relatorios.GET("/evolucao", h.Relatorio.GetEvolucao)
			relatorios.GET("/ciclos-avaliacao/:id", h.Relatorio.GetMediasCiclo)
			relatorios.GET("/:cicloId", h.Relatorio.GetRelatorio)
			relatorios.GET("/:cicloId/export", h.Relatorio.Export)
		}

		v1.GET("/membros", h.Roster.ListMembros)
		v1.GET("/areas", h.Roster.ListAreas)
	}

	return r
}
