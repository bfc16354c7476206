package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/synergo-api/api/swagger"
	"github.com/noah-isme/synergo-api/internal/handler"
	"github.com/noah-isme/synergo-api/internal/middleware"
	"github.com/noah-isme/synergo-api/pkg/config"
	"github.com/noah-isme/synergo-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/synergo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/synergo-api/pkg/middleware/requestid"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logr, err := loadConfig()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		a, err := newApp(cfg, logr)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		a.start(ctx)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           newRouter(a),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("db_driver", cfg.Database.Driver))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logr.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newRouter(a *app) *gin.Engine {
	if a.cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(a.logger))
	r.Use(corsmiddleware.New(a.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(a.metrics, a.db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static("/resources", a.cfg.Uploads.ResourcesDir)
	if a.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	mediaHandler := handler.NewMediaHandler(a.media)
	nomenclatureHandler := handler.NewNomenclatureHandler(a.nomenclatures, a.exports)
	worklistHandler := handler.NewWorklistHandler(a.worklists)
	quizHandler := handler.NewQuizHandler(a.quiz, a.exports)
	statisticsHandler := handler.NewStatisticsHandler(a.statistics)
	databaseHandler := handler.NewDatabaseHandler(a.database)
	uploadHandler := handler.NewUploadHandler(a.uploads)

	api := r.Group(a.cfg.APIPrefix)
	{
		media := api.Group("/media")
		media.GET("", mediaHandler.List)
		media.POST("", mediaHandler.Create)
		media.GET("/search", mediaHandler.Search)
		media.GET("/categories", mediaHandler.Categories)
		media.GET("/next-number", mediaHandler.NextNumber)
		media.GET("/:id", mediaHandler.Get)
		media.PUT("/:id", mediaHandler.Update)
		media.DELETE("/:id", mediaHandler.Delete)

		noms := api.Group("/nomenclatures")
		noms.GET("", nomenclatureHandler.List)
		noms.POST("", nomenclatureHandler.Create)
		noms.POST("/sync", nomenclatureHandler.Sync)
		noms.GET("/export", nomenclatureHandler.Export)
		noms.GET("/:id", nomenclatureHandler.Get)
		noms.PUT("/:id", nomenclatureHandler.Update)
		noms.DELETE("/:id", nomenclatureHandler.Delete)

		lists := api.Group("/lists/:kind")
		lists.GET("", worklistHandler.List)
		lists.POST("", worklistHandler.Add)
		lists.DELETE("", worklistHandler.Clear)
		lists.POST("/bulk", worklistHandler.BulkAdd)
		lists.DELETE("/:mediaId", worklistHandler.Remove)

		quizGroup := api.Group("/quiz")
		quizGroup.GET("/capacity", quizHandler.Capacity)
		quizGroup.GET("/preview", quizHandler.Preview)
		quizGroup.POST("/sessions", quizHandler.Start)
		quizGroup.GET("/sessions/:id", quizHandler.Get)
		quizGroup.DELETE("/sessions/:id", quizHandler.Abandon)
		quizGroup.POST("/sessions/:id/answer", quizHandler.Answer)
		quizGroup.POST("/sessions/:id/skip", quizHandler.Skip)
		quizGroup.POST("/sessions/:id/advance", quizHandler.Advance)
		quizGroup.GET("/sessions/:id/result", quizHandler.Result)

		api.GET("/statistics", statisticsHandler.Get)

		db := api.Group("/database")
		db.GET("", databaseHandler.Export)
		db.POST("/import", databaseHandler.Import)
		db.POST("/reset", databaseHandler.Reset)
		db.POST("/backup", databaseHandler.Backup)
		db.GET("/backups", databaseHandler.ListBackups)
		db.GET("/backups/download", databaseHandler.Download)

		api.POST("/upload", uploadHandler.Upload)
		api.GET("/upload/files", uploadHandler.ListFiles)

		api.GET("/metrics/summary", metricsHandler.Summary)
	}
	return r
}
