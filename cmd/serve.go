package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agentedigitalapi/bootstrap"
	"agentedigitalapi/config"
	"agentedigitalapi/controllers"
	_ "agentedigitalapi/docs"
	"agentedigitalapi/pkg/events"
	"agentedigitalapi/pkg/logger"
	"agentedigitalapi/services/deadline"
	"agentedigitalapi/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestIDMiddleware(), utils.LoggerMiddleware())

	api := router.Group("/api")
	{
		admin := api.Group("/admin")
		{
			controllers.RegisterTenantRoutes(admin)
			controllers.RegisterCompanyRoutes(admin)
			controllers.RegisterComplianceRoutes(admin)
			controllers.RegisterIncidentAdminRoutes(admin)
			controllers.RegisterTaxonomyRoutes(admin)
		}
		controllers.RegisterIncidentRoutes(api)
		controllers.RegisterDynamicIncidentRoutes(api)
		controllers.RegisterSnapshotRoutes(api)
		controllers.RegisterReportRoutes(api)
		controllers.RegisterHealthRoutes(api)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

func runServe() error {
	if err := setup(); err != nil {
		return err
	}
	if config.Cfg.DBAutoMigrate {
		if err := config.AutoMigrate(config.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if err := bootstrap.LoadData(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	publisher := events.Setup(config.Cfg.NATSURL, config.Cfg.NATSSubjectPrefix)
	monitor := deadline.GetMonitor()

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.Cfg.Port,
		Handler: NewRouter(),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Infof("Received shutdown signal, stopping deadline monitor...")
		monitor.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
		publisher.Close()
		logger.Infof("Application shutdown complete")
	}()

	logger.Infof("Starting server at port %s", config.Cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
