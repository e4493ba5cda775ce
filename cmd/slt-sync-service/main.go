package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gitlab.com/skao/slt_backend/config"
	"gitlab.com/skao/slt_backend/logsync"
	"gitlab.com/skao/slt_backend/shiftdb"
	"gitlab.com/skao/slt_backend/utils"
)

func main() {
	logger := config.GetLogger()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(correlationMiddleware())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}
	// The listener must be serving before the store connects so deploys pass
	// their health checks while the database is still warming up.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("health listener failed")
		}
	}()
	logger.WithField("port", port).Info("health listener up")

	config.ConnectDatabaseWithRetry()

	store := shiftdb.NewPostgresDataAccess(config.GetDB(), logger)
	crud := shiftdb.NewDBCrud(store)
	oda := logsync.NewPostgresODARepository(store, logger)
	notifier := logsync.NewPubSubNotifier(logger)
	updater := logsync.NewShiftLogUpdater(crud, oda, notifier, logger)
	updater.Start(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	updater.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("listener shutdown incomplete")
	}
}

// correlationMiddleware propagates the caller's correlation id, minting one
// when the header is absent.
func correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.GetHeader("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), correlationId))
		c.Writer.Header().Set("X-Correlation-Id", correlationId)
		c.Next()
	}
}
