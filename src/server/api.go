package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"aapl-elt/src/logger"
	"aapl-elt/src/models"
	"aapl-elt/src/pipeline"
	"aapl-elt/src/storage"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

// APIServer serves read-only warehouse queries and the synchronous
// pipeline-run trigger. Each request opens its own read-only connection so
// queries never block a concurrent loader commit.
type APIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	Pipeline *pipeline.Orchestrator
	runMutex sync.Mutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, log *logger.Logger, orch *pipeline.Orchestrator) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:   cfg,
		Logger:   log,
		engine:   gin.Default(),
		Pipeline: orch,
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	s.engine.GET("/api/v1/stock_summary", s.getStockSummary)
	s.engine.GET("/api/v1/sentiment_vs_price", s.getSentimentVsPrice)
	s.engine.GET("/api/v1/daily_analysis", s.getDailyAnalysis)
	s.engine.POST("/api/v1/pipeline/run", s.postPipelineRun)
	s.engine.GET("/api/health", s.getHealth)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

// getStockSummary returns the last 7 days of stock data.
func (s *APIServer) getStockSummary(c *gin.Context) {
	wh, err := storage.NewReadOnlyWarehouse(s.Config, s.Logger)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer wh.Close()

	records, err := wh.RecentSummary(7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(records))
	for _, r := range records {
		result = append(result, gin.H{
			"date":        r.Date.Format(models.DateLayout),
			"close_price": r.ClosePrice,
			"volume":      r.Volume,
		})
	}
	c.JSON(http.StatusOK, result)
}

// -----------------------------------------------------------------------------

// getSentimentVsPrice returns joined data for correlation analysis.
func (s *APIServer) getSentimentVsPrice(c *gin.Context) {
	wh, err := storage.NewReadOnlyWarehouse(s.Config, s.Logger)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer wh.Close()

	records, err := wh.SelectAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(records))
	for _, r := range records {
		result = append(result, gin.H{
			"date":            r.Date.Format(models.DateLayout),
			"close_price":     r.ClosePrice,
			"daily_sentiment": r.DailySentiment,
		})
	}
	c.JSON(http.StatusOK, result)
}

// -----------------------------------------------------------------------------

// getDailyAnalysis returns every warehouse row with all four columns.
func (s *APIServer) getDailyAnalysis(c *gin.Context) {
	wh, err := storage.NewReadOnlyWarehouse(s.Config, s.Logger)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer wh.Close()

	records, err := wh.SelectAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, 0, len(records))
	for _, r := range records {
		result = append(result, gin.H{
			"date":            r.Date.Format(models.DateLayout),
			"close_price":     r.ClosePrice,
			"volume":          r.Volume,
			"daily_sentiment": r.DailySentiment,
		})
	}
	c.JSON(http.StatusOK, result)
}

// -----------------------------------------------------------------------------

// postPipelineRun runs the full pipeline synchronously. Concurrent triggers
// are serialized: the pipeline is the sole writer to both stores during a run.
func (s *APIServer) postPipelineRun(c *gin.Context) {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	report := s.Pipeline.Run(c.Request.Context())
	if !report.OK {
		c.JSON(http.StatusInternalServerError, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	wh, err := storage.NewReadOnlyWarehouse(s.Config, s.Logger)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	defer wh.Close()

	count, err := wh.CountRows()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"warehouse_rows": count,
	})
}
