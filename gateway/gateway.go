package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"academia/apperrors"
	"academia/backend"
	"academia/config"
	"academia/models"
	"academia/services"
)

var (
	resourcesCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "academia_resources_created_total",
			Help: "Total number of resources created through the gateway.",
		},
	)
	documentsMirroredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "academia_archive_documents_mirrored_total",
			Help: "Total number of research documents mirrored to object storage.",
		},
	)
)

func init() {
	prometheus.MustRegister(resourcesCreatedCounter, documentsMirroredCounter)
}

// Server bündelt die Dienste hinter dem lokalen HTTP-Gateway.
type Server struct {
	Config    *config.Config
	Logger    *zap.Logger
	Resources backend.Resources
	Session   *services.Session
	Catalog   *services.Catalog
	Opener    *services.Opener
	Feed      *services.FeedService
	Profile   *services.ProfileService
	// Archive ist nil, wenn kein S3 konfiguriert ist.
	Archive *services.ArchiveService
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.GatewayAPIKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != cfg.GatewayAPIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

// Router baut den gin-Router mit allen Routen.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	api.Use(apiKeyAuthMiddleware(s.Config))
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.setupCatalogRoutes(api)
	s.setupAccountRoutes(api)
	s.setupArchiveRoutes(api)
	return router
}

// HTTPServer liefert den http.Server mit den üblichen Timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.Config.GatewayPort,
		Handler:           s.Router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// errorStatus ordnet einen Dienstfehler einem HTTP-Status zu.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnsupportedKind),
		errors.Is(err, apperrors.ErrUnknownKind):
		return http.StatusBadRequest
	case apperrors.IsAuth(err):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrNoResolvableURL):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func abortWithError(c *gin.Context, err error, fallback string) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusBadGateway {
		msg = apperrors.RemoteMessage(err, fallback)
	}
	c.JSON(status, gin.H{"error": msg})
}

type createResourceRequest struct {
	Kind        string `json:"tipo"`
	Title       string `json:"titulo"`
	Tags        string `json:"tags"`
	Institution string `json:"universidad"`
	DocumentURL string `json:"url_pdf"`
	VideoURL    string `json:"url_video"`
	Duration    string `json:"duracion"`
	Platform    string `json:"plataforma"`
}

func (s *Server) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")

	catalog.GET("", func(c *gin.Context) {
		group := models.GroupResearch
		if q := c.Query("group"); q != "" {
			g, err := models.ParseGroup(q)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			group = g
		}

		loadErr := s.Catalog.Load(c.Request.Context())
		parts := services.Split(s.Catalog.Items())
		visible := parts.Research
		if group == models.GroupMedia {
			visible = parts.Media
		}
		c.JSON(http.StatusOK, gin.H{
			"group":        group,
			"resources":    visible,
			"unrecognized": len(parts.Unrecognized),
			"stale":        loadErr != nil,
		})
	})

	catalog.GET("/:id/open", func(c *gin.Context) {
		id := c.Param("id")
		r, err := s.Catalog.Find(id)
		if errors.Is(err, apperrors.ErrNotFound) {
			if lerr := s.Catalog.Load(c.Request.Context()); lerr == nil {
				r, err = s.Catalog.Find(id)
			}
		}
		if err != nil {
			abortWithError(c, err, "resource not found")
			return
		}

		action, err := s.Opener.Resolve(r)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, action)
			return
		}
		c.JSON(http.StatusOK, action)
	})

	catalog.POST("", func(c *gin.Context) {
		var req createResourceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		form := services.NewResourceForm(s.Resources, s.Session, s.Logger)
		if req.Kind != "" {
			kind, err := models.ParseKind(req.Kind)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := form.SetKind(kind); err != nil {
				abortWithError(c, err, services.NoticeCreateFailed)
				return
			}
		}
		form.Title = req.Title
		form.RawTags = req.Tags
		form.Institution = req.Institution
		form.DocumentURL = req.DocumentURL
		form.VideoURL = req.VideoURL
		form.Duration = req.Duration
		if req.Platform != "" {
			form.Platform = models.Platform(req.Platform)
		}

		created, err := form.Submit(c.Request.Context(), s.Catalog.Load)
		if err != nil {
			abortWithError(c, err, services.NoticeCreateFailed)
			return
		}
		resourcesCreatedCounter.Inc()
		c.JSON(http.StatusCreated, gin.H{"notice": form.Notice, "resource": created.Resource})
	})
}

func (s *Server) setupAccountRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed", func(c *gin.Context) {
		posts, err := s.Feed.Load(c.Request.Context())
		if err != nil {
			abortWithError(c, err, "could not load feed")
			return
		}
		c.JSON(http.StatusOK, posts)
	})

	rg.GET("/profile", func(c *gin.Context) {
		user, _, err := s.Profile.Load(c.Request.Context())
		if err != nil {
			abortWithError(c, err, "could not load profile")
			return
		}
		c.JSON(http.StatusOK, user)
	})
}

func (s *Server) setupArchiveRoutes(rg *gin.RouterGroup) {
	rg.POST("/archive", func(c *gin.Context) {
		if s.Archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive storage not configured"})
			return
		}
		report, err := s.runArchive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	})
}

func (s *Server) runArchive(ctx context.Context) (*services.ArchiveReport, error) {
	report, err := s.Archive.Run(ctx)
	if err != nil {
		return nil, err
	}
	documentsMirroredCounter.Add(float64(report.Mirrored))
	return report, nil
}

// StartArchiveSchedule startet den Cron-Job für das Archiv. Ohne Archiv liefert es nil.
func (s *Server) StartArchiveSchedule() (*cron.Cron, error) {
	if s.Archive == nil {
		return nil, nil
	}
	cronScheduler := cron.New()
	_, err := cronScheduler.AddFunc(s.Config.ArchiveSchedule, func() {
		s.Logger.Info("Running scheduled archive job...")
		report, err := s.runArchive(context.Background())
		if err != nil {
			s.Logger.Error("Archive job failed", zap.Error(err))
			return
		}
		s.Logger.Info("Archive job completed",
			zap.String("snapshot", report.SnapshotKey),
			zap.Int("mirrored", report.Mirrored))
	})
	if err != nil {
		return nil, err
	}
	cronScheduler.Start()
	return cronScheduler, nil
}
