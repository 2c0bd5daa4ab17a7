package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/godmath04/newsfront/internal/model"
)

// Server bundles the emulator's router and its collaborators. One server
// serves both the auth-service and article-service surfaces; the client
// simply points both base URLs at it.
type Server struct {
	store   *Store
	issuer  *TokenIssuer
	logger  *logrus.Logger
	metrics *Metrics
	engine  *gin.Engine
}

// NewServer wires the emulator. secret signs the issued credentials.
func NewServer(store *Store, secret string, logger *logrus.Logger) *Server {
	s := &Server{
		store:   store,
		issuer:  NewTokenIssuer(secret),
		logger:  logger,
		metrics: NewMetrics(),
	}
	s.engine = s.buildRouter()
	return s
}

// Handler returns the emulator as an http.Handler, for mounting under
// httptest in integration tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware(s.logger, s.metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", s.metrics.Handler())

	// Auth service surface.
	router.POST("/auth/login", s.login)
	authUsers := router.Group("/auth", AuthMiddleware(s.issuer))
	{
		authUsers.GET("/users/:id", s.getUser)
	}
	admin := router.Group("/admin", AuthMiddleware(s.issuer), RequireRole(model.RoleAdministrator))
	{
		admin.GET("/users", s.listUsers)
		admin.POST("/users", s.createUser)
		admin.PUT("/users/:id", s.updateUser)
		admin.DELETE("/users/:id", s.deleteUser)
	}

	// Article service surface.
	v1 := router.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			// Published and single-article reads are public.
			articles.GET("", s.listPublished)
			articles.GET("/:id", s.getArticle)

			authed := articles.Group("", AuthMiddleware(s.issuer))
			{
				authed.GET("/pending", s.listPending)
				authed.GET("/author/:id", s.listByAuthor)
				authed.POST("", s.createArticle)
				authed.PUT("/:id", s.updateArticle)
				authed.DELETE("/:id", s.deleteArticle)
				authed.PUT("/:id/send-to-review", s.sendToReview)
			}
		}

		approvals := v1.Group("/approvals", AuthMiddleware(s.issuer))
		{
			approvals.GET("/article/:id", s.approvalHistory)
			approvals.POST("", s.processApproval)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "ruta no encontrada"})
	})
	return router
}
