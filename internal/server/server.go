package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lemonspace/internal/auth"
	"lemonspace/internal/board"
	"lemonspace/internal/cache"
	"lemonspace/internal/canvas"
	"lemonspace/internal/config"
	"lemonspace/internal/database"
	"lemonspace/internal/handler"
	"lemonspace/internal/middleware"
	"lemonspace/internal/repository"
	"lemonspace/internal/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Mongo  *store.MongoStore
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	s := &Server{Config: cfg}

	if cfg.NeedsPostgres() {
		db, err := database.Open(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.DBMigrate {
			if err := database.Migrate(db); err != nil {
				return nil, err
			}
		}
		s.DB = db
	}

	docs, err := s.documentStore()
	if err != nil {
		return nil, err
	}
	accounts, tokens := s.accountAPI()

	// Board access, cached queries and one canvas per signed-in user
	boards := board.NewQueries(
		board.NewService(docs, cfg.StoreDatabaseID, cfg.StoreCollectionID),
		cache.NewClient(),
	)
	sessions := canvas.NewSessions(boards, log.Default(), cfg.CanvasIdleTTL)

	boardHandler := handler.NewBoardHandler(boards)
	canvasHandler := handler.NewCanvasHandler(sessions)

	r := gin.Default()

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if tokens != nil {
		accountHandler := handler.NewAccountHandler(repository.NewUserRepository(s.DB), tokens)
		r.POST("/account", accountHandler.Register)
		r.POST("/account/sessions", accountHandler.Login)
	}

	// Protected routes - require a session
	authorized := r.Group("/")
	authorized.Use(middleware.RequireSession(accounts, log.Default()))
	{
		authorized.GET("/account", handler.Me)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PATCH("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.PUT("/boards/:id/password", boardHandler.SetPassword)
		authorized.POST("/boards/:id/publish", boardHandler.Publish)

		// Canvas routes
		authorized.GET("/canvas", canvasHandler.Get)
		authorized.PUT("/canvas/board", canvasHandler.LoadBoard)
		authorized.POST("/canvas/blocks", canvasHandler.Drop)
		authorized.PATCH("/canvas/blocks/:id", canvasHandler.UpdateBlock)
		authorized.DELETE("/canvas/blocks/:id", canvasHandler.DeleteBlock)
		authorized.PUT("/canvas/selection", canvasHandler.SelectBlock)
		authorized.PUT("/canvas/drop-area", canvasHandler.SetDropArea)
		authorized.POST("/canvas/reset", canvasHandler.Reset)
		authorized.GET("/canvas/notifications", canvasHandler.Notifications)
	}

	s.Engine = r
	return s, nil
}

// documentStore picks the backend that persists boards.
func (s *Server) documentStore() (store.DocumentStore, error) {
	cfg := s.Config
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		log.Println("📦 Boards are stored in Postgres")
		return repository.NewDocumentRepository(s.DB), nil
	case config.BackendMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		m, err := store.NewMongoStore(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("❌ failed to connect to MongoDB: %w", err)
		}
		s.Mongo = m
		log.Println("📦 Boards are stored in MongoDB")
		return m, nil
	case config.BackendREST:
		log.Printf("📦 Boards are stored at %s", cfg.StoreEndpoint)
		return store.NewRESTStore(cfg.StoreEndpoint, cfg.StoreProjectID, cfg.StoreAPIKey), nil
	default:
		return nil, fmt.Errorf("❌ unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// accountAPI picks who answers session checks. The token manager is nil unless sessions
// are issued locally.
func (s *Server) accountAPI() (auth.AccountAPI, *auth.TokenManager) {
	cfg := s.Config
	if cfg.SessionBackend == config.SessionLocal {
		tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
		return auth.NewLocalAccounts(tokens, repository.NewUserRepository(s.DB)), tokens
	}
	return store.NewRESTStore(cfg.StoreEndpoint, cfg.StoreProjectID, cfg.StoreAPIKey), nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}
	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			log.Printf("⚠️  MongoDB disconnect: %s", err)
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	log.Println("✅ Server exited properly")
}
