package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"CruxBackend/database/postgres"
	photoHandler "CruxBackend/internal/api/photo/handler"
	photoRepository "CruxBackend/internal/api/photo/repository"
	photoService "CruxBackend/internal/api/photo/service"
	routeHandler "CruxBackend/internal/api/route/handler"
	routeRepository "CruxBackend/internal/api/route/repository"
	routeService "CruxBackend/internal/api/route/service"
	"CruxBackend/internal/middleware"
	"CruxBackend/pkg/redis"
	"CruxBackend/pkg/roboflow"
	"CruxBackend/pkg/s3"
	"CruxBackend/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	handlers       []handler
	redisServer    redis.IRedis
	roboflowClient roboflow.ItfRoboflow
	s3Client       s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithRoboflowClient() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the Roboflow client")
		}
		client, err := roboflow.New(s.log)
		if err != nil {
			s.log.Errorf("Failed to initialize Roboflow client: %v", err)
			return fmt.Errorf("failed to create Roboflow client: %w", err)
		}
		s.roboflowClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Photo Domain
	photoRepo := photoRepository.New(s.db, s.log)
	photoServices := photoService.NewPhotosService(s.log, photoRepo, s.s3Client, s.redisServer, s.roboflowClient, s.utils)
	photoHandlers := photoHandler.New(s.log, s.validator, s.middleware, photoServices, s.utils)

	// Route Domain
	routeRepo := routeRepository.New(s.db, s.log)
	routeServices := routeService.NewRoutesService(s.log, routeRepo, photoRepo, s.utils)
	routeHandlers := routeHandler.New(s.log, s.validator, s.middleware, routeServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, photoHandlers, routeHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
