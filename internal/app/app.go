package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/oakmill/taskman/internal/config"
	"github.com/oakmill/taskman/internal/db"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/oakmill/taskman/internal/service"
	"github.com/oakmill/taskman/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	AuthService   *service.AuthService
	UserService   *service.UserService
	TaskService   *service.TaskService
	AvatarService *service.AvatarService
	EmailService  *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	taskRepository := repository.NewTaskRepository(database)

	// Storage
	avatarStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.BcryptCost,
	)
	avatarService := service.NewAvatarService(userRepository, avatarStorage)
	userService := service.NewUserService(userRepository, authService, avatarService, emailService)
	taskService := service.NewTaskService(taskRepository)

	return &App{
		Cfg:           cfg,
		DB:            database,
		AuthService:   authService,
		UserService:   userService,
		TaskService:   taskService,
		AvatarService: avatarService,
		EmailService:  emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
