package server

import (
	"context"
	"database/sql"
	"fmt"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/internal/database"
	"prospect-crm-api/internal/repositories"
	"prospect-crm-api/internal/repositories/sqlstore"
	"prospect-crm-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *logrus.Logger
	ProspectService  services.ProspectService
	UserService      services.UserService
	WorkspaceService services.WorkspaceService

	// Internal dependencies
	db          *sql.DB
	dialect     database.Dialect
	connections *database.ConnectionManager
}

// NewContainer connects to the configured database and wires every service
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := config.NewLogger(cfg.Logging)

	connections := database.NewConnectionManager(cfg.Database, logger)
	if err := connections.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	container, err := NewContainerWithDB(cfg, connections.GetDB(), connections.Dialect(), logger)
	if err != nil {
		connections.Close()
		return nil, err
	}
	container.connections = connections

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"mode":        config.GetDeploymentMode(),
		"driver":      connections.Dialect().Name(),
	}).Info("Container initialized")

	return container, nil
}

// NewContainerWithDB wires the services over an already open database
func NewContainerWithDB(cfg *config.Config, db *sql.DB, dialect database.Dialect, logger *logrus.Logger) (*Container, error) {
	if db == nil || dialect == nil {
		return nil, fmt.Errorf("database and dialect are required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	repos := sqlstore.NewRepositories(db, dialect, sqlstore.Options{
		Logger: logger,
		Query:  repositories.DefaultQueryConfig(),
	})

	serviceContainer, err := services.NewServiceContainer(repos)
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	return &Container{
		Config:           cfg,
		Logger:           logger,
		ProspectService:  serviceContainer.ProspectService,
		UserService:      serviceContainer.UserService,
		WorkspaceService: serviceContainer.WorkspaceService,
		db:               db,
		dialect:          dialect,
	}, nil
}

// DB returns the underlying connection pool
func (c *Container) DB() *sql.DB {
	return c.db
}

// Dialect returns the SQL dialect of the connection pool
func (c *Container) Dialect() database.Dialect {
	return c.dialect
}

// HealthCheck pings the database
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database connection not established")
	}
	return c.db.PingContext(ctx)
}

// Close releases the database connection when the container opened it
func (c *Container) Close() error {
	if c.connections != nil {
		if err := c.connections.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}

// Services returns the services as a value container
func (c *Container) Services() services.ServiceContainer {
	return services.ServiceContainer{
		ProspectService:  c.ProspectService,
		UserService:      c.UserService,
		WorkspaceService: c.WorkspaceService,
	}
}
