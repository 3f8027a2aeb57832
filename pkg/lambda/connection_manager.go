package lambda

import (
	"context"
	"sync"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/pkg/server"
)

// ConnectionManager keeps one dependency container per warm function instance
type ConnectionManager struct {
	container *server.Container
	mu        sync.Mutex
	config    *config.Config
	newFunc   func(context.Context, *config.Config) (*server.Container, error)
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = NewConnectionManager(nil)
	})
	return globalConnectionManager
}

// NewConnectionManager creates a connection manager. A nil config is loaded from
// the environment on first use.
func NewConnectionManager(cfg *config.Config) *ConnectionManager {
	return &ConnectionManager{
		config:  cfg,
		newFunc: server.NewContainer,
	}
}

// GetContainer returns the container, creating it on first use.
// A failed initialization is retried by the next call rather than cached.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		return cm.container, nil
	}

	if cm.config == nil {
		cfg, err := config.GetOptimizedConfig()
		if err != nil {
			return nil, err
		}
		cm.config = cfg
	}

	container, err := cm.newFunc(ctx, cm.config)
	if err != nil {
		return nil, err
	}

	cm.container = container
	return container, nil
}

// Cleanup closes the container and forgets it
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}

	err := cm.container.Close()
	cm.container = nil
	return err
}
