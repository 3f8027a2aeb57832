package services

import (
	"fmt"

	"prospect-crm-api/internal/repositories"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	ProspectService  ProspectService
	UserService      UserService
	WorkspaceService WorkspaceService
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos *repositories.Repositories) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository container cannot be nil")
	}

	return &ServiceContainer{
		ProspectService:  NewProspectService(repos.Prospects),
		UserService:      NewUserService(repos.Users),
		WorkspaceService: NewWorkspaceService(repos.Workspaces),
	}, nil
}
