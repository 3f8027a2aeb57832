package handlers

import (
	"fmt"
	"strings"

	"prospect-crm-api/internal/router"
	"prospect-crm-api/internal/services"

	"github.com/sirupsen/logrus"
)

// Resource family names; each is deployed as its own function under the API prefix
const (
	ProspectsResource  = "prospectos"
	UsersResource      = "users"
	WorkspacesResource = "workspaces"
)

// ResourcePath joins the API prefix and a resource name
func ResourcePath(apiPrefix, resource string) string {
	return strings.TrimRight(apiPrefix, "/") + "/" + resource
}

func newFunction(apiPrefix, resource string, routes []router.Route, logger *logrus.Logger) (*router.Function, error) {
	table, err := router.NewTable(ResourcePath(apiPrefix, resource), routes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s routes: %w", resource, err)
	}
	return router.NewFunction(resource, table,
		router.WithLogger(logger),
		router.WithErrorHandler(RenderError),
	), nil
}

// NewProspectFunction builds the prospectos function
func NewProspectFunction(apiPrefix string, prospectService services.ProspectService, logger *logrus.Logger) (*router.Function, error) {
	return newFunction(apiPrefix, ProspectsResource, NewProspectHandler(prospectService).Routes(), logger)
}

// NewUserFunction builds the users function
func NewUserFunction(apiPrefix string, userService services.UserService, logger *logrus.Logger) (*router.Function, error) {
	return newFunction(apiPrefix, UsersResource, NewUserHandler(userService).Routes(), logger)
}

// NewWorkspaceFunction builds the workspaces function
func NewWorkspaceFunction(apiPrefix string, workspaceService services.WorkspaceService, logger *logrus.Logger) (*router.Function, error) {
	return newFunction(apiPrefix, WorkspacesResource, NewWorkspaceHandler(workspaceService).Routes(), logger)
}

// NewFunctions builds every resource function
func NewFunctions(apiPrefix string, sc services.ServiceContainer, logger *logrus.Logger) ([]*router.Function, error) {
	prospects, err := NewProspectFunction(apiPrefix, sc.ProspectService, logger)
	if err != nil {
		return nil, err
	}
	users, err := NewUserFunction(apiPrefix, sc.UserService, logger)
	if err != nil {
		return nil, err
	}
	workspaces, err := NewWorkspaceFunction(apiPrefix, sc.WorkspaceService, logger)
	if err != nil {
		return nil, err
	}
	return []*router.Function{prospects, users, workspaces}, nil
}
