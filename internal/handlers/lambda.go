package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/internal/router"
	"prospect-crm-api/pkg/lambda"
	"prospect-crm-api/pkg/server"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// FunctionBuilder builds a resource function over a container
type FunctionBuilder func(c *server.Container) (*router.Function, error)

// ProspectsBuilder builds the prospectos function
func ProspectsBuilder(c *server.Container) (*router.Function, error) {
	return NewProspectFunction(c.Config.APIPrefix, c.ProspectService, c.Logger)
}

// UsersBuilder builds the users function
func UsersBuilder(c *server.Container) (*router.Function, error) {
	return NewUserFunction(c.Config.APIPrefix, c.UserService, c.Logger)
}

// WorkspacesBuilder builds the workspaces function
func WorkspacesBuilder(c *server.Container) (*router.Function, error) {
	return NewWorkspaceFunction(c.Config.APIPrefix, c.WorkspaceService, c.Logger)
}

// LambdaHandler serves one resource function from API Gateway proxy events.
// The function is rebuilt whenever the connection manager hands out a new container.
type LambdaHandler struct {
	connections *lambda.ConnectionManager
	build       FunctionBuilder

	mu        sync.Mutex
	container *server.Container
	fn        *router.Function
}

// NewLambdaHandler creates a handler over a connection manager
func NewLambdaHandler(connections *lambda.ConnectionManager, build FunctionBuilder) *LambdaHandler {
	return &LambdaHandler{
		connections: connections,
		build:       build,
	}
}

// Handle is the aws-lambda-go entry point. Preflight requests are answered
// without touching the database.
func (h *LambdaHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if strings.EqualFold(event.HTTPMethod, http.MethodOptions) {
		return router.Preflight().ToAPIGatewayProxy(), nil
	}

	fn, err := h.function(ctx)
	if err != nil {
		return withCORS(router.Failure(http.StatusInternalServerError, err.Error())), nil
	}

	req, err := lambda.FromAPIGatewayProxy(event)
	if err != nil {
		return withCORS(RenderError(badRequest(fn.Name(), "%v", err))), nil
	}

	resp, err := fn.Handle(ctx, req)
	if err != nil {
		return withCORS(RenderError(err)), nil
	}
	return resp.ToAPIGatewayProxy(), nil
}

func withCORS(resp *lambda.Response) events.APIGatewayProxyResponse {
	router.SetCORSHeaders(resp)
	return resp.ToAPIGatewayProxy()
}

func (h *LambdaHandler) function(ctx context.Context) (*router.Function, error) {
	container, err := h.connections.GetContainer(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.fn != nil && h.container == container {
		return h.fn, nil
	}

	fn, err := h.build(container)
	if err != nil {
		return nil, err
	}
	h.container = container
	h.fn = fn

	sc := config.GetServerlessConfig()
	container.Logger.WithFields(logrus.Fields{
		"resource": fn.Name(),
		"function": sc.FunctionName,
		"region":   sc.Region,
		"stage":    sc.Stage,
	}).Info("Function initialized")
	return fn, nil
}
