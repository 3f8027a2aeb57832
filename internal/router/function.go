package router

import (
	"context"
	"net/http"
	"time"

	"prospect-crm-api/pkg/lambda"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in and out of a function
const RequestIDHeader = "X-Request-ID"

// CORS headers attached to every function response
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// ErrorHandler turns a handler error into a response
type ErrorHandler func(err error) *lambda.Response

// Function is one deployable resource family: a route table plus the request
// cycle around it.
type Function struct {
	name    string
	table   *Table
	logger  *logrus.Logger
	onError ErrorHandler
}

// Option configures a Function
type Option func(*Function)

// WithLogger sets the logger used for access logs
func WithLogger(logger *logrus.Logger) Option {
	return func(f *Function) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithErrorHandler replaces the default 500 error handler
func WithErrorHandler(h ErrorHandler) Option {
	return func(f *Function) {
		if h != nil {
			f.onError = h
		}
	}
}

// NewFunction creates a function serving the given table
func NewFunction(name string, table *Table, opts ...Option) *Function {
	f := &Function{
		name:    name,
		table:   table,
		logger:  logrus.StandardLogger(),
		onError: internalError,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the resource family name
func (f *Function) Name() string {
	return f.name
}

// Table returns the route table
func (f *Function) Table() *Table {
	return f.table
}

// Handle runs one request through the function. Handler errors are rendered
// by the error handler, so the returned error is always nil.
func (f *Function) Handle(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	start := time.Now()

	requestID := req.Header(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var (
		resp  *lambda.Response
		match Match
	)

	if req.Method == http.MethodOptions {
		resp = Preflight()
	} else {
		match = f.table.Match(req.Method, req.Path, req.QueryParams)
		resp = f.serve(ctx, req, match)
	}

	SetCORSHeaders(resp)
	resp.SetHeader(RequestIDHeader, requestID)

	fields := logrus.Fields{
		"resource":   f.name,
		"method":     req.Method,
		"path":       req.Path,
		"route":      match.Intent.String(),
		"status":     resp.StatusCode,
		"latency_ms": float64(time.Since(start).Nanoseconds()) / 1000000,
		"request_id": requestID,
	}
	if match.Route != nil && match.Route.Name != "" {
		fields["route"] = match.Route.Name
	}

	switch {
	case resp.StatusCode >= 500:
		f.logger.WithFields(fields).Error("Request failed")
	case resp.StatusCode >= 400:
		f.logger.WithFields(fields).Warn("Client error")
	default:
		f.logger.WithFields(fields).Info("Request completed")
	}

	return resp, nil
}

func (f *Function) serve(ctx context.Context, req *lambda.Request, match Match) *lambda.Response {
	if match.Route == nil {
		return notFound()
	}

	resp, err := match.Route.Handler(ctx, req, match.Params)
	if err != nil {
		return f.onError(err)
	}
	if resp == nil {
		return lambda.NewResponse(http.StatusNoContent, nil)
	}
	return resp
}

// SetCORSHeaders adds the CORS headers carried by every function response
func SetCORSHeaders(resp *lambda.Response) {
	for k, v := range corsHeaders {
		resp.SetHeader(k, v)
	}
}

// Preflight answers an OPTIONS request: 200, empty body, CORS headers
func Preflight() *lambda.Response {
	resp := lambda.NewResponse(http.StatusOK, nil)
	SetCORSHeaders(resp)
	return resp
}

// Failure renders the error envelope
func Failure(status int, message string) *lambda.Response {
	resp, err := lambda.JSON(status, map[string]any{
		"success": false,
		"error":   message,
	})
	if err != nil {
		resp = lambda.NewResponse(http.StatusInternalServerError, nil)
	}
	return resp
}

func notFound() *lambda.Response {
	return Failure(http.StatusNotFound, "Route not found")
}

func internalError(err error) *lambda.Response {
	return Failure(http.StatusInternalServerError, err.Error())
}
