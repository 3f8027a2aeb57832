package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"prospect-crm-api/pkg/lambda"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testFunction(t *testing.T, opts ...Option) *Function {
	t.Helper()
	table, err := NewTable("/api/neon/things",
		Route{Method: "GET", Pattern: ":id", Intent: ByID, Handler: func(ctx context.Context, req *lambda.Request, params Params) (*lambda.Response, error) {
			if params.Get("id") == "boom" {
				return nil, errors.New("database unavailable")
			}
			return lambda.JSON(http.StatusOK, map[string]string{"id": params.Get("id")})
		}},
	)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return NewFunction("things", table, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func decode(t *testing.T, resp *lambda.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", resp.Body, err)
	}
	return body
}

func TestFunction_Handle(t *testing.T) {
	f := testFunction(t)
	ctx := context.Background()

	resp, err := f.Handle(ctx, &lambda.Request{Method: "GET", Path: "/api/neon/things/t1"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK || decode(t, resp)["id"] != "t1" {
		t.Errorf("GET /t1 = %d %s", resp.StatusCode, resp.Body)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Error("missing CORS origin header")
	}
	if resp.Headers["Access-Control-Allow-Methods"] != "GET, POST, PATCH, DELETE, OPTIONS" {
		t.Errorf("Allow-Methods = %q", resp.Headers["Access-Control-Allow-Methods"])
	}
	if resp.Headers[RequestIDHeader] == "" {
		t.Error("missing generated request id")
	}
}

func TestFunction_Options(t *testing.T) {
	f := testFunction(t)

	resp, _ := f.Handle(context.Background(), &lambda.Request{
		Method:  "OPTIONS",
		Path:    "/api/neon/things/anything/at/all",
		Headers: map[string]string{"x-request-id": "req-1"},
	})
	if resp.StatusCode != http.StatusOK || len(resp.Body) != 0 {
		t.Errorf("OPTIONS = %d %q, want 200 with empty body", resp.StatusCode, resp.Body)
	}
	if resp.Headers[RequestIDHeader] != "req-1" {
		t.Errorf("request id = %q, want propagated req-1", resp.Headers[RequestIDHeader])
	}
	if resp.Headers["Access-Control-Allow-Headers"] != "Content-Type, Authorization" {
		t.Errorf("Allow-Headers = %q", resp.Headers["Access-Control-Allow-Headers"])
	}
}

func TestFunction_NotFound(t *testing.T) {
	f := testFunction(t)

	resp, _ := f.Handle(context.Background(), &lambda.Request{Method: "DELETE", Path: "/api/neon/things/t1"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	body := decode(t, resp)
	if body["success"] != false || body["error"] == "" {
		t.Errorf("body = %v", body)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Error("404 responses must carry CORS headers")
	}
}

func TestFunction_Errors(t *testing.T) {
	resp, _ := testFunction(t).Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/api/neon/things/boom"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	if decode(t, resp)["error"] != "database unavailable" {
		t.Errorf("body = %s", resp.Body)
	}

	custom := testFunction(t, WithErrorHandler(func(err error) *lambda.Response {
		return Failure(http.StatusTeapot, "custom: "+err.Error())
	}))
	resp, _ = custom.Handle(context.Background(), &lambda.Request{Method: "GET", Path: "/api/neon/things/boom"})
	if resp.StatusCode != http.StatusTeapot || decode(t, resp)["error"] != "custom: database unavailable" {
		t.Errorf("custom handler = %d %s", resp.StatusCode, resp.Body)
	}
}
