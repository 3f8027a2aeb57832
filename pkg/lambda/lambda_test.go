package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prospect-crm-api/internal/config"
	"prospect-crm-api/pkg/server"

	"github.com/aws/aws-lambda-go/events"
)

func TestFromAPIGatewayProxy(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:            "POST",
		Path:                  "/api/neon/prospectos/batch",
		Headers:               map[string]string{"Content-Type": "application/json"},
		MultiValueHeaders:     map[string][]string{"X-Forwarded-For": {"1.2.3.4", "5.6.7.8"}},
		QueryStringParameters: map[string]string{"limit": "5"},
		MultiValueQueryStringParameters: map[string][]string{
			"limit":   {"9"},
			"user_id": {"u1", "u2"},
		},
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"records":[]}`)),
		IsBase64Encoded: true,
	}

	req, err := FromAPIGatewayProxy(event)
	if err != nil {
		t.Fatalf("FromAPIGatewayProxy() error = %v", err)
	}

	if req.Method != "POST" || req.Path != "/api/neon/prospectos/batch" {
		t.Errorf("method/path = %s %s", req.Method, req.Path)
	}
	if string(req.Body) != `{"records":[]}` {
		t.Errorf("Body = %s", req.Body)
	}
	if req.Query("limit") != "5" {
		t.Errorf("limit = %q, single value should win", req.Query("limit"))
	}
	if req.Query("user_id") != "u1" {
		t.Errorf("user_id = %q", req.Query("user_id"))
	}
	if req.Header("content-type") != "application/json" {
		t.Errorf("Header() should be case-insensitive")
	}
	if req.Header("X-Forwarded-For") != "1.2.3.4" {
		t.Errorf("X-Forwarded-For = %q", req.Header("X-Forwarded-For"))
	}

	event.Body = "%%%"
	if _, err := FromAPIGatewayProxy(event); err == nil {
		t.Error("expected error for invalid base64 body")
	}
}

func TestResponseToAPIGatewayProxy(t *testing.T) {
	resp, err := JSON(http.StatusCreated, map[string]any{"success": true})
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	out := resp.ToAPIGatewayProxy()
	if out.StatusCode != 201 || out.Body != `{"success":true}` {
		t.Errorf("proxy response = %+v", out)
	}
	if out.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", out.Headers["Content-Type"])
	}
}

func TestHTTPConversion(t *testing.T) {
	httpReq := httptest.NewRequest("PATCH", "/api/neon/users/email/ana%40example.com?x=1", strings.NewReader(`{"a":1}`))
	httpReq.Header.Set("Authorization", "Bearer t")

	req, err := FromHTTPRequest(httpReq)
	if err != nil {
		t.Fatalf("FromHTTPRequest() error = %v", err)
	}
	if req.Path != "/api/neon/users/email/ana%40example.com" {
		t.Errorf("Path = %q, want escaped path", req.Path)
	}
	if req.Query("x") != "1" || req.Header("Authorization") != "Bearer t" || string(req.Body) != `{"a":1}` {
		t.Errorf("request = %+v", req)
	}

	rec := httptest.NewRecorder()
	resp := NewResponse(http.StatusOK, nil)
	resp.SetHeader("Access-Control-Allow-Origin", "*")
	if err := resp.Write(rec); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if rec.Code != 200 || len(body) != 0 || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("recorded %d %q %v", rec.Code, body, rec.Header())
	}
}

func TestConnectionManager_RetriesFailedInit(t *testing.T) {
	calls := 0
	cm := NewConnectionManager(&config.Config{})
	cm.newFunc = func(ctx context.Context, cfg *config.Config) (*server.Container, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("neon unavailable")
		}
		return &server.Container{Config: cfg}, nil
	}

	ctx := context.Background()
	if _, err := cm.GetContainer(ctx); err == nil {
		t.Fatal("expected first GetContainer() to fail")
	}
	first, err := cm.GetContainer(ctx)
	if err != nil {
		t.Fatalf("second GetContainer() error = %v", err)
	}
	second, err := cm.GetContainer(ctx)
	if err != nil || second != first {
		t.Errorf("container should be reused, got %p and %p (%v)", first, second, err)
	}
	if calls != 2 {
		t.Errorf("newFunc called %d times, want 2", calls)
	}
	if err := cm.Cleanup(); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}
	third, err := cm.GetContainer(ctx)
	if err != nil || third == first {
		t.Errorf("Cleanup() should drop the container, got %p again (%v)", third, err)
	}
	if calls != 3 {
		t.Errorf("newFunc called %d times after Cleanup(), want 3", calls)
	}
}
