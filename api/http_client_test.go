package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClient_Get_Success(t *testing.T) {
	// Mock server setup
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-endpoint" {
			t.Errorf("Expected endpoint '/test-endpoint', got '%s'", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Expected Accept application/json, got '%s'", accept)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "success"}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)

	body, err := client.Get(context.Background(), "/test-endpoint")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != `{"message": "success"}` {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestHTTPClient_GetJSON(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "success"}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	var response map[string]string

	if err := client.GetJSON(context.Background(), mockServer.URL+"/x", &response); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if response["message"] != "success" {
		t.Errorf("Expected message 'success', got '%s'", response["message"])
	}
}

func TestHTTPClient_GetURL_Failure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request"}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)

	_, err := client.GetURL(context.Background(), mockServer.URL+"/test-endpoint")
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected a StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", statusErr.StatusCode)
	}
	if statusErr.URL == "" {
		t.Error("Expected the request URL on the error")
	}
}

func TestHTTPClient_GetURL_ContextCancelled(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GetURL(ctx, mockServer.URL); err == nil {
		t.Fatal("Expected an error for a cancelled context")
	}
}
