package perf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"uatharness/internal/config"
	"uatharness/internal/platform"
)

func TestUploadThroughput(t *testing.T) {
	var uploads, deletes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/alice/demo/files/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			atomic.AddInt32(&uploads, 1)
		case http.MethodDelete:
			atomic.AddInt32(&deletes, 1)
		}
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()

	client := platform.NewClient(&config.Config{
		Host:        backend.URL,
		APIKey:      "test-key",
		HTTPTimeout: 5 * time.Second,
	})

	result := UploadThroughput(context.Background(), client, "alice", "demo", 1,
		LoadConfig{Concurrency: 2, Requests: 4})

	assert.Equal(t, 4, result.Completed)
	assert.Zero(t, result.Failed)
	assert.EqualValues(t, 4, atomic.LoadInt32(&uploads))
	assert.EqualValues(t, 4, atomic.LoadInt32(&deletes), "every uploaded file is removed afterwards")
}
