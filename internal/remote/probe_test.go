package remote

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbe_Online(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	probe := NewProbe(server.URL)
	assert.True(t, probe.Online())
}

func TestProbe_AuthErrorStillOnline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	// Any response proves the network path is up.
	probe := NewProbe(server.URL)
	assert.True(t, probe.Online())
}

func TestProbe_ServerErrorIsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	probe := NewProbe(server.URL)
	assert.False(t, probe.Online())
}

func TestProbe_UnreachableIsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	probe := NewProbe(server.URL)
	assert.False(t, probe.Online())
}

func TestProbe_CachesVerdict(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	probe := NewProbe(server.URL)
	for i := 0; i < 5; i++ {
		assert.True(t, probe.Online())
	}
	assert.Equal(t, int32(1), hits.Load(), "verdict should be cached within the TTL")
}

func TestProbe_RechecksAfterTTL(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	probe := NewProbe(server.URL)
	probe.ttl = 10 * time.Millisecond

	assert.True(t, probe.Online())
	time.Sleep(20 * time.Millisecond)
	assert.True(t, probe.Online())
	assert.Equal(t, int32(2), hits.Load())
}
