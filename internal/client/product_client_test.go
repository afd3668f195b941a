package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductClient_GetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/api/products/101":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":101,"name":"Lamp","price":19.99,"stock":4,"live":true,"createdAt":"2025-01-01T10:00:00"}`))
		case "/api/products/404":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL+"/api/", time.Second)
	ctx := context.Background()

	p, err := c.GetProduct(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(101), p.ID)
	assert.Equal(t, "Lamp", p.Name)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 4, *p.Stock)

	_, err = c.GetProduct(ctx, 404)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = c.GetProduct(ctx, 500)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestProductClient_ReduceStock(t *testing.T) {
	var gotPath, gotQuery, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL+"/api", time.Second)
	require.NoError(t, c.ReduceStock(context.Background(), 7, 1))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/products/7/reduce-stock", gotPath)
	assert.Equal(t, "quantity=1", gotQuery)
}

func TestProductClient_ReduceStock_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL, time.Second)
	err := c.ReduceStock(context.Background(), 7, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestProductClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewProductClient(url, 200*time.Millisecond)
	_, err := c.GetProduct(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}
