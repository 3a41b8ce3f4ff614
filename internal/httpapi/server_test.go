package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/app"
	"github.com/diamondnunstraw/kartcentral/internal/catalog"
	"github.com/diamondnunstraw/kartcentral/internal/domain"
	"github.com/diamondnunstraw/kartcentral/internal/events"
	"github.com/diamondnunstraw/kartcentral/internal/identity"
	"github.com/diamondnunstraw/kartcentral/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// readerMock implements catalog.Reader over a fixed product set.
type readerMock struct {
	products map[string]domain.Product
	err      error
}

func (m *readerMock) ListProducts(context.Context, catalog.ListOptions) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	products := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *readerMock) GetProduct(_ context.Context, id string) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}
	product, exists := m.products[id]
	if !exists {
		return domain.Product{}, catalog.ErrProductNotFound
	}
	return product, nil
}

func (m *readerMock) ListByCategory(_ context.Context, category string) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var products []domain.Product
	for _, p := range m.products {
		if p.Category == category {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *readerMock) ListCategories(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"electronics"}, nil
}

type env struct {
	router   http.Handler
	provider *identity.LocalProvider
	app      *app.Context
	reader   *readerMock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := zap.NewNop()

	reader := &readerMock{products: map[string]domain.Product{
		"A": {ID: "A", Title: "Product A", Price: 10, Category: "electronics"},
		"B": {ID: "B", Title: "Product B", Price: 5, Category: "electronics"},
	}}

	provider := identity.NewLocalProvider(logger)
	appCtx := app.New(provider, storage.NewMemoryStore(), events.NoopPublisher{}, logger)
	t.Cleanup(appCtx.Close)

	server := NewServer(appCtx, reader, catalog.NewLoader(reader), 5*time.Second, logger)
	return &env{
		router:   server.Router(),
		provider: provider,
		app:      appCtx,
		reader:   reader,
	}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	request := httptest.NewRequest(method, path, reqBody)
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, request)
	return recorder
}

func (e *env) signIn(t *testing.T) {
	t.Helper()
	_, err := e.provider.SignUp(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(out))
}
