package catalogcache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetByCode(ctx context.Context, code string) (*catalog.Entry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Entry), args.Error(1)
}

func (m *MockCatalogRepository) ListActive(ctx context.Context) ([]catalog.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Entry), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEntries() []catalog.Entry {
	return []catalog.Entry{
		{Code: "0019", Message: "Provide HS Code", Category: catalog.CategorySales, Active: true},
		{Code: "0046", Message: "Provide rate", Category: catalog.CategorySales, Active: true},
	}
}

func TestSnapshot_LoadsOnce(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("ListActive", mock.Anything).Return(testEntries(), nil).Once()
	cache := New(newTestLogger(), repo)

	first, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := cache.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testEntries(), first)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "ListActive", 1)
}

func TestSnapshot_LoadErrorNotCached(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("database unavailable")).Once()
	repo.On("ListActive", mock.Anything).Return(testEntries(), nil).Once()
	cache := New(newTestLogger(), repo)

	_, err := cache.Snapshot(context.Background())
	require.Error(t, err)

	entries, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	repo.AssertNumberOfCalls(t, "ListActive", 2)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	updated := append(testEntries(), catalog.Entry{
		Code: "0007", Message: "Provide valid buyer province", Category: catalog.CategorySales, Active: true,
	})
	repo := new(MockCatalogRepository)
	repo.On("ListActive", mock.Anything).Return(testEntries(), nil).Once()
	repo.On("ListActive", mock.Anything).Return(updated, nil).Once()
	cache := New(newTestLogger(), repo)

	first, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	cache.Invalidate()

	second, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 3)
	repo.AssertNumberOfCalls(t, "ListActive", 2)
}

func TestSnapshot_CallersGetIndependentCopies(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("ListActive", mock.Anything).Return(testEntries(), nil).Once()
	cache := New(newTestLogger(), repo)

	first, err := cache.Snapshot(context.Background())
	require.NoError(t, err)

	// Mutating a returned snapshot must not leak into other callers.
	first[0].Message = "tampered"

	second, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Provide HS Code", second[0].Message)
}

func TestSnapshot_ConcurrentFirstUse(t *testing.T) {
	repo := new(MockCatalogRepository)
	repo.On("ListActive", mock.Anything).Return(testEntries(), nil)
	cache := New(newTestLogger(), repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := cache.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.Len(t, entries, 2)
		}()
	}
	wg.Wait()

	// Double-checked locking collapses the stampede into one load.
	repo.AssertNumberOfCalls(t, "ListActive", 1)
}
