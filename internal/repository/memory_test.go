package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/order-summary/internal/model"
)

func TestMemoryRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	err = repo.SaveAll(ctx, []model.Order{
		{OrderID: "2", Region: "Asia"},
		{OrderID: "1", Region: "Europe"},
	})
	require.NoError(t, err)

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].OrderID)
	assert.Equal(t, "1", all[1].OrderID)

	o, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Europe", o.Region)
}

func TestMemoryRepository_ReimportOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.SaveAll(ctx, []model.Order{{OrderID: "1", Region: "Europe"}, {OrderID: "2"}}))
	require.NoError(t, repo.SaveAll(ctx, []model.Order{{OrderID: "1", Region: "Asia"}}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].OrderID)
	assert.Equal(t, "Asia", all[0].Region)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	_, err := NewMemoryRepository().FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryRepository().SaveAll(ctx, []model.Order{{OrderID: "1"}})

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRepository_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = repo.SaveAll(ctx, []model.Order{{OrderID: fmt.Sprintf("%d-%d", g, i)}})
				_, _ = repo.FindAll(ctx)
			}
		}(g)
	}
	wg.Wait()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 400)
}
