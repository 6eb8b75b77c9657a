package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/simaogato/kidbank-backend/internal/config"
	"github.com/simaogato/kidbank-backend/internal/domain"
)

func TestOpenStore_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreBackend: config.StoreBackendMemory}

	repo, closer, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closer.Close()

	deposit, err := domain.NewDeposit(time.Now(), 100, "Gift")
	require.NoError(t, err)

	_, err = repo.Save(ctx, deposit)
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: "sqlite"}

	_, _, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported store backend")
}
