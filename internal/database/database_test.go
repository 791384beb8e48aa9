package database_test

import (
	"context"
	"fmt"
	"testing"

	"trailerstore/internal/config"
	"trailerstore/internal/database"
	"trailerstore/internal/models"
	"trailerstore/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Memory(t *testing.T) {
	store, err := database.NewStore(config.DatabaseConfig{Driver: config.DriverMemory}, true)
	require.NoError(t, err)
	assert.Nil(t, store.DB)
	assert.IsType(t, &repositories.MockTrailerRepository{}, store.Repo)
	assert.NoError(t, store.Close())
}

func TestNewStore_SQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	store, err := database.NewStore(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: dsn}, true)
	require.NoError(t, err)
	defer store.Close()

	require.NotNil(t, store.DB)
	assert.True(t, store.DB.Migrator().HasTable(&models.Trailer{}))

	trailer := &models.Trailer{Name: "Kremen", Slug: "kremen", Category: models.CategoryPassenger, Currency: models.CurrencyUAH}
	require.NoError(t, store.Repo.Create(context.Background(), trailer))
	n, err := store.Repo.Count(context.Background(), repositories.TrailerFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOpen_RejectsMemory(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: config.DriverMemory})
	assert.Error(t, err)
}
