package services

import (
	"context"
	"testing"

	"tiffin-api/apperrors"
	"tiffin-api/config"
	"tiffin-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, err := config.Seed(e.db, e.hasher)
	require.NoError(t, err)

	require.NoError(t, e.db.Model(&models.Dish{}).Where("name = ?", "Vegetable Curry").Update("is_available", false).Error)

	dishes, err := e.catalog.ListAvailableDishes(ctx)
	require.NoError(t, err)
	names := make([]string, len(dishes))
	for i, d := range dishes {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"Chicken Biryani", "Dal Tadka", "Masala Dosa"}, names)

	dish, err := e.catalog.GetDish(ctx, dishes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "15.99", dish.Price.StringFixed(2))

	_, err = e.catalog.GetDish(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrDishNotFound)
}

func TestSeedIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	first, err := config.Seed(e.db, e.hasher)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := config.Seed(e.db, e.hasher)
	require.NoError(t, err)
	assert.False(t, second)
}
