package consumable

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstock/backend/internal/domain/shared"
)

func TestNewConsumable(t *testing.T) {
	categoryID := uuid.New()

	t.Run("creates consumable successfully", func(t *testing.T) {
		c, err := NewConsumable("Nitrile Gloves", categoryID)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, c.ID)
		assert.Equal(t, "Nitrile Gloves", c.Name)
		assert.Equal(t, categoryID, c.CategoryID)
		assert.Equal(t, int64(0), c.Quantity)
		assert.Equal(t, int64(0), c.ClaimedQuantity)
		assert.True(t, c.UnitPrice.IsZero())
	})

	t.Run("emits created event", func(t *testing.T) {
		c, err := NewConsumable("Nitrile Gloves", categoryID)

		require.NoError(t, err)
		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeConsumableCreated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		c, err := NewConsumable("", categoryID)

		require.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("fails with nil category ID", func(t *testing.T) {
		c, err := NewConsumable("Nitrile Gloves", uuid.Nil)

		require.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestConsumable_AvailableQuantity(t *testing.T) {
	c := createTestConsumable(t)
	c.Quantity = 15
	c.ClaimedQuantity = 8

	assert.Equal(t, int64(7), c.AvailableQuantity())
}

func TestConsumable_TotalCost(t *testing.T) {
	c := createTestConsumable(t)
	c.Quantity = 10
	require.NoError(t, c.SetUnitPrice(decimal.NewFromFloat(2.5)))

	assert.Equal(t, "25", c.TotalCost().String())
}

func TestConsumable_ApplyQuantityDelta(t *testing.T) {
	t.Run("applies positive delta", func(t *testing.T) {
		c := createTestConsumable(t)

		err := c.ApplyQuantityDelta(10)

		require.NoError(t, err)
		assert.Equal(t, int64(10), c.Quantity)
	})

	t.Run("applies negative delta", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 10

		err := c.ApplyQuantityDelta(-4)

		require.NoError(t, err)
		assert.Equal(t, int64(6), c.Quantity)
	})

	t.Run("rejects delta driving quantity negative", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 3

		err := c.ApplyQuantityDelta(-5)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, int64(3), c.Quantity)
	})

	t.Run("rejects delta dropping quantity below claimed", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 10
		c.ClaimedQuantity = 8

		err := c.ApplyQuantityDelta(-5)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, int64(10), c.Quantity)
	})

	t.Run("emits low stock event when crossing threshold", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 10
		require.NoError(t, c.SetMinQuantity(5))
		c.ClearDomainEvents()

		require.NoError(t, c.ApplyQuantityDelta(-7))

		events := c.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockBelowThreshold, events[0].EventType())
	})

	t.Run("does not re-emit low stock event while already below", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 3
		require.NoError(t, c.SetMinQuantity(5))
		c.ClearDomainEvents()

		require.NoError(t, c.ApplyQuantityDelta(-1))

		assert.Empty(t, c.GetDomainEvents())
	})
}

func TestConsumable_ApplyClaimedDelta(t *testing.T) {
	t.Run("applies positive delta", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 10

		err := c.ApplyClaimedDelta(8)

		require.NoError(t, err)
		assert.Equal(t, int64(8), c.ClaimedQuantity)
		assert.Equal(t, int64(2), c.AvailableQuantity())
	})

	t.Run("rejects claiming more than quantity", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 5

		err := c.ApplyClaimedDelta(6)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, int64(0), c.ClaimedQuantity)
	})

	t.Run("rejects delta driving claimed negative", func(t *testing.T) {
		c := createTestConsumable(t)
		c.Quantity = 10
		c.ClaimedQuantity = 2

		err := c.ApplyClaimedDelta(-3)

		require.Error(t, err)
		assert.Equal(t, int64(2), c.ClaimedQuantity)
	})
}

func TestConsumable_SetUnitPrice(t *testing.T) {
	c := createTestConsumable(t)

	t.Run("accepts non-negative price", func(t *testing.T) {
		require.NoError(t, c.SetUnitPrice(decimal.NewFromFloat(1.25)))
		assert.Equal(t, "1.25", c.UnitPrice.String())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		err := c.SetUnitPrice(decimal.NewFromFloat(-1))
		require.Error(t, err)
	})
}

func TestConsumable_CanFulfill(t *testing.T) {
	c := createTestConsumable(t)
	c.Quantity = 10
	c.ClaimedQuantity = 7

	assert.True(t, c.CanFulfill(3))
	assert.False(t, c.CanFulfill(4))
	assert.False(t, c.CanFulfill(0))
}

func createTestConsumable(t *testing.T) *Consumable {
	t.Helper()
	c, err := NewConsumable("Test Consumable", uuid.New())
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}
