package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVendor(t *testing.T) {
	t.Run("creates vendor successfully", func(t *testing.T) {
		vendor, err := NewVendor("acme", "Acme Lab Supplies")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, vendor.ID)
		assert.Equal(t, "ACME", vendor.Code)
		assert.Equal(t, VendorStatusActive, vendor.Status)
		require.Len(t, vendor.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeVendorCreated, vendor.GetDomainEvents()[0].EventType())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		vendor, err := NewVendor("", "Acme Lab Supplies")

		require.Error(t, err)
		assert.Nil(t, vendor)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		vendor, err := NewVendor("ACME", "")

		require.Error(t, err)
		assert.Nil(t, vendor)
	})
}

func TestVendor_Deactivate(t *testing.T) {
	vendor, err := NewVendor("ACME", "Acme Lab Supplies")
	require.NoError(t, err)

	require.NoError(t, vendor.Deactivate())
	assert.False(t, vendor.IsActive())

	// Deactivating twice is rejected
	require.Error(t, vendor.Deactivate())

	require.NoError(t, vendor.Activate())
	assert.True(t, vendor.IsActive())
}

func TestNewMember(t *testing.T) {
	t.Run("creates member successfully", func(t *testing.T) {
		member, err := NewMember("Kim Lee", "kim@lab.example", MemberRoleManager)

		require.NoError(t, err)
		assert.Equal(t, MemberRoleManager, member.Role)
		assert.True(t, member.Active)
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		member, err := NewMember("Kim Lee", "kim@lab.example", MemberRole("visitor"))

		require.Error(t, err)
		assert.Nil(t, member)
	})
}
