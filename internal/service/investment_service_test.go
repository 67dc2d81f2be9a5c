package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentAddListRemove(t *testing.T) {
	s := NewInvestmentService()
	assert.Empty(t, s.List())

	inv := s.Add("stocks", "technology", 5000)
	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "active", inv.Status)
	assert.Equal(t, 5000.0, inv.Amount)

	other := s.Add("crypto", "defi", 1200)
	require.Len(t, s.List(), 2)

	s.Remove(inv.ID)
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)

	// Removing an unknown id is a no-op
	s.Remove("nope")
	assert.Len(t, s.List(), 1)
}
