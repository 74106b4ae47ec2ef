package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constituent(index, stock string) *IndexConstituent {
	return &IndexConstituent{IndexCode: index, StockCode: stock, StockName: stock}
}

func TestDiffConstituents(t *testing.T) {
	old := []*IndexConstituent{
		constituent("000300.SH", "600000.SH"),
		constituent("000300.SH", "600036.SH"),
	}
	latest := []*IndexConstituent{
		constituent("000300.SH", "600036.SH"),
		constituent("000300.SH", "601318.SH"),
	}

	diff := DiffConstituents(old, latest)
	require.Len(t, diff.Added, 1)
	require.Len(t, diff.Removed, 1)
	assert.Equal(t, "601318.SH", diff.Added[0].StockCode)
	assert.Equal(t, "600000.SH", diff.Removed[0].StockCode)
	assert.False(t, diff.Empty())
}

func TestDiffConstituentsNoChange(t *testing.T) {
	members := []*IndexConstituent{
		constituent("000300.SH", "600000.SH"),
		constituent("000300.SH", "600036.SH"),
	}
	diff := DiffConstituents(members, members)
	assert.True(t, diff.Empty())
}

func TestDiffConstituentsFromEmpty(t *testing.T) {
	latest := []*IndexConstituent{
		constituent("000300.SH", "600000.SH"),
	}
	diff := DiffConstituents(nil, latest)
	require.Len(t, diff.Added, 1)
	assert.Empty(t, diff.Removed)
}
