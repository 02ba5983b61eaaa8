package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var samplePortfolio = []PortfolioItem{
	{ID: 1, Title: "Loft", Category: "residential"},
	{ID: 2, Title: "Office", Category: "Commercial"},
	{ID: 3, Title: "Villa", Category: "Residential"},
	{ID: 4, Title: "Hotel Lobby", Category: "hospitality"},
}

func TestFilterAllReturnsInput(t *testing.T) {
	assert.Equal(t, samplePortfolio, Filter(samplePortfolio, FilterAll))
	assert.Equal(t, samplePortfolio, Filter(samplePortfolio, ""))
	assert.Equal(t, samplePortfolio, Filter(samplePortfolio, "ALL"))
}

func TestFilterMatchesCaseInsensitivelyInOrder(t *testing.T) {
	got := Filter(samplePortfolio, "residential")
	assert.Equal(t, []PortfolioItem{samplePortfolio[0], samplePortfolio[2]}, got)

	got = Filter(samplePortfolio, "commercial")
	assert.Equal(t, []PortfolioItem{samplePortfolio[1]}, got)
}

func TestFilterUnknownTagIsEmpty(t *testing.T) {
	assert.Empty(t, Filter(samplePortfolio, "industrial"))
	assert.Empty(t, Filter(nil, "residential"))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	before := append([]PortfolioItem(nil), samplePortfolio...)
	_ = Filter(samplePortfolio, "hospitality")
	assert.Equal(t, before, samplePortfolio)
}
