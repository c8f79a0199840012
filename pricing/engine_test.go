package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandeduk-store/models"
)

func testEngine() *Engine {
	return NewEngineFromConfig(&Config{
		Currency: "GBP",
		Products: map[string]models.TierTable{
			"UC101": {
				BasePrice: 1899,
				Tiers: []models.PriceTier{
					{MinQty: 5, UnitPrice: 1758},
					{MinQty: 12, UnitPrice: 1654},
					{MinQty: 30, UnitPrice: 1618},
					{MinQty: 60, UnitPrice: 1494},
					{MinQty: 120, UnitPrice: 1349},
					{MinQty: 300, UnitPrice: 1259},
				},
			},
		},
	})
}

func TestGetUnitPriceExampleTiers(t *testing.T) {
	engine := testEngine()

	expected := map[int]int64{
		5:   1758,
		12:  1654,
		30:  1618,
		60:  1494,
		120: 1349,
		300: 1259,
	}
	for qty, want := range expected {
		assert.Equal(t, want, engine.GetUnitPrice("UC101", qty, 0), "qty %d", qty)
	}
}

func TestGetUnitPriceBelowLowestTier(t *testing.T) {
	engine := testEngine()

	// Below the lowest tier the product's own base price applies
	assert.Equal(t, int64(1899), engine.GetUnitPrice("UC101", 1, 0))
	assert.Equal(t, int64(1899), engine.GetUnitPrice("UC101", 4, 0))
}

func TestGetUnitPriceBetweenThresholds(t *testing.T) {
	engine := testEngine()

	// The tier with the largest qualifying minQty wins
	assert.Equal(t, int64(1758), engine.GetUnitPrice("UC101", 11, 0))
	assert.Equal(t, int64(1654), engine.GetUnitPrice("UC101", 29, 0))
	assert.Equal(t, int64(1259), engine.GetUnitPrice("UC101", 5000, 0))
}

func TestGetUnitPriceUnknownCodeFallsBack(t *testing.T) {
	engine := testEngine()

	// Unknown codes never error; the caller-supplied base price applies
	assert.Equal(t, int64(2250), engine.GetUnitPrice("NOPE", 500, 2250))
}

func TestUnitPriceMonotonicallyNonIncreasing(t *testing.T) {
	engine := testEngine()

	prev := engine.GetUnitPrice("UC101", 1, 0)
	for qty := 2; qty <= 400; qty++ {
		price := engine.GetUnitPrice("UC101", qty, 0)
		assert.LessOrEqual(t, price, prev, "price rose at qty %d", qty)
		prev = price
	}
}

func TestTiersSortedRegardlessOfConfigOrder(t *testing.T) {
	engine := NewEngineFromConfig(&Config{
		Currency: "GBP",
		Products: map[string]models.TierTable{
			"X": {
				BasePrice: 1000,
				Tiers: []models.PriceTier{
					{MinQty: 10, UnitPrice: 900},
					{MinQty: 100, UnitPrice: 700},
					{MinQty: 50, UnitPrice: 800},
				},
			},
		},
	})

	assert.Equal(t, int64(800), engine.GetUnitPrice("X", 60, 0))
	assert.Equal(t, int64(700), engine.GetUnitPrice("X", 100, 0))
}

func TestRegisterProduct(t *testing.T) {
	engine := testEngine()
	require.False(t, engine.HasProduct("NEW1"))

	engine.RegisterProduct("NEW1", models.TierTable{
		BasePrice: 500,
		Tiers:     []models.PriceTier{{MinQty: 10, UnitPrice: 450}},
	})

	require.True(t, engine.HasProduct("NEW1"))
	assert.Equal(t, int64(500), engine.GetUnitPrice("NEW1", 9, 0))
	assert.Equal(t, int64(450), engine.GetUnitPrice("NEW1", 10, 0))
}

func TestValidateConfig(t *testing.T) {
	err := validateConfig(&Config{Currency: "", Products: map[string]models.TierTable{"A": {BasePrice: 1}}})
	assert.Error(t, err)

	err = validateConfig(&Config{Currency: "GBP"})
	assert.Error(t, err)

	err = validateConfig(&Config{
		Currency: "GBP",
		Products: map[string]models.TierTable{
			"A": {BasePrice: 100, Tiers: []models.PriceTier{{MinQty: 0, UnitPrice: 90}}},
		},
	})
	assert.Error(t, err)
}
