package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestClassifier() *MemeCoinClassifier {
	mc := NewMemeCoinClassifier(DefaultClassifierConfig())
	mc.now = fixedNow
	return mc
}

func TestClassifyWhitelistShortCircuit(t *testing.T) {
	mc := newTestClassifier()

	// Even a maximally memey profile never qualifies under a whitelisted
	// symbol.
	token := models.Token{
		Symbol:      "SOL",
		Name:        "Baby Doge Moon",
		Tags:        []string{"meme"},
		DailyVolume: 50_000_000,
		CreatedAt:   fixedNow().Add(-24 * time.Hour),
	}

	assert.False(t, mc.Classify(token))
	assert.False(t, mc.Classify(models.Token{Symbol: "usdc", Name: "Pepe Elon Moon"}))
}

func TestClassifyMintAuthorityShortCircuit(t *testing.T) {
	mc := newTestClassifier()

	token := models.Token{
		Symbol:        "BABYPEPE",
		Name:          "Baby Pepe Moon",
		Tags:          []string{"meme"},
		MintAuthority: "some-authority-key",
		CreatedAt:     fixedNow().Add(-24 * time.Hour),
	}

	assert.False(t, mc.Classify(token))
}

func TestScoreFullMemeProfile(t *testing.T) {
	mc := newTestClassifier()

	token := models.Token{
		Symbol:      "BABYDOGE",
		Name:        "Baby Doge Moon",
		Tags:        []string{"meme"},
		DailyVolume: 10_000_000,
		CreatedAt:   fixedNow().Add(-5 * 24 * time.Hour),
	}

	// Raw contributions exceed 100; the score must clamp.
	assert.Equal(t, 100, mc.ScoreAt(token, fixedNow()))
	assert.True(t, mc.Classify(token))
}

func TestScoreEstablishedToken(t *testing.T) {
	mc := newTestClassifier()

	token := models.Token{
		Symbol:      "SRM",
		Name:        "Serum",
		Tags:        []string{"verified"},
		DailyVolume: 500_000,
		CreatedAt:   fixedNow().Add(-2 * 365 * 24 * time.Hour),
		CoingeckoID: "serum",
	}

	// Registry presence drops the score below zero; it clamps to 0.
	assert.Equal(t, 0, mc.ScoreAt(token, fixedNow()))
	assert.False(t, mc.Classify(token))
}

func TestScoreHypeTagsRequireNoLegitimacy(t *testing.T) {
	mc := newTestClassifier()

	hyped := models.Token{Symbol: "ZZZ", Name: "Plainname", Tags: []string{"community"}}
	vouched := models.Token{Symbol: "ZZZ", Name: "Plainname", Tags: []string{"community", "verified"}}

	// Same token, tag heuristic only: hype alone contributes, hype with a
	// legitimacy tag does not.
	assert.Equal(t, 35, mc.ScoreAt(hyped, fixedNow()))   // 20 tags + 15 no registry
	assert.Equal(t, 15, mc.ScoreAt(vouched, fixedNow())) // 15 no registry only
}

func TestScoreNameMatchCap(t *testing.T) {
	mc := newTestClassifier()

	// Five pattern families match; contribution caps at three.
	token := models.Token{
		Symbol:      "ZZZ",
		Name:        "Baby Doge Elon Moon Cat",
		CoingeckoID: "listed",
	}

	// 35 (capped names) - 10 registry = 25.
	assert.Equal(t, 25, mc.ScoreAt(token, fixedNow()))
}

func TestClassifyAboveThreshold(t *testing.T) {
	mc := newTestClassifier()

	// Symbol 20 + hype tags 20 + no registry 15 = 55 >= 45.
	token := models.Token{
		Symbol: "PEPEX",
		Name:   "Plainname",
		Tags:   []string{"meme"},
	}

	assert.Equal(t, 55, mc.ScoreAt(token, fixedNow()))
	assert.True(t, mc.Classify(token))
}

func TestClassifyDeterministic(t *testing.T) {
	mc := newTestClassifier()

	token := models.Token{
		Symbol:      "WIF",
		Name:        "dogwifhat",
		Tags:        []string{"meme"},
		DailyVolume: 3_000_000,
		CreatedAt:   fixedNow().Add(-10 * 24 * time.Hour),
	}

	first := mc.Classify(token)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, mc.Classify(token))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	mc := newTestClassifier()

	meme := func(symbol string) models.Token {
		return models.Token{Symbol: symbol, Name: "Plainname", Tags: []string{"meme"}}
	}
	tokens := []models.Token{
		meme("PEPE1"),
		{Symbol: "USDC", Name: "USD Coin"},
		meme("PEPE2"),
		{Symbol: "SRM", Name: "Serum", Tags: []string{"verified"}, CoingeckoID: "serum"},
		meme("PEPE3"),
	}

	filtered := mc.Filter(tokens)

	symbols := make([]string, len(filtered))
	for i, token := range filtered {
		symbols[i] = token.Symbol
	}
	assert.Equal(t, []string{"PEPE1", "PEPE2", "PEPE3"}, symbols)
}
