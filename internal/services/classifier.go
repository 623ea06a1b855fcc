package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/lexypaul13/DegenTrader-sub000/internal/models"
)

// Heuristic weights. The six contributions sum to 100 before the
// credibility adjustment; the final score is clamped back into [0,100].
const (
	nameWeight     = 35
	symbolWeight   = 20
	tagWeight      = 20
	recencyWeight  = 15
	volumeWeight   = 10
	noRegistryBump = 15
	registryDrop   = 10

	maxNameMatches = 3
)

// ClassifierConfig holds the scoring heuristics. Patterns and weights are
// tunables, not economic truths; the contract is the weighting split and
// the threshold.
type ClassifierConfig struct {
	Threshold       int
	NamePatterns    []*regexp.Regexp
	SymbolPatterns  []*regexp.Regexp
	HypeTags        []string
	LegitimacyTags  []string
	Whitelist       []string
	RecencyWindow   time.Duration
	VolumePerDayMax float64
}

// DefaultClassifierConfig returns the curated pattern sets and tunables.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Threshold: 45,
		NamePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(doge|shib|inu|pepe|floki|bonk|wojak)\b`),
			regexp.MustCompile(`(?i)\b(elon|trump|musk)\b`),
			regexp.MustCompile(`(?i)\b(moon|rocket|lambo|pump)\b`),
			regexp.MustCompile(`(?i)\b(baby|mini|little)\b`),
			regexp.MustCompile(`(?i)\b(cat|kitty|frog|hamster|monkey|ape)\b`),
			regexp.MustCompile(`(?i)(coin|token)\s*(2\.0|ai|x)$`),
		},
		SymbolPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^(doge|shib|inu|pepe|floki|bonk|wif|meme)`),
			regexp.MustCompile(`(?i)(69|420|1000x)$`),
			regexp.MustCompile(`(?i)^(baby|mini)`),
		},
		HypeTags:        []string{"meme", "community", "pump", "moonshot"},
		LegitimacyTags:  []string{"verified", "strict", "lst", "stablecoin"},
		Whitelist:       []string{"SOL", "USDC", "USDT", "BTC", "ETH", "JUP", "RAY"},
		RecencyWindow:   30 * 24 * time.Hour,
		VolumePerDayMax: 1_000_000,
	}
}

// MemeCoinClassifier scores a token's metadata against weighted heuristics
// to decide membership in the trending/meme subset. It is a deterministic
// function of the token and the evaluation time, with no state or I/O.
type MemeCoinClassifier struct {
	cfg ClassifierConfig
	now func() time.Time
}

// NewMemeCoinClassifier creates a classifier. A zero Threshold falls back
// to the default configuration's.
func NewMemeCoinClassifier(cfg ClassifierConfig) *MemeCoinClassifier {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultClassifierConfig().Threshold
	}
	return &MemeCoinClassifier{
		cfg: cfg,
		now: time.Now,
	}
}

// Classify reports whether the token scores at or above the meme threshold.
// Whitelisted symbols and tokens with a live mint authority never qualify.
func (mc *MemeCoinClassifier) Classify(token models.Token) bool {
	if mc.isWhitelisted(token.Symbol) || token.MintAuthority != "" {
		return false
	}
	return mc.ScoreAt(token, mc.now()) >= mc.cfg.Threshold
}

// Score computes the weighted heuristic score at the current time.
func (mc *MemeCoinClassifier) Score(token models.Token) int {
	return mc.ScoreAt(token, mc.now())
}

// ScoreAt computes the weighted heuristic score in [0,100] at the given
// evaluation time.
func (mc *MemeCoinClassifier) ScoreAt(token models.Token, now time.Time) int {
	score := 0.0

	// Name patterns, capped at three distinct matches.
	matches := 0
	for _, pattern := range mc.cfg.NamePatterns {
		if pattern.MatchString(token.Name) {
			matches++
			if matches == maxNameMatches {
				break
			}
		}
	}
	score += float64(nameWeight) * float64(matches) / float64(maxNameMatches)

	for _, pattern := range mc.cfg.SymbolPatterns {
		if pattern.MatchString(token.Symbol) {
			score += symbolWeight
			break
		}
	}

	if mc.hasAnyTag(token, mc.cfg.HypeTags) && !mc.hasAnyTag(token, mc.cfg.LegitimacyTags) {
		score += tagWeight
	}

	if !token.CreatedAt.IsZero() && now.Sub(token.CreatedAt) <= mc.cfg.RecencyWindow {
		score += recencyWeight
	}

	if mc.volumeAnomalous(token, now) {
		score += volumeWeight
	}

	if token.CoingeckoID == "" {
		score += noRegistryBump
	} else {
		score -= registryDrop
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}

// Filter applies Classify and preserves the input order.
func (mc *MemeCoinClassifier) Filter(tokens []models.Token) []models.Token {
	filtered := make([]models.Token, 0, len(tokens))
	for _, token := range tokens {
		if mc.Classify(token) {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

func (mc *MemeCoinClassifier) isWhitelisted(symbol string) bool {
	for _, listed := range mc.cfg.Whitelist {
		if strings.EqualFold(listed, symbol) {
			return true
		}
	}
	return false
}

func (mc *MemeCoinClassifier) hasAnyTag(token models.Token, tags []string) bool {
	for _, tag := range tags {
		if token.HasTag(tag) {
			return true
		}
	}
	return false
}

// volumeAnomalous reports daily volume out of proportion to token age.
// Tokens younger than a day are measured against a one-day floor.
func (mc *MemeCoinClassifier) volumeAnomalous(token models.Token, now time.Time) bool {
	if token.DailyVolume <= 0 {
		return false
	}
	ageDays := token.AgeDays(now)
	if ageDays < 1 {
		ageDays = 1
	}
	return token.DailyVolume/ageDays > mc.cfg.VolumePerDayMax
}
