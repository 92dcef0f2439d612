package classify

import (
	"math"

	"github.com/threadlab/threads-backend/internal/domain"
)

// ToxicityThreshold is the confidence above which text is considered toxic.
// The comparison is strict: exactly 0.70 is not toxic.
const ToxicityThreshold = 0.70

// Sentiment emoji mapping; labels outside the map degrade to neutral.
const (
	EmojiPositive = "\U0001F60A" // 😊
	EmojiNegative = "\U0001F620" // 😠
	EmojiNeutral  = "\U0001F610" // 😐
)

var sentimentEmoji = map[string]string{
	"POSITIVE": EmojiPositive,
	"NEGATIVE": EmojiNegative,
	"NEUTRAL":  EmojiNeutral,
}

// IsToxic decides toxicity from the raw, unrounded confidence.
func IsToxic(result domain.ScoreResult) bool {
	return result.Confidence > ToxicityThreshold
}

// SentimentEmoji maps a sentiment label to its display symbol. Total over
// all label values: unknown labels map to the neutral emoji, never an error.
func SentimentEmoji(label string) string {
	if emoji, ok := sentimentEmoji[label]; ok {
		return emoji
	}
	return EmojiNeutral
}

// Round3 rounds a confidence to 3 decimal places for display. Decisions
// always use the unrounded value.
func Round3(confidence float64) float64 {
	return math.Round(confidence*1000) / 1000
}
