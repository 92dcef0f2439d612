package classify

import (
	"context"

	"github.com/threadlab/threads-backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TruncationLimit is the input window of the underlying BERT-family models,
// approximated by character (rune) truncation since token units are not
// available on this side of the inference boundary.
const TruncationLimit = 512

// Scorer applies the input policy (empty check, truncation) before handing
// text to a classifier. Scoring is a pure function of the text, so identical
// concurrent requests are collapsed into one model call.
type Scorer struct {
	classifier domain.Classifier
	group      singleflight.Group
}

// NewScorer wraps a classifier with the input policy.
func NewScorer(classifier domain.Classifier) *Scorer {
	return &Scorer{classifier: classifier}
}

// Score classifies text after truncating it to the model's input window.
// Empty text returns domain.ErrEmptyInput without touching the model.
func (s *Scorer) Score(ctx context.Context, text string) (domain.ScoreResult, error) {
	if text == "" {
		return domain.ScoreResult{}, domain.ErrEmptyInput
	}

	truncated := Truncate(text, TruncationLimit)

	result, err, _ := s.group.Do(truncated, func() (any, error) {
		return s.classifier.Classify(ctx, truncated)
	})
	if err != nil {
		return domain.ScoreResult{}, err
	}
	return result.(domain.ScoreResult), nil
}

// Truncate cuts text to at most limit runes, never splitting a UTF-8 sequence.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
