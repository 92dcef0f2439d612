package domain

import "context"

// ScoreResult is the normalized output of a text classifier: a label from
// the model's own taxonomy and a confidence in [0,1]. Derived per request,
// never persisted.
type ScoreResult struct {
	Label      string
	Confidence float64
}

// Classifier maps text to a label and confidence score. Implementations
// wrap a pretrained classification model and are treated as black boxes.
type Classifier interface {
	Classify(ctx context.Context, text string) (ScoreResult, error)
}
