// Package classify wraps the black-box classifiers into domain decisions:
// input truncation and scoring, the toxicity threshold, and the sentiment
// emoji mapping.
package classify
