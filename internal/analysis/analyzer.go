package analysis

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/jonathan/pathgenie/internal/llm"
	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/schemas"
	"github.com/jonathan/pathgenie/internal/types"
)

// Analyzer submits finished questionnaires to the completion service.
type Analyzer struct {
	client   llm.Client
	expected int
}

// NewAnalyzer creates an analyzer expecting the standard number of recommendations.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client, expected: types.ExpectedRecommendations}
}

// Analyze returns the ranked recommendations for the given answers. Any
// failure is an *Error and no partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context, c *catalog.Catalog, answers *questionnaire.Answers) (*types.AnalysisResult, error) {
	req, err := BuildRequest(c, answers)
	if err != nil {
		return nil, &Error{Kind: KindServiceError, Message: "failed to build request", Cause: err}
	}

	log.Printf("[analysis] submitting %d answers to %s", answers.Len(), a.client.GetModel(req.Tier))

	raw, err := a.client.GenerateStructured(ctx, req)
	if err != nil {
		aerr := fromClientError(err)
		log.Printf("[analysis] failed: %v", aerr)
		return nil, aerr
	}

	result, err := DecodeResult(raw, a.expected)
	if err != nil {
		log.Printf("[analysis] malformed response: %v", err)
		return nil, err
	}

	log.Printf("[analysis] top recommendation %q (%s confidence)", result.Summary.TopRecommendation, result.Summary.ConfidenceLevel)
	return result, nil
}

// DecodeResult validates a raw analysis payload and returns it with
// recommendations sorted by rank. expected of 0 accepts any non-zero count.
func DecodeResult(raw []byte, expected int) (*types.AnalysisResult, error) {
	if err := schemas.ValidateAnalysisResult(raw); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "response does not match schema", Cause: err}
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "failed to decode response", Cause: err}
	}

	if err := result.Validate(expected); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "response violates result invariants", Cause: err}
	}

	result.SortByRank()
	return &result, nil
}
