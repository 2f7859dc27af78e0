package watson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

// scoringRequest is the JSON body sent to the deployment's predictions endpoint.
type scoringRequest struct {
	InputData []scoringInput `json:"input_data"`
}

type scoringInput struct {
	Fields []string `json:"fields"`
	Values [][]any  `json:"values"`
}

// scoringResponse keeps value groups raw so the probability position can be
// checked index by index.
type scoringResponse struct {
	Predictions []struct {
		Values []json.RawMessage `json:"values"`
	} `json:"predictions"`
}

// newScoringRequest builds the single-row payload from the feature schema.
func newScoringRequest(input model.InputRecord) scoringRequest {
	return scoringRequest{
		InputData: []scoringInput{{
			Fields: model.FeatureFields(),
			Values: [][]any{input.FeatureValues()},
		}},
	}
}

// Predict scores input and returns predictions[0].values[0][1][0], the
// probability of the positive class.
func (c *Client) Predict(ctx context.Context, token string, input model.InputRecord) (float64, error) {
	bodyBytes, err := json.Marshal(newScoringRequest(input))
	if err != nil {
		return 0, fmt.Errorf("marshaling scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scoringURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("creating scoring request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do("predict", req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	var sr scoringResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("decoding scoring response: %w: %w", driven.ErrMalformedResponse, err)
	}

	return extractProbability(sr)
}

// extractProbability walks predictions[0].values[0][1][0]. The first value
// group is a row of [label, [probabilities...]].
func extractProbability(sr scoringResponse) (float64, error) {
	if len(sr.Predictions) == 0 {
		return 0, fmt.Errorf("scoring response has no predictions: %w", driven.ErrMalformedResponse)
	}
	if len(sr.Predictions[0].Values) == 0 {
		return 0, fmt.Errorf("predictions[0] has no values: %w", driven.ErrMalformedResponse)
	}

	var row []json.RawMessage
	if err := json.Unmarshal(sr.Predictions[0].Values[0], &row); err != nil {
		return 0, fmt.Errorf("predictions[0].values[0] is not an array: %w", driven.ErrMalformedResponse)
	}
	if len(row) < 2 {
		return 0, fmt.Errorf("predictions[0].values[0] has %d elements, want at least 2: %w", len(row), driven.ErrMalformedResponse)
	}

	var probabilities []json.RawMessage
	if err := json.Unmarshal(row[1], &probabilities); err != nil {
		return 0, fmt.Errorf("predictions[0].values[0][1] is not an array: %w", driven.ErrMalformedResponse)
	}
	if len(probabilities) == 0 {
		return 0, fmt.Errorf("predictions[0].values[0][1] is empty: %w", driven.ErrMalformedResponse)
	}

	// A JSON null decodes to a nil pointer rather than zero.
	var probability *float64
	if err := json.Unmarshal(probabilities[0], &probability); err != nil || probability == nil {
		return 0, fmt.Errorf("predictions[0].values[0][1][0] is %s, want a number: %w", probabilities[0], driven.ErrMalformedResponse)
	}

	return *probability, nil
}
