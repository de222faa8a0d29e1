package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/redis/go-redis/v9"
)

// StreamPrefix is prepended to the sport key to form the per-sport results stream
const StreamPrefix = "analysis.results"

// maxStreamLen caps each results stream; older entries are trimmed approximately
const maxStreamLen = 10000

// StreamPublisher publishes analysis results to Redis Streams
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// StreamKey returns the results stream for a sport
func StreamKey(sportKey string) string {
	return fmt.Sprintf("%s.%s", StreamPrefix, sportKey)
}

// Publish implements contracts.ResultPublisher
func (p *StreamPublisher) Publish(ctx context.Context, result models.AnalysisResult) error {
	args, err := streamArgs(result)
	if err != nil {
		return err
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", args.Stream, err)
	}

	return nil
}

// PublishAll publishes a batch of results in one pipeline round trip
func (p *StreamPublisher) PublishAll(ctx context.Context, results []models.AnalysisResult) error {
	if len(results) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, result := range results {
		args, err := streamArgs(result)
		if err != nil {
			return err
		}
		pipe.XAdd(ctx, args)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish %d results: %w", len(results), err)
	}

	return nil
}

func streamArgs(result models.AnalysisResult) (*redis.XAddArgs, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	return &redis.XAddArgs{
		Stream: StreamKey(result.Selection.SportKey),
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"analysis_id":    result.AnalysisID,
			"recommendation": string(result.Recommendation),
			"result":         string(resultJSON),
		},
	}, nil
}
