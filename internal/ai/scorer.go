package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chyiyaqing/ideapack/internal/generator"
)

type IdeaScore struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

const ideaScoreSystemPrompt = `You are an editor for short silent comedy videos starring a recurring cartoon cat.
Rate the following video idea from 1 to 10 for how funny, visual and easy to stage it is in 10-20 seconds.

Respond ONLY with valid JSON using standard ASCII double quotes. No other text:
{"score":N,"reason":"one short sentence"}`

// ScoreIdea asks the model to rate one idea.
func (c *Client) ScoreIdea(ctx context.Context, idea generator.Idea) (*IdeaScore, error) {
	resp, err := c.ChatCompletion(ctx, ideaScoreSystemPrompt, idea.PromptText)
	if err != nil {
		return nil, fmt.Errorf("score idea %q: %w", idea.Title, err)
	}

	var result IdeaScore
	if err := json.Unmarshal([]byte(resp), &result); err != nil {
		return nil, fmt.Errorf("parse score for %q: %w (raw: %s)", idea.Title, err, resp)
	}
	if result.Score < 1 || result.Score > 10 {
		return nil, fmt.Errorf("score for %q out of range: %d", idea.Title, result.Score)
	}
	return &result, nil
}

// Score implements generator.Scorer.
func (c *Client) Score(ctx context.Context, idea generator.Idea) (int, error) {
	res, err := c.ScoreIdea(ctx, idea)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}
