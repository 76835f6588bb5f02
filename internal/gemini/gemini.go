// Package gemini asks the Gemini API for a slang post candidate.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used unless the config overrides it.
const DefaultModel = "gemini-1.5-pro-latest"

// Candidate is one generated slang post.
type Candidate struct {
	Slang string `json:"slang"`
	Post  string `json:"post_text"`
}

// Client generates slang post candidates.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed client. An empty model selects DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Generate requests one new slang post, steering the model away from the
// given already-posted terms. The exclusion list is advisory — callers must
// still check the result against the ledger.
func (c *Client) Generate(ctx context.Context, exclude []string) (*Candidate, error) {
	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(buildPrompt(exclude)),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](1.2),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return parseCandidate(resp.Text())
}

// buildPrompt renders the generation prompt with the exclusion list inlined
// as a JSON array, so the model sees exactly what is off limits.
func buildPrompt(exclude []string) string {
	if exclude == nil {
		exclude = []string{}
	}
	excluded, _ := json.Marshal(exclude)

	var b strings.Builder
	b.WriteString(`You are a friendly and popular English-learning content creator on social media.
Pick one fun, memorable English slang term and write a short post introducing it.

Requirements:
- Never use any term from the "already posted" list below.
- Include the slang term, its meaning, and one simple example sentence showing how it is used.
- Keep the whole post within the 280-character limit of X (Twitter).
- Prefer fairly recent slang, or expressions that are fun to know.
- Use a bright, approachable tone with a couple of emoji.
- End the post with these hashtags: #EnglishSlang #LearnEnglish #SlangOfTheDay

Already posted:
`)
	b.Write(excluded)
	b.WriteString(`

Output format (respond with exactly this JSON object):
{
  "slang": "the slang term (e.g. 'spill the tea')",
  "post_text": "the full post, including the term, meaning, example and hashtags"
}`)
	return b.String()
}

// parseCandidate decodes the model response. Some models wrap JSON in
// markdown fences even with a JSON response MIME type, so fences are
// stripped first.
func parseCandidate(text string) (*Candidate, error) {
	raw := strings.TrimSpace(text)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var c Candidate
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("parse model response: %w (response: %s)", err, truncateResponse(text))
	}

	c.Slang = strings.TrimSpace(c.Slang)
	c.Post = strings.TrimSpace(c.Post)
	if c.Slang == "" || c.Post == "" {
		return nil, fmt.Errorf("model response missing slang or post_text (response: %s)", truncateResponse(text))
	}
	return &c, nil
}

func truncateResponse(s string) string {
	if len(s) <= 200 {
		return s
	}
	return s[:200] + "..."
}
