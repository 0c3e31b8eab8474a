package oracle

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/init.txt
var initPrompt string

//go:embed prompts/turn.txt
var turnPrompt string

//go:embed prompts/resume.txt
var resumePrompt string

var (
	ErrSessionNotInitialized = errors.New("oracle session not initialized")
	ErrTransport             = errors.New("oracle transport failure")
	ErrParse                 = errors.New("oracle reply violates contract")
)

// turnTimeout bounds a single oracle round-trip.
const turnTimeout = 30 * time.Second

// responseSchema constrains the model to the turn-result JSON contract.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"narrative": {Type: genai.TypeString},
		"choices": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"stats_update": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"funds_change":            {Type: genai.TypeInteger},
				"users_change":            {Type: genai.TypeInteger},
				"security_change":         {Type: genai.TypeInteger},
				"hype_change":             {Type: genai.TypeInteger},
				"tech_level_change":       {Type: genai.TypeInteger},
				"decentralization_change": {Type: genai.TypeInteger},
			},
		},
		"event_type": {
			Type: genai.TypeString,
			Enum: []string{"normal", "crisis", "opportunity", "game_over", "victory"},
		},
	},
	Required: []string{"narrative", "event_type"},
}

// Client holds one conversational session with the narrative generator per
// game run. Initialize or Restore must succeed before ResolveTurn.
type Client struct {
	genaiClient *genai.Client
	model       *genai.GenerativeModel
	chat        *genai.ChatSession
}

// NewClient dials the generator with the given credential. The key is not
// verified until the first message is sent.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create oracle client: %w", err)
	}
	model := gc.GenerativeModel(modelName)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = responseSchema
	return &Client{genaiClient: gc, model: model}, nil
}

func (c *Client) Close() {
	c.genaiClient.Close()
}

func difficulty(era int) string {
	switch {
	case era <= 1:
		return "This is a scrappy first launch: small stakes, forgiving mistakes."
	case era == 2:
		return "The project is a known quantity now. Rivals copy it, regulators watch it; raise the stakes accordingly."
	default:
		return fmt.Sprintf("Era %d: the project operates at global scale. Be harsh; every misstep has systemic consequences.", era)
	}
}

// startSession binds a fresh chat to the system instruction for this run.
// Any previous session is discarded.
func (c *Client) startSession(settings game.Settings, era int) error {
	tmpl, err := template.New("system").Parse(systemPrompt)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		ProjectName, Ticker, FounderName, Language, Difficulty string
		Era                                                    int
	}{
		ProjectName: settings.ProjectName,
		Ticker:      settings.Ticker,
		FounderName: settings.FounderName,
		Language:    settings.Language,
		Difficulty:  difficulty(era),
		Era:         era,
	})
	if err != nil {
		return err
	}
	c.model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(buf.String())}}
	c.chat = c.model.StartChat()
	return nil
}

// send performs one round-trip within the current chat session.
func (c *Client) send(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	resp, err := c.chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty candidate", ErrTransport)
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", fmt.Errorf("%w: no text parts in reply", ErrTransport)
	}
	return text, nil
}

// Initialize starts a new session for the given era and requests the
// opening scene. Failure here is fatal to game start and propagates.
func (c *Client) Initialize(ctx context.Context, settings game.Settings, era int) (TurnResult, error) {
	if err := c.startSession(settings, era); err != nil {
		return TurnResult{}, err
	}
	tmpl, err := template.New("init").Parse(initPrompt)
	if err != nil {
		return TurnResult{}, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		FounderName, ProjectName, Ticker string
		Forked                           bool
	}{
		FounderName: settings.FounderName,
		ProjectName: settings.ProjectName,
		Ticker:      settings.Ticker,
		Forked:      era > 1,
	})
	if err != nil {
		return TurnResult{}, err
	}
	raw, err := c.send(ctx, buf.String())
	if err != nil {
		return TurnResult{}, err
	}
	return parseTurnResult(raw)
}

// Restore re-establishes a session for a loaded game and replays a bounded
// summary of recent history so later turns stay coherent. A failed resume
// round-trip only degrades context and is logged, unless the failure is an
// authorization error, which propagates.
func (c *Client) Restore(ctx context.Context, settings game.Settings, stats game.StatVector, infraSummary string, recent []string) error {
	if err := c.startSession(settings, stats.Era); err != nil {
		return err
	}
	tmpl, err := template.New("resume").Parse(resumePrompt)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Recent         []string
		Stats          game.StatVector
		Infrastructure string
	}{Recent: recent, Stats: stats, Infrastructure: infraSummary})
	if err != nil {
		return err
	}
	if _, err := c.send(ctx, buf.String()); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
			return err
		}
		log.Printf("oracle: resume context degraded: %v", err)
	}
	return nil
}

// ResolveTurn sends the player's action within the current session and
// parses the reply. Transport and parse failures never escape: the caller
// receives a retryable fallback result instead.
func (c *Client) ResolveTurn(ctx context.Context, action string, stats game.StatVector, infraSummary string) (TurnResult, error) {
	if c.chat == nil {
		return TurnResult{}, ErrSessionNotInitialized
	}
	tmpl, err := template.New("turn").Parse(turnPrompt)
	if err != nil {
		return TurnResult{}, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Action         string
		Stats          game.StatVector
		Infrastructure string
	}{Action: action, Stats: stats, Infrastructure: infraSummary})
	if err != nil {
		return TurnResult{}, err
	}

	raw, err := c.send(ctx, buf.String())
	if err != nil {
		log.Printf("oracle: turn failed, falling back: %v", err)
		return fallbackResult(), nil
	}
	result, err := parseTurnResult(raw)
	if err != nil {
		log.Printf("oracle: %v", err)
		return fallbackResult(), nil
	}
	return result, nil
}
