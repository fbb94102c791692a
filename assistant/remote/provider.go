package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog/log"

	contractx "github.com/caredesk/healthchat/assistant/contract"
	toolx "github.com/caredesk/healthchat/assistant/tool"
)

const (
	providerName = "openai"

	firstRoundMaxTokens = 1000
	finalRoundMaxTokens = 500
	firstRoundTemp      = 0.1
)

const systemPrompt = `You are a healthcare management assistant. You help users query patient and facility data.
Use the provided tools to fetch actual data from the system.

Guidelines:
- Be concise and helpful
- Use real data from the system when available
- Maintain patient privacy - never expose full medical record numbers or sensitive information
- If you can't find specific data, suggest alternative queries
- Format responses clearly with bullet points when appropriate`

type Config struct {
	Enabled bool          `envconfig:"ENABLED" split_words:"true" default:"true"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Provider integrates the remote chat-completions API using a two-round
// tool-calling protocol. On a tool request it delegates execution to the
// dispatcher and replays the exchange for a final answer.
type Provider struct {
	client     openai.Client
	model      string
	enabled    bool
	keyPresent bool
	dispatcher contractx.Dispatcher
	health     *contractx.HealthCell
}

var _ contractx.Provider = (*Provider)(nil)

func New(cfg Config, dispatcher contractx.Dispatcher) *Provider {
	apiKey := strings.TrimSpace(cfg.APIKey)

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	return &Provider{
		client:     openai.NewClient(opts...),
		model:      strings.TrimSpace(cfg.Model),
		enabled:    cfg.Enabled,
		keyPresent: apiKey != "",
		dispatcher: dispatcher,
		health:     contractx.NewHealthCell(),
	}
}

func (p *Provider) Name() string { return providerName }

// Enabled requires both the config switch and a non-blank credential.
func (p *Provider) Enabled() bool {
	return p.enabled && p.keyPresent
}

func (p *Provider) Health() contractx.Health {
	if !p.Enabled() {
		return contractx.HealthDisabled
	}
	return p.health.Get()
}

func (p *Provider) ProcessQuery(ctx context.Context, query contractx.Query) (contractx.Answer, error) {
	if !p.Enabled() {
		return contractx.Answer{}, contractx.ErrProviderDisabled
	}

	answer, err := p.process(ctx, query)
	if err != nil {
		p.health.MarkUnhealthy()
		log.Warn().Err(err).Str("provider", providerName).Msg("remote query failed")
		return contractx.Answer{}, err
	}

	p.health.MarkHealthy()
	return answer, nil
}

func (p *Provider) process(ctx context.Context, query contractx.Query) (contractx.Answer, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(query.Text),
		},
		Tools:       toolParams(),
		MaxTokens:   openai.Int(firstRoundMaxTokens),
		Temperature: openai.Float(firstRoundTemp),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return contractx.Answer{}, fmt.Errorf("%w: %v", contractx.ErrRemoteCall, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.Answer{}, fmt.Errorf("%w: response has no choices", contractx.ErrMalformedResponse)
	}

	message := completion.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		answer := contractx.NewAnswer(message.Content, contractx.SourceRemoteDirect, nil)
		answer.Metadata = map[string]any{"model": completion.Model}
		return answer, nil
	}

	// Multi-call responses are not supported; only the first requested tool
	// is executed.
	call, err := parseToolCall(message.ToolCalls[0])
	if err != nil {
		return contractx.Answer{}, err
	}

	result := p.dispatcher.Execute(ctx, call.Function, call.Args)

	return p.finalRound(ctx, query, message, call, result)
}

func (p *Provider) finalRound(
	ctx context.Context,
	query contractx.Query,
	assistantMessage openai.ChatCompletionMessage,
	call contractx.ToolCall,
	result contractx.ToolResult,
) (contractx.Answer, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(query.Text),
			assistantMessage.ToParam(),
			openai.ToolMessage(result.Content(), call.ID),
		},
		MaxTokens: openai.Int(finalRoundMaxTokens),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return contractx.Answer{}, fmt.Errorf("%w: %v", contractx.ErrRemoteCall, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.Answer{}, fmt.Errorf("%w: final response has no choices", contractx.ErrMalformedResponse)
	}

	var data any
	if len(result.Payload) > 0 {
		if err := json.Unmarshal(result.Payload, &data); err != nil {
			return contractx.Answer{}, fmt.Errorf("%w: tool payload: %v", contractx.ErrMalformedResponse, err)
		}
	}

	answer := contractx.NewAnswer(completion.Choices[0].Message.Content, contractx.SourceRemote, data)
	answer.Metadata = map[string]any{
		"model":    completion.Model,
		"function": call.Function,
	}
	return answer, nil
}

func parseToolCall(raw openai.ChatCompletionMessageToolCall) (contractx.ToolCall, error) {
	name := strings.TrimSpace(raw.Function.Name)
	if name == "" {
		return contractx.ToolCall{}, fmt.Errorf("%w: tool call has no function name", contractx.ErrMalformedResponse)
	}

	args := map[string]any{}
	if rawArgs := strings.TrimSpace(raw.Function.Arguments); rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return contractx.ToolCall{}, fmt.Errorf("%w: invalid arguments for %s: %v", contractx.ErrMalformedResponse, name, err)
		}
	}

	return contractx.ToolCall{ID: raw.ID, Function: name, Args: args}, nil
}

func toolParams() []openai.ChatCompletionToolParam {
	defs := toolx.Definitions()
	params := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		params = append(params, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters: shared.FunctionParameters{
					"type":       "object",
					"properties": def.Properties,
					"required":   []string{},
				},
			},
		})
	}
	return params
}
