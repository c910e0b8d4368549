package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Bagus-DevLab/chatbot-smartgarden/config"
	"github.com/Bagus-DevLab/chatbot-smartgarden/logging"
	"github.com/Bagus-DevLab/chatbot-smartgarden/metrics"
)

// ErrEmptyCompletion means the model answered without any usable text.
var ErrEmptyCompletion = errors.New("language model returned no content")

// CompletionResult is the outcome of one model call. Err is set on failure;
// Text is then empty and callers substitute FallbackReply.
type CompletionResult struct {
	Text string
	Err  error
}

// Reply returns the model text, or FallbackReply when the call failed.
func (r CompletionResult) Reply() string {
	if r.Err != nil {
		return FallbackReply
	}
	return r.Text
}

// ChatCompleter is the part of the OpenAI client the assistant depends on.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AssistantService relays a user message to the language model.
type AssistantService interface {
	// Generate performs the model call and reports failures in the result.
	Generate(ctx context.Context, userMessage string) CompletionResult
	// Complete never fails: upstream errors are logged and replaced by FallbackReply.
	Complete(ctx context.Context, userMessage string) string
}

type assistantService struct {
	client  ChatCompleter
	cfg     config.LLMConfig
	metrics *metrics.Metrics
}

// NewOpenAIClient builds the process-wide OpenAI client from configuration.
func NewOpenAIClient(cfg config.LLMConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// NewAssistantService creates an AssistantService. m may be nil.
func NewAssistantService(client ChatCompleter, cfg config.LLMConfig, m *metrics.Metrics) AssistantService {
	return &assistantService{client: client, cfg: cfg, metrics: m}
}

func (s *assistantService) buildRequest(userMessage string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}
}

func (s *assistantService) Generate(ctx context.Context, userMessage string) CompletionResult {
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, s.buildRequest(userMessage))
	var text string
	if err == nil {
		if len(resp.Choices) > 0 {
			text = strings.TrimSpace(resp.Choices[0].Message.Content)
		}
		if text == "" {
			err = ErrEmptyCompletion
		}
	}
	s.metrics.ObserveUpstream(time.Since(start), err != nil)
	if err != nil {
		return CompletionResult{Err: fmt.Errorf("chat completion with model %s: %w", s.cfg.Model, err)}
	}

	logging.Get().Debug("[AssistantService] completion received",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return CompletionResult{Text: text}
}

func (s *assistantService) Complete(ctx context.Context, userMessage string) string {
	result := s.Generate(ctx, userMessage)
	if result.Err != nil {
		logging.Get().Error("[AssistantService] OpenAI error, sending fallback reply", "error", result.Err)
	}
	return result.Reply()
}
