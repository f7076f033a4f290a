// ABOUTME: Azure OpenAI chat-completions client over plain HTTP
// ABOUTME: Translates a system prompt plus alternating transcript into API messages

package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client produces one assistant reply from a system prompt, the prior
// conversation (alternating human/assistant, human first), and the new input.
type Client interface {
	Complete(ctx context.Context, system string, conversation []string, input string) (string, error)
}

// AzureClient calls the Azure OpenAI chat completions REST API.
type AzureClient struct {
	endpoint   string // e.g. https://myresource.openai.azure.com
	deployment string
	apiVersion string
	apiKey     string
	httpClient *http.Client
}

// NewAzureClient creates a chat client for the given deployment.
func NewAzureClient(endpoint, deployment, apiVersion, apiKey string) *AzureClient {
	return &AzureClient{
		endpoint:   endpoint,
		deployment: deployment,
		apiVersion: apiVersion,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages []chatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt and transcript and returns the assistant reply.
func (c *AzureClient) Complete(ctx context.Context, system string, conversation []string, input string) (string, error) {
	messages := make([]chatMessage, 0, len(conversation)+2)
	messages = append(messages, chatMessage{Role: "system", Content: system})

	// Transcript alternates human/assistant starting with human
	for i, msg := range conversation {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: msg})
	}
	messages = append(messages, chatMessage{Role: "user", Content: input})

	body, err := json.Marshal(completionRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("completion API returned %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("completion API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
