/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// AIConfig holds the extraction model configuration. Any
// OpenAI-compatible chat endpoint works (Ollama, llama.cpp, a hosted
// API).
type AIConfig struct {
	URL   string
	Model string
}

// OpenAI-compatible request/response structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GetAIConfig loads the extraction configuration from environment variables
func GetAIConfig() (*AIConfig, error) {
	url := os.Getenv("AI_URL")
	model := os.Getenv("AI_MODEL")

	if url == "" || model == "" {
		return nil, ErrAIConfigIncomplete
	}

	return &AIConfig{
		URL:   url,
		Model: model,
	}, nil
}

const extractSystemPrompt = `Você é um assistente que extrai resultados de exames laboratoriais de documentos médicos. ` +
	`Responda SOMENTE com um array JSON. Cada elemento deve ter os campos: ` +
	`"examName", "value", "unit", "referenceRange", "date" (formato AAAA-MM-DD), "laboratory", "doctorName". ` +
	`Use "" para campos ausentes. Não inclua nenhum texto fora do array JSON.`

// buildExtractPrompt describes the uploaded report to the model
func buildExtractPrompt(filename, mimeType, content string) string {
	var sb strings.Builder

	sb.WriteString("Extraia todos os resultados de exames do documento a seguir.\n\n")
	sb.WriteString(fmt.Sprintf("Arquivo: %s (%s)\n\n", filename, mimeType))
	sb.WriteString("Conteúdo:\n")
	sb.WriteString(content)

	return sb.String()
}

// ExtractExamRecords asks the configured model to pull structured lab
// results out of an uploaded report. The returned records are drafts:
// they carry no IDs and have not been admitted to any collection. Any
// failure degrades to zero records at the call site; the user falls back
// to manual entry.
func ExtractExamRecords(ctx context.Context, filename, mimeType, content string) ([]ExamRecord, error) {
	config, err := GetAIConfig()
	if err != nil {
		return nil, err
	}

	reqBody := chatRequest{
		Model: config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: buildExtractPrompt(filename, mimeType, content)},
		},
	}

	raw, err := completeChat(ctx, config, reqBody)
	if err != nil {
		return nil, err
	}

	var records []ExamRecord
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &records); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return records, nil
}

// GetExamInformation returns a short educational description of an exam.
// This is general information for display next to the record, never
// medical advice.
func GetExamInformation(ctx context.Context, examName string) (string, error) {
	config, err := GetAIConfig()
	if err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model: config.Model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "Você é um assistente de saúde. Explique em um parágrafo curto, em português, " +
					"o que o exame mede e para que serve. Não dê conselhos médicos nem interprete resultados.",
			},
			{Role: "user", Content: examName},
		},
	}

	return completeChat(ctx, config, reqBody)
}

// completeChat performs a single non-streaming chat completion
func completeChat(ctx context.Context, config *AIConfig, reqBody chatRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(config.URL, "/") + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 120 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("model error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// stripCodeFence removes a surrounding markdown fence that some models
// wrap around JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
