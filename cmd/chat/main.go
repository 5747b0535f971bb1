// Package main is a standalone terminal chat against the assistant
// gateway, useful for trying prompts without running the API server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/swiftly-ai/assistant-api/internal/config"
	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/prompt"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	// Unlike the server, the chat script is useless without a
	// credential, so it bails out immediately.
	if cfg.OpenAIAPIKey == "" && cfg.AnthropicAPIKey == "" {
		fmt.Fprintln(os.Stderr, "error: OPENAI_API_KEY or ANTHROPIC_API_KEY must be set")
		os.Exit(1)
	}

	log, err := logger.New("warn")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var client llm.Client
	if cfg.OpenAIAPIKey != "" {
		client, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else {
		client, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create model client: %v\n", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(client, cfg.ModelName, log)
	defaults := llm.GenerationConfig{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
		CandidateCount:  1,
	}

	fmt.Printf("Swiftly assistant (%s). Type 'quit' to exit.\n\n", cfg.ModelName)

	var history []model.Turn
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		systemPrompt := prompt.BuildSystemPrompt(nil, time.Now())
		reply, err := gateway.Generate(ctx, systemPrompt, input, history, defaults)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generation unavailable: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("assistant> %s\n\n", reply)

		history = append(history,
			model.Turn{Role: model.RoleUser, Parts: []model.TextPart{{Text: input}}},
			model.Turn{Role: model.RoleAssistant, Parts: []model.TextPart{{Text: reply}}},
		)
	}
}
