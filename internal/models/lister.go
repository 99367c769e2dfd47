package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ChatModels returns the sorted IDs of chat models usable for spelling
// suggestions.
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .hindiname.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var ids []string
	for _, model := range models.Models {
		if IsChatModel(model.ID) {
			ids = append(ids, model.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// IsChatModel reports whether id names a text chat model. Audio, speech,
// image, embedding and moderation models are excluded.
func IsChatModel(id string) bool {
	for _, skip := range []string{"tts", "audio", "realtime", "transcribe", "dall-e", "image", "embedding", "moderation", "whisper", "search"} {
		if strings.Contains(id, skip) {
			return false
		}
	}
	return strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "chatgpt") ||
		strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4")
}

// ListAvailableModels prints the chat models to w, marking current as the
// configured one.
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer, current string) error {
	ids, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}
	PrintModels(w, ids, current)
	return nil
}

// PrintModels writes the model list in the --list-models format.
func PrintModels(w io.Writer, ids []string, current string) {
	fmt.Fprintln(w, "Chat models for spelling suggestions:")
	if len(ids) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return
	}
	for _, id := range ids {
		marker := " "
		if id == current {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s\n", marker, id)
	}
}
