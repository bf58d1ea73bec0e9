// Package annotate attaches local classifier sentiment and remote emotion
// annotations to corpus records, keyed by sentence number, and checks that
// every speaker keeps enough high-confidence sentences afterwards.
package annotate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/abdulachik/playmood/internal/llm"
)

// ErrMalformedResponse marks a remote reply that does not hold a valid
// annotation.
var ErrMalformedResponse = errors.New("malformed annotation response")

// LocalClassifier labels one sentence POSITIVE or NEGATIVE.
type LocalClassifier interface {
	Classify(ctx context.Context, text string) (corpus.LocalSentiment, error)
}

// RemoteAnnotator returns the main emotion and polarity of one sentence.
type RemoteAnnotator interface {
	Annotate(ctx context.Context, text string) (corpus.RemoteAnnotation, error)
}

// LLMAnnotator implements RemoteAnnotator over a chat-completion provider.
type LLMAnnotator struct {
	provider llm.Provider
}

// NewLLMAnnotator creates an annotator that sends SystemPrompt with each
// sentence.
func NewLLMAnnotator(provider llm.Provider) *LLMAnnotator {
	return &LLMAnnotator{provider: provider}
}

// Annotate asks the provider for one sentence's annotation.
func (a *LLMAnnotator) Annotate(ctx context.Context, text string) (corpus.RemoteAnnotation, error) {
	reply, err := a.provider.Complete(ctx, SystemPrompt, text)
	if err != nil {
		return corpus.RemoteAnnotation{}, fmt.Errorf("complete: %w", err)
	}
	return ParseAnnotation(reply)
}

type annotationReply struct {
	MainEmotion *string `json:"main_emotion"`
	Sentiment   *string `json:"sentiment"`
}

// ParseAnnotation decodes a model reply. Both fields must be present and hold
// known values; anything else is ErrMalformedResponse.
func ParseAnnotation(reply string) (corpus.RemoteAnnotation, error) {
	var raw annotationReply
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		obj, extractErr := llm.ExtractJSON(reply)
		if extractErr != nil {
			return corpus.RemoteAnnotation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, extractErr)
		}
		if err := json.Unmarshal([]byte(obj), &raw); err != nil {
			return corpus.RemoteAnnotation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	if raw.MainEmotion == nil || raw.Sentiment == nil {
		return corpus.RemoteAnnotation{}, fmt.Errorf("%w: missing main_emotion or sentiment", ErrMalformedResponse)
	}

	emotion, err := corpus.ParseEmotion(*raw.MainEmotion)
	if err != nil {
		return corpus.RemoteAnnotation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	polarity, err := corpus.ParsePolarity(*raw.Sentiment)
	if err != nil {
		return corpus.RemoteAnnotation{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return corpus.RemoteAnnotation{MainEmotion: &emotion, Sentiment: &polarity}, nil
}
