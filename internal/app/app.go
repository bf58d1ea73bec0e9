package app

import (
	"context"

	"github.com/abdulachik/playmood/internal/annotate"
	"github.com/abdulachik/playmood/internal/classifier"
	"github.com/abdulachik/playmood/internal/config"
	"github.com/abdulachik/playmood/internal/db"
	"github.com/abdulachik/playmood/internal/llm"
)

// App is the main application container holding all dependencies.
type App struct {
	Config     *config.Config
	Store      *db.Store
	Classifier *classifier.Client
	Provider   llm.Provider // nil unless created with WithRemote
}

// Option configures New.
type Option func(*options)

type options struct {
	remote bool
}

// WithRemote also builds the remote LLM provider.
func WithRemote() Option {
	return func(o *options) { o.remote = true }
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config: cfg,
		Store:  store,
		Classifier: classifier.New(classifier.Config{
			Host:  cfg.ClassifierHost,
			Model: cfg.ClassifierModel,
		}),
	}

	if o.remote {
		provider, err := llm.NewProvider(remoteConfig(cfg))
		if err != nil {
			store.Close()
			return nil, err
		}
		a.Provider = provider
	}

	return a, nil
}

func remoteConfig(cfg *config.Config) llm.Config {
	c := llm.Config{
		Provider: cfg.RemoteProvider,
		Model:    cfg.RemoteModel,
		APIKey:   cfg.RemoteAPIKey(),
		Timeout:  cfg.RemoteTimeout,
	}
	if cfg.RemoteProvider == llm.ProviderOpenAI {
		c.BaseURL = cfg.OpenAIBaseURL
	}
	return c
}

// Merger builds an annotation merger from the configured collaborators.
// sink may be nil.
func (a *App) Merger(sink annotate.Sink) *annotate.Merger {
	cfg := annotate.Config{
		Local:       a.Classifier,
		Concurrency: a.Config.RemoteConcurrency,
		MaxRetries:  a.Config.MaxRetries,
		RetryDelay:  a.Config.RetryDelay,
		Timeout:     a.Config.RemoteTimeout,
		Sink:        sink,
	}
	if a.Provider != nil {
		cfg.Remote = annotate.NewLLMAnnotator(a.Provider)
	}
	return annotate.New(cfg)
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
