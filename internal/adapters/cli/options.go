package cli

import "io"

// Option configures an App.
type Option func(*App)

// WithOutput sets where rendered output goes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// WithPipelineFactory replaces how the App builds its pipeline from config.
func WithPipelineFactory(f PipelineFactory) Option {
	return func(a *App) {
		if f != nil {
			a.newPipeline = f
		}
	}
}
