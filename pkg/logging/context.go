package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ctxKey keys the values this package stores in contexts.
type ctxKey int

const (
	loggerKey ctxKey = iota
	runIDKey
)

// WithLogger stores logger in the context. The pipeline hands contexts
// around instead of logger arguments; a nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger
// when ctx carries none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRunID stamps a sync run identifier on the context and its logger,
// so the lines of one run can be grouped when watch mode interleaves
// runs with other output.
func WithRunID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, runIDKey, id)
	return withField(ctx, "run_id", id)
}

// RunID returns the identifier stored by WithRunID, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// WithFields derives a context whose logger carries all given fields.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	lctx := FromContext(ctx).With()
	for k, v := range fields {
		lctx = applyField(lctx, k, v)
	}
	logger := lctx.Logger()
	return WithLogger(ctx, &logger)
}

// Field helpers for the values that recur across the pipeline. Using
// these keeps the field names identical in every package.

// WithTitle stamps the bookmark title.
func WithTitle(ctx context.Context, title string) context.Context {
	return withField(ctx, "title", title)
}

// WithURL stamps the bookmark or article URL.
func WithURL(ctx context.Context, url string) context.Context {
	return withField(ctx, "url", url)
}

// WithStore stamps the document store backend name.
func WithStore(ctx context.Context, name string) context.Context {
	return withField(ctx, "store", name)
}

// WithOperation stamps the operation in progress.
func WithOperation(ctx context.Context, op string) context.Context {
	return withField(ctx, "operation", op)
}

func withField(ctx context.Context, key string, value any) context.Context {
	logger := applyField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

// applyField types a value onto a logger context.
func applyField(lctx zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return lctx.Str(key, v)
	case int:
		return lctx.Int(key, v)
	case int64:
		return lctx.Int64(key, v)
	case float64:
		return lctx.Float64(key, v)
	case bool:
		return lctx.Bool(key, v)
	case time.Duration:
		return lctx.Dur(key, v)
	case time.Time:
		return lctx.Time(key, v)
	case error:
		return lctx.AnErr(key, v)
	default:
		return lctx.Interface(key, v)
	}
}
