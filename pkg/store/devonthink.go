package store

import (
	"bytes"
	"context"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

// DEVONthink drives the DEVONthink application over osascript JXA. Each
// operation is a self-contained script taking its values as argv, so no
// document text is ever interpolated into script source. Scripts answer
// with a one-line JSON envelope on stdout.
type DEVONthink struct {
	runner   Runner
	database string
	group    string
}

// NewDEVONthink creates the DEVONthink backend, verifying the scripting
// bridge is available on this host.
func NewDEVONthink(cfg Config) (*DEVONthink, error) {
	if err := checkOsascript(); err != nil {
		return nil, err
	}
	return newDEVONthink(cfg, execRunner{}), nil
}

// newDEVONthink wires an explicit runner; tests use it with a fake.
func newDEVONthink(cfg Config, runner Runner) *DEVONthink {
	group := cfg.Group
	if group == "" {
		group = constants.DefaultGroup
	}
	return &DEVONthink{
		runner:   runner,
		database: cfg.Database,
		group:    group,
	}
}

// Name implements the Store interface.
func (d *DEVONthink) Name() string {
	return BackendDEVONthink
}

// scriptResult is the JSON envelope every JXA script prints.
type scriptResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Body  string `json:"body"`
	Text  string `json:"text"`
}

// notFoundCode is the envelope error code the scripts use for a missing
// record, as opposed to a genuine scripting failure.
const notFoundCode = "not_found"

// run executes a script and decodes its envelope.
func (d *DEVONthink) run(ctx context.Context, operation, title, script string, args ...string) (*scriptResult, error) {
	out, err := d.runner.Run(ctx, script, args...)
	if err != nil {
		return nil, err
	}

	var result scriptResult
	if err := sonic.Unmarshal(bytes.TrimSpace(out), &result); err != nil {
		return nil, errors.WrapParse("json", "osascript output", err)
	}
	if !result.OK {
		if result.Error == notFoundCode {
			return nil, errors.NewNotFoundError("record", title)
		}
		return nil, &errors.ScriptError{
			Operation: operation,
			Title:     title,
			Message:   result.Error,
		}
	}
	return &result, nil
}

// Lookup implements the Store interface.
func (d *DEVONthink) Lookup(ctx context.Context, title string) (*Record, error) {
	result, err := d.run(ctx, "lookup", title, lookupScript, title, d.database)
	if err != nil {
		return nil, err
	}
	return &Record{ID: result.UUID, Title: result.Name, Body: result.Body}, nil
}

// Create implements the Store interface.
func (d *DEVONthink) Create(ctx context.Context, rec NewRecord) error {
	tags := strings.Join(rec.Tags, ",")
	_, err := d.run(ctx, "create", rec.Title, createScript,
		rec.Title, rec.Body, rec.URL, tags, d.database, d.group)
	return err
}

// ReplaceBody implements the Store interface.
func (d *DEVONthink) ReplaceBody(ctx context.Context, title, body string) error {
	_, err := d.run(ctx, "replace body", title, replaceBodyScript, title, body, d.database)
	return err
}

// Annotation implements the Store interface.
func (d *DEVONthink) Annotation(ctx context.Context, title string) (string, error) {
	result, err := d.run(ctx, "read annotation", title, annotationScript, title, d.database)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// ReplaceAnnotation implements the Store interface.
func (d *DEVONthink) ReplaceAnnotation(ctx context.Context, title, text string) error {
	_, err := d.run(ctx, "replace annotation", title, replaceAnnotationScript,
		title, text, d.database)
	return err
}
