package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ttscoff/readwise-to-devonthink/pkg/constants"
	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

// Folder stores each record as a markdown file in a directory, with the
// annotation in a sidecar file next to it. It is the portable backend
// for non-macOS hosts and the one the tests run against.
type Folder struct {
	root string
}

// NewFolder creates the folder backend rooted at dir, creating it on
// first use. An empty dir resolves to a records directory next to the
// watermark state file.
func NewFolder(dir string) (*Folder, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			dir = "records"
		} else {
			dir = filepath.Join(configDir, constants.AppConfigDirName, "records")
		}
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return &Folder{root: dir}, nil
}

// Name implements the Store interface.
func (f *Folder) Name() string {
	return BackendFolder
}

// Lookup implements the Store interface.
func (f *Folder) Lookup(_ context.Context, title string) (*Record, error) {
	path := f.recordPath(title)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("record", title)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return &Record{ID: path, Title: title, Body: string(data)}, nil
}

// Create implements the Store interface.
func (f *Folder) Create(_ context.Context, rec NewRecord) error {
	path := f.recordPath(rec.Title)
	if _, err := os.Stat(path); err == nil {
		return &errors.ResourceError{
			Operation: "create",
			Resource:  "record",
			Name:      rec.Title,
			Err:       errors.ErrAlreadyExists,
		}
	}
	if err := os.WriteFile(path, []byte(rec.Body), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// ReplaceBody implements the Store interface.
func (f *Folder) ReplaceBody(ctx context.Context, title, body string) error {
	if _, err := f.Lookup(ctx, title); err != nil {
		return err
	}
	path := f.recordPath(title)
	if err := os.WriteFile(path, []byte(body), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Annotation implements the Store interface.
func (f *Folder) Annotation(ctx context.Context, title string) (string, error) {
	if _, err := f.Lookup(ctx, title); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.annotationPath(title))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.WrapIO("read", f.annotationPath(title), err)
	}
	return string(data), nil
}

// ReplaceAnnotation implements the Store interface.
func (f *Folder) ReplaceAnnotation(ctx context.Context, title, text string) error {
	if _, err := f.Lookup(ctx, title); err != nil {
		return err
	}
	path := f.annotationPath(title)
	if err := os.WriteFile(path, []byte(text), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func (f *Folder) recordPath(title string) string {
	return filepath.Join(f.root, Slug(title)+".md")
}

func (f *Folder) annotationPath(title string) string {
	return filepath.Join(f.root, Slug(title)+constants.AnnotationSuffix)
}

// Slug turns a title into a filename: filesystem-hostile characters
// become hyphens, whitespace collapses, and very long titles are capped.
// Case is preserved so the files stay recognizable next to their titles.
func Slug(title string) string {
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(title), " ") {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	slug := strings.Trim(b.String(), " .")
	if slug == "" {
		slug = "untitled"
	}
	const maxLen = 150
	if len(slug) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}
		slug = strings.TrimRight(slug[:cut], " .")
	}
	return slug
}
