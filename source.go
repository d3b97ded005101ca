package fsd

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the file extensions recognized as definitions.
// Markdown files hold definitions with interleaved documentation.
var DefaultExtensions = []string{".fsd", ".md"}

// Source lists and reads definition files.
type Source interface {
	// ListFiles returns the paths of every definition known to the
	// source, in a stable order.
	ListFiles() ([]string, error)

	// Read returns the text of a listed path. The name of the result is
	// the path as reported by ListFiles.
	Read(path string) (NamedText, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- Files Source (explicit paths) ---

type filesSource struct {
	paths []string
}

// Files creates a Source over explicit file paths. Extensions are not
// checked.
func Files(paths ...string) Source {
	return &filesSource{paths: paths}
}

func (s *filesSource) ListFiles() ([]string, error) {
	return slices.Clone(s.paths), nil
}

func (s *filesSource) Read(path string) (NamedText, error) {
	return readFile(path)
}

// --- Dir Source (single directory or recursive tree) ---

type dirSource struct {
	root      string
	recursive bool
	config    sourceConfig
}

// Dir creates a Source over the definitions in a single directory (no
// recursion).
func Dir(path string, opts ...SourceOption) (Source, error) {
	if err := checkDir(path); err != nil {
		return nil, err
	}
	return &dirSource{root: path, config: defaultSourceConfig(opts)}, nil
}

// DirTree creates a Source over the definitions in a directory tree.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	return &dirSource{root: root, recursive: true, config: defaultSourceConfig(opts)}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	return nil
}

func (s *dirSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string

	if !s.recursive {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			path := filepath.Join(s.root, entry.Name())
			if !entry.IsDir() && hasValidExtension(path, extSet) {
				files = append(files, path)
			}
		}
		return files, nil
	}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && hasValidExtension(path, extSet) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *dirSource) Read(path string) (NamedText, error) {
	return readFile(path)
}

func readFile(path string) (NamedText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NamedText{}, err
	}
	return NamedText{Name: path, Text: string(data)}, nil
}

// --- FS Source (for embed.FS, testing) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS).
// The name prefixes every reported path.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	return &fsSource{name: name, fsys: fsys, config: defaultSourceConfig(opts)}
}

func (s *fsSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	var files []string
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && hasValidExtension(path, extSet) {
			files = append(files, s.name+":"+path)
		}
		return nil
	})
	return files, err
}

func (s *fsSource) Read(path string) (NamedText, error) {
	data, err := fs.ReadFile(s.fsys, strings.TrimPrefix(path, s.name+":"))
	if err != nil {
		return NamedText{}, err
	}
	return NamedText{Name: path, Text: string(data)}, nil
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
	owner   map[string]Source
}

// Multi combines multiple sources into one. A path listed by more than
// one source is read from the first.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) ListFiles() ([]string, error) {
	var files []string
	owner := make(map[string]Source)
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		for _, path := range f {
			if _, ok := owner[path]; !ok {
				owner[path] = src
				files = append(files, path)
			}
		}
	}
	s.owner = owner
	return files, nil
}

func (s *multiSource) Read(path string) (NamedText, error) {
	if src, ok := s.owner[path]; ok {
		return src.Read(path)
	}
	return NamedText{}, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}
