package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/preproc/pkg/preproc"
	"github.com/cognicore/preproc/pkg/preproc/internalerr"
)

// Annotator backends.
const (
	BackendProse = "prose"
	BackendHTTP  = "http"
	BackendNone  = "none"
)

// Environment overrides.
const (
	EnvWordlistsDir     = "PREPROC_WORDLISTS_DIR"
	EnvAnnotatorURL     = "PREPROC_ANNOTATOR_URL"
	EnvAnnotatorBackend = "PREPROC_ANNOTATOR_BACKEND"
	EnvWorkers          = "PREPROC_WORKERS"
)

// File is the YAML configuration file.
type File struct {
	Resources ResourceFiles   `yaml:"resources"`
	Steps     []int           `yaml:"steps"`
	Annotator AnnotatorConfig `yaml:"annotator"`
	Workers   int             `yaml:"workers"`
}

// ResourceFiles names the word lists. Relative paths resolve against Dir.
type ResourceFiles struct {
	Dir                     string   `yaml:"dir"`
	Abbreviations           []string `yaml:"abbreviations"`
	ProperNounAbbreviations []string `yaml:"proper_noun_abbreviations"`
	Stopwords               []string `yaml:"stopwords"`
}

// AnnotatorConfig selects the tagging and lemmatization backend.
type AnnotatorConfig struct {
	Backend string        `yaml:"backend"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		Resources: ResourceFiles{
			Dir:                     "wordlists",
			Abbreviations:           []string{"abbrev.english", "pn_abbrev.english"},
			ProperNounAbbreviations: []string{"pn_abbrev.english"},
			Stopwords:               []string{"StopWords"},
		},
		Annotator: AnnotatorConfig{
			Backend: BackendProse,
			Timeout: 15 * time.Second,
		},
		Workers: runtime.NumCPU(),
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file. A .env file in the
// working directory is loaded if present.
func Load(path string) (*File, error) {
	_ = godotenv.Load()

	f := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}
	f.ApplyEnv()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyEnv overrides fields from PREPROC_* environment variables.
func (f *File) ApplyEnv() {
	f.Resources.Dir = getEnv(EnvWordlistsDir, f.Resources.Dir)
	f.Annotator.URL = getEnv(EnvAnnotatorURL, f.Annotator.URL)
	f.Annotator.Backend = getEnv(EnvAnnotatorBackend, f.Annotator.Backend)
	f.Workers = getEnvInt(EnvWorkers, f.Workers)
}

// Validate checks the values Load cannot fix up on its own.
func (f *File) Validate() error {
	var errs []error
	switch f.Annotator.Backend {
	case BackendProse, BackendNone:
	case BackendHTTP:
		if f.Annotator.URL == "" {
			errs = append(errs, errors.New("annotator url required for http backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown annotator backend %q", f.Annotator.Backend))
	}
	if f.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", f.Workers))
	}
	if _, err := f.StepSet(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// StepSet returns the configured stages. An empty list means all stages.
func (f *File) StepSet() (preproc.Steps, error) {
	if len(f.Steps) == 0 {
		return preproc.AllSteps(), nil
	}
	var s preproc.Steps
	for _, n := range f.Steps {
		st := preproc.Step(n)
		if !st.Valid() {
			return 0, fmt.Errorf("step %d out of range 1-%d", n, preproc.NumSteps)
		}
		s |= preproc.NewSteps(st)
	}
	return s, nil
}

// Loader returns a Loader over the resolved word-list paths.
func (f *File) Loader() *Loader {
	return &Loader{
		AbbrevPaths:           f.resolve(f.Resources.Abbreviations),
		ProperNounAbbrevPaths: f.resolve(f.Resources.ProperNounAbbreviations),
		StopwordPaths:         f.resolve(f.Resources.Stopwords),
		Annotator:             f.Annotator,
	}
}

func (f *File) resolve(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if f.Resources.Dir != "" && !filepath.IsAbs(p) {
			p = filepath.Join(f.Resources.Dir, p)
		}
		out[i] = p
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}
