package config

import (
	"gopkg.in/yaml.v3"
	domainerr "archivist/internal/domain/errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Root   string       `yaml:"root"`
	Ingest IngestConfig `yaml:"ingest"`
	Images ImagesConfig `yaml:"images"`
	Index  IndexConfig  `yaml:"index"`
	Log    LogConfig    `yaml:"log"`
}

type IngestConfig struct {
	IssuesDir        string        `yaml:"issues_dir"`
	SubjectsFile     string        `yaml:"subjects_file"`
	Output           string        `yaml:"output"`
	SubjectTolerance time.Duration `yaml:"subject_tolerance"`
}

type ImagesConfig struct {
	AssetDir   string        `yaml:"asset_dir"`
	URLPrefix  string        `yaml:"url_prefix"`
	Manifest   string        `yaml:"manifest"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
}

type IndexConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultSubjectTolerance is the widest date gap at which a subject still
// replaces an extracted title.
const DefaultSubjectTolerance = 5 * 24 * time.Hour

func Default() Config {
	return Config{
		Root: ".",
		Ingest: IngestConfig{
			IssuesDir:        ".issues",
			SubjectsFile:     "site/src/data/subjects.json",
			Output:           "site/src/data/issues.json",
			SubjectTolerance: DefaultSubjectTolerance,
		},
		Images: ImagesConfig{
			AssetDir:   "site/src/assets/images/issues",
			URLPrefix:  "/assets/images/issues",
			Manifest:   "site/scripts/image-cache-manifest.json",
			Retries:    2,
			RetryDelay: 500 * time.Millisecond,
			UserAgent:  "archivist/1.0",
		},
		Index: IndexConfig{
			Path: ".archivist/index.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Ingest.IssuesDir) == "" {
		ve.Add("ingest.issues_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Ingest.Output) == "" {
		ve.Add("ingest.output", "must not be empty")
	}
	if c.Ingest.SubjectTolerance < 0 {
		ve.Add("ingest.subject_tolerance", "must not be negative")
	}

	if strings.TrimSpace(c.Images.AssetDir) == "" {
		ve.Add("images.asset_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Images.Manifest) == "" {
		ve.Add("images.manifest", "must not be empty")
	}
	if p := strings.TrimSpace(c.Images.URLPrefix); p == "" {
		ve.Add("images.url_prefix", "must not be empty")
	} else {
		if !strings.HasPrefix(p, "/") {
			ve.Add("images.url_prefix", "must start with '/'")
		}
		if strings.HasSuffix(p, "/") && p != "/" {
			ve.Add("images.url_prefix", "must not end with '/'")
		}
	}
	if c.Images.Retries < 0 {
		ve.Add("images.retries", "must not be negative")
	}
	if c.Images.RetryDelay < 0 {
		ve.Add("images.retry_delay", "must not be negative")
	}
	if c.Images.Timeout < 0 {
		ve.Add("images.timeout", "must not be negative")
	}

	if strings.TrimSpace(c.Index.Path) == "" {
		ve.Add("index.path", "must not be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Addf("log.level", "unknown level %q", c.Log.Level)
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// Path resolves p against Root unless it is already absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	root := c.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, p)
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// values present in the file override defaults, the rest are kept
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but treats a missing file as "use defaults".
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}
