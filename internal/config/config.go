// Package config loads mdxgen's YAML configuration.
//
// The file is optional: a missing file yields Default(). Environment
// variables are expanded in the YAML before decoding, after .env files in
// the working directory have been loaded.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "mdxgen.yaml"

// Config is the full configuration.
type Config struct {
	Notebooks NotebooksConfig `yaml:"notebooks"`
	APIDocs   APIDocsConfig   `yaml:"apidocs"`
	Output    OutputConfig    `yaml:"output"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// NotebooksConfig drives notebook conversion.
type NotebooksConfig struct {
	ExamplesDir  string      `yaml:"examples_dir"`
	OutputDir    string      `yaml:"output_dir"`
	ShowOutputs  bool        `yaml:"show_outputs"`
	Language     string      `yaml:"language"`
	ImagesPrefix string      `yaml:"images_prefix"`
	Colab        ColabConfig `yaml:"colab"`
}

// ColabConfig controls the "Open in Colab" badge on batch-converted notebooks.
type ColabConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Repository   string `yaml:"repository"`
	Branch       string `yaml:"branch"`
	DetectRemote bool   `yaml:"detect_remote"`
}

// APIDocsConfig drives API reference generation.
type APIDocsConfig struct {
	SourceDir   string   `yaml:"source_dir"`
	OutputDir   string   `yaml:"output_dir"`
	Packages    []string `yaml:"packages"`
	VerifyLinks bool     `yaml:"verify_links"`
}

// OutputConfig applies to every generated page.
type OutputConfig struct {
	Extension   string `yaml:"extension"`
	Fingerprint bool   `yaml:"fingerprint"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Notebooks: NotebooksConfig{
			ExamplesDir:  "../Trace/examples",
			OutputDir:    "content/docs/tutorials",
			Language:     "python",
			ImagesPrefix: "/images",
			Colab: ColabConfig{
				Enabled:    true,
				Repository: "AgentOpt/Trace",
				Branch:     "main",
			},
		},
		APIDocs: APIDocsConfig{
			SourceDir:   "../Trace/opto",
			OutputDir:   "content/docs/api-reference",
			Packages:    []string{"trace", "optimizers", "trainer", "utils"},
			VerifyLinks: true,
		},
		Output: OutputConfig{Extension: ".mdx"},
	}
}

// Load reads configPath over the defaults. A missing file is not an error
// unless required is set.
func Load(configPath string, required bool) (*Config, error) {
	loadEnvFiles()

	cfg := Default()

	// #nosec G304 -- configPath is supplied by the operator.
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, ferrors.NotFoundError("configuration file not found").WithContext("path", configPath).Build()
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", configPath).
			Build()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make a run meaningless.
func (c *Config) Validate() error {
	err := validation.Errors{
		"notebooks": c.Notebooks.validate(),
		"apidocs":   c.APIDocs.validate(),
		"output":    c.Output.validate(),
	}.Filter()
	if err == nil {
		return nil
	}
	return ferrors.ConfigError("invalid configuration").
		WithContext("problems", strings.Join(flattenProblems("", err), "; ")).
		Build()
}

func (n NotebooksConfig) validate() error {
	return validation.Errors{
		"examples_dir": validation.Validate(n.ExamplesDir, validation.Required),
		"output_dir":   validation.Validate(n.OutputDir, validation.Required),
		"colab":        n.Colab.validate(),
	}.Filter()
}

func (c ColabConfig) validate() error {
	// A detected remote supplies both values.
	needsStatic := c.Enabled && !c.DetectRemote
	return validation.Errors{
		"repository": validation.Validate(c.Repository, validation.When(needsStatic, validation.Required)),
		"branch":     validation.Validate(c.Branch, validation.When(needsStatic, validation.Required)),
	}.Filter()
}

func (a APIDocsConfig) validate() error {
	return validation.Errors{
		"source_dir": validation.Validate(a.SourceDir, validation.Required),
		"output_dir": validation.Validate(a.OutputDir, validation.Required),
	}.Filter()
}

func (o OutputConfig) validate() error {
	return validation.Errors{
		"extension": validation.Validate(o.Extension,
			validation.Required,
			validation.Match(extensionPattern).Error("must be a dot followed by letters or digits")),
	}.Filter()
}

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// flattenProblems turns nested validation errors into sorted "a.b: msg" lines.
func flattenProblems(prefix string, err error) []string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return []string{prefix + ": " + err.Error()}
	}
	var out []string
	for key, sub := range errs {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		out = append(out, flattenProblems(name, sub)...)
	}
	sort.Strings(out)
	return out
}

// Init writes the default configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
