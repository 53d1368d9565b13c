package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"sgtool/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	DumpConfig struct {
		Formats []common.DumpFmt `yaml:"formats" validate:"min=1,dive,gte=0,lte=2"`
		Suffix  string           `yaml:"suffix" validate:"required,excludesall=/\\"`
		// 0 means whole content is shown in text dump.
		ContentLimit int `yaml:"content_limit" validate:"gte=0"`
	}

	ResaveConfig struct {
		Suffix    string `yaml:"suffix" validate:"excludesall=/\\"`
		Extension string `yaml:"extension" validate:"required,startswith=."`
	}

	DocumentConfig struct {
		Extensions            []string     `yaml:"extensions" validate:"min=1,dive,startswith=."`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
		Dump                  DumpConfig   `yaml:"dump"`
		Resave                ResaveConfig `yaml:"resave"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// resaved file with empty suffix and one of the input extensions would
// overwrite the source when written next to it
func documentChecks(sl validator.StructLevel) {
	var doc DocumentConfig
	switch cfg := sl.Current().Interface().(type) {
	case Config:
		doc = cfg.Document
	case *Config:
		doc = cfg.Document
	default:
		return
	}
	if doc.Resave.Suffix != "" {
		return
	}
	for _, ext := range doc.Extensions {
		if strings.EqualFold(ext, doc.Resave.Extension) {
			sl.ReportError(doc.Resave.Suffix, "Document.Resave.Suffix", "Suffix", "required_for_same_extension", ext)
			return
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(documentChecks)); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg, err = unmarshalConfig(data, cfg, haveFile); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
