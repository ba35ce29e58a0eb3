/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package capstore

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/capstore/errors"
)

// IndexStrategy selects how a Composition builds its tag index.
type IndexStrategy int

const (
	// IndexNone builds no index; tag queries always linear-scan.
	IndexNone IndexStrategy = iota
	// IndexEager indexes every tag of every tagged capability at Build.
	IndexEager
	// IndexAuto indexes only once the bag holds at least AutoIndexThreshold
	// capabilities, and then only tags shared by at least IndexMinFrequency
	// of them. Below either threshold it behaves as IndexNone.
	IndexAuto
)

func (s IndexStrategy) String() string {
	switch s {
	case IndexNone:
		return "none"
	case IndexEager:
		return "eager"
	case IndexAuto:
		return "auto"
	default:
		return fmt.Sprintf("IndexStrategy(%d)", int(s))
	}
}

// ParseIndexStrategy parses the string form used in YAML and environment
// configuration.
func ParseIndexStrategy(s string) (IndexStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return IndexNone, nil
	case "eager":
		return IndexEager, nil
	case "auto":
		return IndexAuto, nil
	default:
		return IndexNone, errors.NewValidationError("tagIndexStrategy",
			fmt.Sprintf("unknown strategy %q (want none, eager or auto)", s))
	}
}

// MarshalYAML encodes the strategy as its string form.
func (s IndexStrategy) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes the string form.
func (s *IndexStrategy) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseIndexStrategy(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Default Auto-strategy thresholds. Small bags (the common case) skip
// index construction entirely; large plugin-discovery-sized bags index
// tags frequent enough to beat repeated linear scans.
const (
	DefaultIndexMinFrequency  = 4
	DefaultAutoIndexThreshold = 64
)

// Options carries per-Build configuration: the tag-indexing strategy and
// its two Auto-mode thresholds. The zero value is usable and equals
// DefaultOptions apart from the strategy, which defaults to IndexNone.
type Options struct {
	TagIndexStrategy   IndexStrategy `yaml:"tagIndexStrategy"`
	IndexMinFrequency  int           `yaml:"indexMinFrequency"`
	AutoIndexThreshold int           `yaml:"autoIndexThreshold"`
}

// DefaultOptions returns the canonical defaults: no index, with Auto
// thresholds pre-filled for callers that switch the strategy on.
func DefaultOptions() Options {
	return Options{
		TagIndexStrategy:   IndexNone,
		IndexMinFrequency:  DefaultIndexMinFrequency,
		AutoIndexThreshold: DefaultAutoIndexThreshold,
	}
}

// normalized fills unset thresholds with defaults.
func (o Options) normalized() Options {
	if o.IndexMinFrequency <= 0 {
		o.IndexMinFrequency = DefaultIndexMinFrequency
	}
	if o.AutoIndexThreshold <= 0 {
		o.AutoIndexThreshold = DefaultAutoIndexThreshold
	}
	return o
}

// ParseOptions decodes YAML options from r.
func ParseOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&opts); err != nil {
		if err == io.EOF {
			return opts, nil
		}
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	return opts.normalized(), nil
}

// LoadOptions reads YAML options from path.
func LoadOptions(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("load options: %w", err)
	}
	defer f.Close()
	return ParseOptions(f)
}

// Environment variable names for OptionsFromEnv.
const (
	EnvTagIndexStrategy   = "CAPSTORE_TAG_INDEX"
	EnvIndexMinFrequency  = "CAPSTORE_INDEX_MIN_FREQUENCY"
	EnvAutoIndexThreshold = "CAPSTORE_AUTO_INDEX_THRESHOLD"
)

// OptionsFromEnv builds Options from environment variables, loading the
// supplied dotenv files first (a missing default .env is not an error).
// Unset variables keep their defaults.
func OptionsFromEnv(dotenvFiles ...string) (Options, error) {
	if len(dotenvFiles) > 0 {
		if err := godotenv.Load(dotenvFiles...); err != nil {
			return Options{}, fmt.Errorf("load dotenv: %w", err)
		}
	} else {
		// Best-effort load of ./.env, matching local-development workflows.
		_ = godotenv.Load()
	}

	opts := DefaultOptions()
	if raw, ok := os.LookupEnv(EnvTagIndexStrategy); ok {
		strategy, err := ParseIndexStrategy(raw)
		if err != nil {
			return Options{}, err
		}
		opts.TagIndexStrategy = strategy
	}
	if raw, ok := os.LookupEnv(EnvIndexMinFrequency); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Options{}, errors.NewValidationError(EnvIndexMinFrequency,
				fmt.Sprintf("want a positive integer, got %q", raw))
		}
		opts.IndexMinFrequency = n
	}
	if raw, ok := os.LookupEnv(EnvAutoIndexThreshold); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Options{}, errors.NewValidationError(EnvAutoIndexThreshold,
				fmt.Sprintf("want a positive integer, got %q", raw))
		}
		opts.AutoIndexThreshold = n
	}
	return opts, nil
}
