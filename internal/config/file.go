package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"prodguard/internal/flags"
)

// FileConfig is the on-disk configuration read via --config. Pointer fields
// distinguish "absent" from the zero value.
type FileConfig struct {
	ReportOnly *bool             `yaml:"report-only" toml:"report-only"`
	Force      *bool             `yaml:"force" toml:"force"`
	Premium    *bool             `yaml:"premium" toml:"premium"`
	Profiles   []string          `yaml:"profiles" toml:"profiles"`
	Severities map[string]string `yaml:"severities" toml:"severities"`
	Properties map[string]string `yaml:"properties" toml:"properties"`
	Target     *FileTarget       `yaml:"target" toml:"target"`
}

type FileTarget struct {
	Host               *string `yaml:"host" toml:"host"`
	Port               *int    `yaml:"port" toml:"port"`
	Path               *string `yaml:"path" toml:"path"`
	HeadersPath        *string `yaml:"headers-path" toml:"headers-path"`
	InsecureSkipVerify *bool   `yaml:"insecure-skip-verify" toml:"insecure-skip-verify"`
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) config file. Unknown
// keys are rejected.
func LoadFile(path string) (*FileConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF; treat it as an empty config.
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (must be one of: .yaml, .yml, .toml)", ext)
	}
	return &fc, nil
}

// Apply merges the file into c. changed reports whether a flag was set
// explicitly; explicit flags win over file values. Severity and property
// entries are merged, with flag entries placed after the file's so they win
// on conflicting keys.
func (fc *FileConfig) Apply(c *Config, changed func(name string) bool) {
	if fc == nil || c == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	setBool := func(dst *bool, src *bool, name string) {
		if src != nil && !changed(name) {
			*dst = *src
		}
	}
	setString := func(dst *string, src *string, name string) {
		if src != nil && !changed(name) {
			*dst = *src
		}
	}

	setBool(&c.Environment.ReportOnly, fc.ReportOnly, flags.FlagReportOnly)
	setBool(&c.Environment.Force, fc.Force, flags.FlagForce)
	setBool(&c.Checks.Premium, fc.Premium, flags.FlagPremium)

	if len(fc.Profiles) > 0 && !changed(flags.FlagProfile) {
		c.Environment.Profiles = append([]string(nil), fc.Profiles...)
	}

	if len(fc.Severities) > 0 {
		entries := make([]string, 0, len(fc.Severities)+len(c.Checks.Severities))
		for _, code := range sortedKeys(fc.Severities) {
			entries = append(entries, code+"="+fc.Severities[code])
		}
		c.Checks.Severities = append(entries, c.Checks.Severities...)
	}

	if len(fc.Properties) > 0 {
		entries := make([]string, 0, len(fc.Properties)+len(c.Environment.Properties))
		for _, key := range sortedKeys(fc.Properties) {
			entries = append(entries, key+"="+fc.Properties[key])
		}
		c.Environment.Properties = append(entries, c.Environment.Properties...)
	}

	if t := fc.Target; t != nil {
		setString(&c.Target.Host, t.Host, flags.FlagHost)
		setString(&c.Target.Path, t.Path, flags.FlagPath)
		setString(&c.Target.HeadersPath, t.HeadersPath, flags.FlagHeadersPath)
		setBool(&c.Target.InsecureSkipVerify, t.InsecureSkipVerify, flags.FlagInsecureSkipVerify)
		if t.Port != nil && !changed(flags.FlagPort) {
			c.Target.Port = *t.Port
		}
	}
}

// ApplyEnv fills the active profiles from PRODGUARD_PROFILES_ACTIVE when
// --profile was not given. The environment wins over the config file.
func ApplyEnv(c *Config, changed func(name string) bool, lookup func(key string) (string, bool)) {
	if c == nil || lookup == nil {
		return
	}
	if changed != nil && changed(flags.FlagProfile) {
		return
	}
	v, ok := lookup(flags.EnvProfilesActive)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	c.Environment.Profiles = splitCommaList([]string{v})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
