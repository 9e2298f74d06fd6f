// Package loader reads alias rules from project configuration: the
// compilerOptions.paths of a tsconfig.json or jsconfig.json, or a YAML rule list.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/SamuelMarks/go-import-helper/pkg/alias"
)

// ConfigNames are the file names FindTSConfig looks for, in order.
var ConfigNames = []string{"tsconfig.json", "jsconfig.json"}

// ErrConfigNotFound is returned by FindTSConfig when no directory holds a config.
var ErrConfigNotFound = errors.New("no tsconfig.json or jsconfig.json found")

// maxExtends bounds the "extends" chain.
const maxExtends = 16

type tsConfig struct {
	Extends         string `json:"extends"`
	CompilerOptions struct {
		BaseURL *string             `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadTSConfig reads the path mappings of a tsconfig.json and returns one rule
// per mapping target, sorted by specificity.
// Comments and trailing commas are tolerated. A relative "extends" is followed,
// and options of the extending file override the base.
//
// path: The config file.
func LoadTSConfig(path string) ([]alias.Rule, error) {
	baseURL, baseDir, paths, err := readTSConfig(path, 0)
	if err != nil {
		return nil, err
	}

	root := filepath.Join(baseDir, baseURL)
	var rules []alias.Rule
	for _, pattern := range slices.Sorted(maps.Keys(paths)) {
		for _, target := range paths[pattern] {
			rules = append(rules, alias.Rule{
				Pattern: pattern,
				Target:  target,
				BaseDir: filepath.ToSlash(root),
			})
		}
	}
	alias.SortBySpecificity(rules)
	return rules, nil
}

// readTSConfig resolves the extends chain and returns the effective baseUrl,
// the directory it is relative to and the paths mapping.
func readTSConfig(path string, depth int) (string, string, map[string][]string, error) {
	if depth > maxExtends {
		return "", "", nil, fmt.Errorf("%s: extends chain deeper than %d", path, maxExtends)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", nil, err
	}
	data, err = StripJSONC(data)
	if err != nil {
		return "", "", nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var cfg tsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", "", nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	baseURL, baseDir, paths := ".", dir, map[string][]string(nil)
	if strings.HasPrefix(cfg.Extends, ".") {
		parent := filepath.Join(dir, cfg.Extends)
		if !strings.HasSuffix(parent, ".json") {
			parent += ".json"
		}
		baseURL, baseDir, paths, err = readTSConfig(parent, depth+1)
		if err != nil {
			return "", "", nil, fmt.Errorf("extends %s: %w", cfg.Extends, err)
		}
	}

	if cfg.CompilerOptions.BaseURL != nil {
		baseURL, baseDir = *cfg.CompilerOptions.BaseURL, dir
	}
	if cfg.CompilerOptions.Paths != nil {
		paths = cfg.CompilerOptions.Paths
	}
	return baseURL, baseDir, paths, nil
}

// LoadRulesFile reads a YAML list of rules. Rules keep their file order and a
// relative base_dir is resolved against the file's directory.
//
// path: The YAML file.
func LoadRulesFile(path string) ([]alias.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rules []alias.Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, r := range rules {
		if r.Pattern == "" || r.Target == "" {
			return nil, fmt.Errorf("%s: rule %d needs pattern and target", path, i)
		}
		if !filepath.IsAbs(r.BaseDir) {
			rules[i].BaseDir = filepath.ToSlash(filepath.Join(dir, r.BaseDir))
		}
	}
	return rules, nil
}

// FindTSConfig walks up from start and returns the first config file found.
//
// start: A file or directory inside the project.
func FindTSConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range ConfigNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}
		dir = parent
	}
}

// StripJSONC turns the JSON-with-comments dialect of tsconfig files into
// standard JSON: comments are blanked out and trailing commas dropped.
func StripJSONC(data []byte) ([]byte, error) {
	return hujson.Standardize(data)
}
