package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bkyoung/prompt-eval/internal/domain"
	"github.com/bkyoung/prompt-eval/internal/usecase/schema"
)

// LocalRepository loads suite, strategy, and catalog definitions from YAML
// files rooted at a directory. All paths are resolved relative to the root.
// Path traversal attempts are blocked for security.
type LocalRepository struct {
	root string
}

// NewLocalRepository creates a new LocalRepository rooted at the given directory.
func NewLocalRepository(root string) *LocalRepository {
	return &LocalRepository{root: root}
}

// suiteFile is the on-disk shape of a suite definition.
type suiteFile struct {
	Name     string             `yaml:"name"`
	Criteria []domain.Criterion `yaml:"criteria"`
	Cases    []caseFile         `yaml:"cases"`
}

type caseFile struct {
	ID         string `yaml:"id"`
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	ExpectPass bool   `yaml:"expectPass"`
}

// LoadSuite reads and validates a suite definition. Cases without an explicit
// ID get a content-derived one so reruns stay addressable.
func (r *LocalRepository) LoadSuite(path string) (domain.Suite, error) {
	data, err := r.readFile(path)
	if err != nil {
		return domain.Suite{}, err
	}

	var file suiteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Suite{}, fmt.Errorf("parse suite %q: %w", path, err)
	}

	if len(file.Criteria) == 0 {
		return domain.Suite{}, fmt.Errorf("suite %q has no criteria", path)
	}

	seen := make(map[string]bool, len(file.Criteria))
	for i, criterion := range file.Criteria {
		if criterion.ID == "" {
			return domain.Suite{}, fmt.Errorf("suite %q: criterion %d has no id", path, i)
		}
		if seen[criterion.ID] {
			return domain.Suite{}, fmt.Errorf("suite %q: duplicate criterion id %q", path, criterion.ID)
		}
		seen[criterion.ID] = true
		if !domain.KnownKind(criterion.Kind) {
			return domain.Suite{}, fmt.Errorf("suite %q: criterion %q has unknown kind %q", path, criterion.ID, criterion.Kind)
		}
	}

	cases := make([]domain.TestCase, len(file.Cases))
	for i, c := range file.Cases {
		if c.ID != "" {
			cases[i] = domain.TestCase{ID: c.ID, Input: c.Input, Output: c.Output, ExpectedPass: c.ExpectPass}
			continue
		}
		cases[i] = domain.NewTestCase(domain.TestCaseInput{
			Input:        c.Input,
			Output:       c.Output,
			ExpectedPass: c.ExpectPass,
		})
	}

	return domain.Suite{
		Name:     file.Name,
		Criteria: file.Criteria,
		Cases:    cases,
	}, nil
}

// strategyFile is the on-disk shape of a defense strategy catalog.
type strategyFile struct {
	Strategies []domain.DefenseStrategy `yaml:"strategies"`
}

// LoadStrategies reads all defense strategies from a catalog file.
func (r *LocalRepository) LoadStrategies(path string) ([]domain.DefenseStrategy, error) {
	data, err := r.readFile(path)
	if err != nil {
		return nil, err
	}

	var file strategyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse strategies %q: %w", path, err)
	}

	for i, strategy := range file.Strategies {
		if strategy.ID == "" {
			return nil, fmt.Errorf("strategies %q: strategy %d has no id", path, i)
		}
		if strategy.Template == "" {
			return nil, fmt.Errorf("strategies %q: strategy %q has no template", path, strategy.ID)
		}
		if !strategy.HasPlaceholder() {
			return nil, fmt.Errorf("strategies %q: strategy %q has no %s placeholder", path, strategy.ID, domain.UserInputPlaceholder)
		}
	}

	return file.Strategies, nil
}

// LoadStrategy reads one defense strategy by ID from a catalog file.
func (r *LocalRepository) LoadStrategy(path, id string) (domain.DefenseStrategy, error) {
	strategies, err := r.LoadStrategies(path)
	if err != nil {
		return domain.DefenseStrategy{}, err
	}

	for _, strategy := range strategies {
		if strategy.ID == id {
			return strategy, nil
		}
	}

	return domain.DefenseStrategy{}, fmt.Errorf("strategy not found: %s", id)
}

// catalogFile is the on-disk shape of an attack vector catalog.
type catalogFile struct {
	Vectors []domain.AttackVector `yaml:"vectors"`
}

// LoadCatalog reads an attack vector catalog file.
func (r *LocalRepository) LoadCatalog(path string) ([]domain.AttackVector, error) {
	data, err := r.readFile(path)
	if err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", path, err)
	}

	for i, vector := range file.Vectors {
		if vector.Input == "" {
			return nil, fmt.Errorf("catalog %q: vector %d has no input", path, i)
		}
	}

	return file.Vectors, nil
}

// LoadSchema reads a field schema definition file.
func (r *LocalRepository) LoadSchema(path string) (schema.Schema, error) {
	data, err := r.readFile(path)
	if err != nil {
		return schema.Schema{}, err
	}

	var s schema.Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return schema.Schema{}, fmt.Errorf("parse schema %q: %w", path, err)
	}

	if len(s.Fields) == 0 {
		return schema.Schema{}, fmt.Errorf("schema %q has no fields", path)
	}
	for i, field := range s.Fields {
		if field.Name == "" {
			return schema.Schema{}, fmt.Errorf("schema %q: field %d has no name", path, i)
		}
	}

	return s, nil
}

func (r *LocalRepository) readFile(path string) ([]byte, error) {
	resolved, err := r.resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	return os.ReadFile(resolved)
}

// resolvePath resolves a path and validates it's within the repository root.
// It follows symlinks to prevent bypassing the root directory check.
func (r *LocalRepository) resolvePath(path string) (string, error) {
	var resolved string

	if filepath.IsAbs(path) {
		resolved = path
	} else {
		resolved = filepath.Join(r.root, path)
	}

	resolved = filepath.Clean(resolved)

	realRoot, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		realRoot = filepath.Clean(r.root)
	}

	realPath, err := filepath.EvalSymlinks(resolved)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("resolving symlinks: %w", err)
		}
		rel, relErr := filepath.Rel(realRoot, resolved)
		if relErr != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("path traversal detected")
		}
		return resolved, nil
	}

	rel, err := filepath.Rel(realRoot, realPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path traversal detected")
	}

	return realPath, nil
}
