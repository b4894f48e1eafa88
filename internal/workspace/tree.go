// Package workspace creates the working directory layout and persists
// uploaded blobs inside it.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tenderkit/internal/document"
)

// StandardDirs is the layout created by EnsureTree, parents first
var StandardDirs = []string{
	"data",
	"data/uploads",
	"data/processed",
	"reports",
	"models",
	"models/cache",
	"models/embeddings",
	"logs",
}

// ErrInvalidName is returned for tree entries that are not plain names
var ErrInvalidName = errors.New("invalid tree entry name")

// EnsureTree creates the standard directories under base. It is idempotent.
func EnsureTree(base string) error {
	if base == "" {
		base = "."
	}

	for _, dir := range StandardDirs {
		path := filepath.Join(base, filepath.FromSlash(dir))
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}

	return nil
}

// Tree maps directory names to their contents
type Tree map[string]Node

// Node is a directory with subdirectories and empty files to create in it
type Node struct {
	Children Tree
	Files    []string
}

// ParseTree builds a Tree from a decoded document: a mapping is a
// subdirectory, a list of strings names files inside the directory and an
// empty value is an empty directory.
func ParseTree(raw map[string]any) (Tree, error) {
	tree := make(Tree, len(raw))

	for name, value := range raw {
		if err := checkName(name); err != nil {
			return nil, err
		}

		node, err := parseNode(name, value)
		if err != nil {
			return nil, err
		}

		tree[name] = node
	}

	return tree, nil
}

func parseNode(name string, value any) (Node, error) {
	switch v := value.(type) {
	case nil:
		return Node{}, nil
	case map[string]any:
		children, err := ParseTree(v)
		if err != nil {
			return Node{}, fmt.Errorf("%s: %w", name, err)
		}

		return Node{Children: children}, nil
	case []any:
		files := make([]string, 0, len(v))

		for _, item := range v {
			file, ok := item.(string)
			if !ok {
				return Node{}, fmt.Errorf("%w: %s: file names must be strings, got %v", document.ErrMalformed, name, item)
			}

			if err := checkName(file); err != nil {
				return Node{}, fmt.Errorf("%s: %w", name, err)
			}

			files = append(files, file)
		}

		return Node{Files: files}, nil
	case []string:
		return parseNode(name, toAnySlice(v))
	default:
		return Node{}, fmt.Errorf("%w: %s: expected a mapping or a list, got %T", document.ErrMalformed, name, value)
	}
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}

	return out
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

// LoadTree reads a Tree from a .toml, .yaml, .yml or .json file
func LoadTree(path string) (Tree, error) {
	var raw map[string]any

	if err := document.DecodeFile(path, &raw); err != nil {
		return nil, err
	}

	tree, err := ParseTree(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return tree, nil
}

// MaterializeTree creates the directories of tree under base and each listed
// file empty unless it already exists. Existing files are never truncated.
func MaterializeTree(base string, tree Tree) error {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", base, err)
	}

	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := checkName(name); err != nil {
			return err
		}

		node := tree[name]
		dir := filepath.Join(base, name)

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		for _, file := range node.Files {
			if err := checkName(file); err != nil {
				return err
			}

			if err := touch(filepath.Join(dir, file)); err != nil {
				return err
			}
		}

		if len(node.Children) > 0 {
			if err := MaterializeTree(dir, node.Children); err != nil {
				return err
			}
		}
	}

	return nil
}

func touch(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	return f.Close()
}
