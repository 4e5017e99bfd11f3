// Package loader holds content loaders to pair with watcher.Load:
//
//	watcher.Load(loader.YAML, func(doc map[string]any, path string) { ... })
package loader

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Bytes reads the whole file.
func Bytes(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func Text(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// YAML decodes the file into a generic document.
func YAML(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("loader :: decode %s: %w", path, err)
	}
	return doc, nil
}

// YAMLInto returns a loader decoding into a fresh T.
func YAMLInto[T any]() func(path string) (T, error) {
	return func(path string) (T, error) {
		var v T
		b, err := os.ReadFile(path)
		if err != nil {
			return v, err
		}
		if err := yaml.Unmarshal(b, &v); err != nil {
			return v, fmt.Errorf("loader :: decode %s: %w", path, err)
		}
		return v, nil
	}
}

// Digest is the hex BLAKE2b-256 sum of the file content.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("loader :: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
