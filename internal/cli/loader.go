package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kobocore/supplemental/internal/registry"
	"github.com/kobocore/supplemental/internal/router"
)

// LoadDocument reads a YAML or JSON file into a JSON-shaped document.
// JSON is a YAML subset, so one decoder covers both.
func LoadDocument(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// fileAsset adapts a config file on disk to the router's Asset contract.
type fileAsset struct {
	uid      string
	features map[string]any
}

func (a fileAsset) UID() string                      { return a.uid }
func (a fileAsset) AdvancedFeatures() map[string]any { return a.features }

// loadAsset reads and validates an advanced-features document, returning
// it as a router.Asset.
func loadAsset(reg *registry.Registry, uid, configPath string) (router.Asset, error) {
	features, err := LoadDocument(configPath)
	if err != nil {
		return nil, err
	}
	if err := reg.ValidateConfig(features); err != nil {
		return nil, fmt.Errorf("config %s: %w", configPath, err)
	}
	return fileAsset{uid: uid, features: features}, nil
}
