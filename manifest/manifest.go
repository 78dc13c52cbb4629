// Package manifest defines which assets a provisioning run works on. A
// manifest set maps manifest names to ordered asset lists; the resolver
// selects the active subset from the raw mode string.
package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/AspirinCode/ODesign/config"
	"github.com/AspirinCode/ODesign/model"
)

// Built-in manifest names.
const (
	Inference = "inference"
	Training  = "training"
)

var (
	ErrDuplicateName = errors.New("duplicate asset name")
	ErrEmptyLocator  = errors.New("asset locator is empty")
)

// Set maps manifest names to manifests.
type Set map[string]model.Manifest

// Entry is one manifest row as written in a manifest file. Name is optional;
// when empty it is derived from the final path segment of the locator.
type Entry struct {
	URL  string `yaml:"url" json:"url"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// NewSet builds a manifest set from manifest-name to entry-list pairs. Within
// a manifest every asset name must be unique, so each asset maps to a
// distinct file under the target directory.
func NewSet(sources map[string][]Entry) (Set, error) {
	set := make(Set, len(sources))
	for name, entries := range sources {
		m := model.Manifest{
			Name:   name,
			Assets: make([]model.Asset, 0, len(entries)),
		}
		seen := make(map[string]struct{}, len(entries))
		for _, entry := range entries {
			asset, err := assetFromEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("manifest %q: %w", name, err)
			}
			if _, dup := seen[asset.Name]; dup {
				return nil, fmt.Errorf("manifest %q: %w: %s", name, ErrDuplicateName, asset.Name)
			}
			seen[asset.Name] = struct{}{}
			m.Assets = append(m.Assets, asset)
		}
		set[name] = m
	}
	return set, nil
}

// Resolve returns the ordered list of assets active for the given mode: the
// inference manifest always, the training manifest additionally unless mode
// is exactly the inference-only sentinel.
//
// The comparison is a deliberate verbatim string equality: "false", "TRUE",
// a typo, or an explicitly empty mode all select full provisioning. No
// boolean parsing is applied.
func Resolve(set Set, mode string) []model.Asset {
	assets := append([]model.Asset(nil), set[Inference].Assets...)
	if mode != config.ModeInferenceOnly {
		assets = append(assets, set[Training].Assets...)
	}
	return assets
}

func assetFromEntry(entry Entry) (model.Asset, error) {
	if strings.TrimSpace(entry.URL) == "" {
		return model.Asset{}, ErrEmptyLocator
	}
	name := entry.Name
	if name == "" {
		u, err := url.Parse(entry.URL)
		if err != nil {
			return model.Asset{}, fmt.Errorf("parse locator %q: %w", entry.URL, err)
		}
		name = path.Base(u.Path)
	}
	if err := validateName(name); err != nil {
		return model.Asset{}, fmt.Errorf("locator %q: %w", entry.URL, err)
	}
	return model.Asset{Name: name, URL: entry.URL}, nil
}

// validateName rejects names that would escape the target directory or not
// name a file at all.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || name == "/" {
		return fmt.Errorf("invalid asset name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("asset name %q must not contain path separators", name)
	}
	return nil
}
