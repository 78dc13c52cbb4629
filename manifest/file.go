package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a manifest set override from a YAML file. The file maps
// manifest names to entry lists:
//
//	inference:
//	  - url: https://example.org/components.cif
//	  - url: https://example.org/mirror/ccd.pkl
//	    name: components.cif.rdkit_mol.pkl
//	training: []
//
// Only the built-in manifest names are accepted; a name missing from the
// file simply resolves to no assets.
func Load(path string) (Set, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	var raw map[string][]Entry
	if err := yaml.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest file %s: %w", path, err)
	}

	for name := range raw {
		switch name {
		case Inference, Training:
		default:
			return nil, fmt.Errorf("manifest file %s: unknown manifest %q", path, name)
		}
	}

	set, err := NewSet(raw)
	if err != nil {
		return nil, fmt.Errorf("manifest file %s: %w", path, err)
	}
	return set, nil
}
