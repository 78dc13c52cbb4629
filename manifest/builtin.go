package manifest

// releaseData is the remote root for the released model-support files.
const releaseData = "https://af3-dev.tos-cn-beijing.volces.com/release_data"

// DefaultSet returns the built-in manifest set. The inference manifest holds
// the chemical component dictionary and its precomputed molecule cache; the
// training manifest is currently empty and exists so full-mode runs pick up
// training-only assets as soon as they are published.
func DefaultSet() Set {
	set, err := NewSet(map[string][]Entry{
		Inference: {
			{URL: releaseData + "/components.v20240608.cif"},
			{URL: releaseData + "/components.v20240608.cif.rdkit_mol.pkl"},
		},
		Training: {},
	})
	if err != nil {
		panic("manifest: invalid built-in manifest set: " + err.Error())
	}
	return set
}
