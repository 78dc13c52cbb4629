package manifest

import (
	"testing"

	"github.com/AspirinCode/ODesign/model"
	"github.com/stretchr/testify/require"
)

func testSet(t *testing.T) Set {
	t.Helper()
	set, err := NewSet(map[string][]Entry{
		Inference: {
			{URL: "https://example.org/release/components.cif"},
			{URL: "https://example.org/release/components.cif.rdkit_mol.pkl"},
		},
		Training: {
			{URL: "https://example.org/release/clusters.txt"},
		},
	})
	require.NoError(t, err)
	return set
}

func TestNewSet_DerivesNamesFromLocatorTail(t *testing.T) {
	set := testSet(t)

	assets := set[Inference].Assets
	require.Len(t, assets, 2)
	require.Equal(t, "components.cif", assets[0].Name)
	require.Equal(t, "components.cif.rdkit_mol.pkl", assets[1].Name)
	require.Equal(t, "https://example.org/release/components.cif", assets[0].URL)
}

func TestNewSet_NameIgnoresQueryString(t *testing.T) {
	set, err := NewSet(map[string][]Entry{
		Inference: {{URL: "https://example.org/release/components.cif?version=2"}},
	})
	require.NoError(t, err)
	require.Equal(t, "components.cif", set[Inference].Assets[0].Name)
}

func TestNewSet_ExplicitNameOverride(t *testing.T) {
	set, err := NewSet(map[string][]Entry{
		Inference: {{URL: "https://mirror.example.org/ccd/2024", Name: "components.cif"}},
	})
	require.NoError(t, err)
	require.Equal(t, "components.cif", set[Inference].Assets[0].Name)
}

func TestNewSet_PreservesOrder(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.org/c.bin"},
		{URL: "https://example.org/a.bin"},
		{URL: "https://example.org/b.bin"},
	}
	set, err := NewSet(map[string][]Entry{Training: entries})
	require.NoError(t, err)

	got := make([]string, 0, 3)
	for _, a := range set[Training].Assets {
		got = append(got, a.Name)
	}
	require.Equal(t, []string{"c.bin", "a.bin", "b.bin"}, got)
}

func TestNewSet_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{
			name:    "empty locator",
			entries: []Entry{{URL: "   "}},
			wantErr: "asset locator is empty",
		},
		{
			name: "duplicate derived names",
			entries: []Entry{
				{URL: "https://a.example.org/components.cif"},
				{URL: "https://b.example.org/components.cif"},
			},
			wantErr: "duplicate asset name",
		},
		{
			name:    "locator without file name",
			entries: []Entry{{URL: "https://example.org/"}},
			wantErr: "invalid asset name",
		},
		{
			name:    "explicit name with path separator",
			entries: []Entry{{URL: "https://example.org/x.bin", Name: "sub/x.bin"}},
			wantErr: "must not contain path separators",
		},
		{
			name:    "explicit name escaping the target directory",
			entries: []Entry{{URL: "https://example.org/x.bin", Name: ".."}},
			wantErr: "invalid asset name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(map[string][]Entry{Inference: tt.entries})
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolve_ModeSelection(t *testing.T) {
	set := testSet(t)

	tests := []struct {
		name string
		mode string
		want []string
	}{
		{
			name: "exact sentinel selects inference only",
			mode: "true",
			want: []string{"components.cif", "components.cif.rdkit_mol.pkl"},
		},
		{
			name: "false selects full provisioning",
			mode: "false",
			want: []string{"components.cif", "components.cif.rdkit_mol.pkl", "clusters.txt"},
		},
		{
			name: "empty string selects full provisioning",
			mode: "",
			want: []string{"components.cif", "components.cif.rdkit_mol.pkl", "clusters.txt"},
		},
		{
			name: "uppercase TRUE is not the sentinel",
			mode: "TRUE",
			want: []string{"components.cif", "components.cif.rdkit_mol.pkl", "clusters.txt"},
		},
		{
			name: "padded sentinel is not the sentinel",
			mode: " true",
			want: []string{"components.cif", "components.cif.rdkit_mol.pkl", "clusters.txt"},
		},
		{
			name: "arbitrary value selects full provisioning",
			mode: "tru",
			want: []string{"components.cif", "components.cif.rdkit_mol.pkl", "clusters.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets := Resolve(set, tt.mode)
			got := make([]string, 0, len(assets))
			for _, a := range assets {
				got = append(got, a.Name)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_MissingManifestsResolveEmpty(t *testing.T) {
	assets := Resolve(Set{}, "")
	require.Empty(t, assets)
}

func TestResolve_DoesNotMutateSet(t *testing.T) {
	set := testSet(t)

	full := Resolve(set, "false")
	full[0] = model.Asset{Name: "mutated", URL: "mutated"}

	require.Equal(t, "components.cif", set[Inference].Assets[0].Name)
}

func TestDefaultSet(t *testing.T) {
	set := DefaultSet()

	inference := set[Inference].Assets
	require.Len(t, inference, 2)
	require.Equal(t, "components.v20240608.cif", inference[0].Name)
	require.Equal(t, "components.v20240608.cif.rdkit_mol.pkl", inference[1].Name)

	require.Empty(t, set[Training].Assets)
}
