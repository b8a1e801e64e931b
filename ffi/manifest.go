package ffi

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Manifest maps native members to the routines that implement them:
//
//	[natives]
//	"main.exit" = "os.exit"
//
// Members that are not listed are bound to a routine of the same name.
type Manifest struct {
	Natives map[string]string `toml:"natives"`
}

// Routine returns the routine name bound to a native member.
func (m *Manifest) Routine(member string) string {
	if m != nil {
		if name, ok := m.Natives[member]; ok && name != "" {
			return name
		}
	}
	return member
}

// ParseManifest decodes a manifest. Unknown keys are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("parse error in manifest: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown manifest key %q", undecoded[0].String())
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
