package trimarea

import (
	"fmt"
	"slices"
	"strings"
)

// Platform identifies a device family. Boot log offsets differ per family.
type Platform uint8

// Known device families, oldest first.
const (
	PlatformLoire Platform = iota + 1
	PlatformTone
	PlatformYoshino
	PlatformNile
	PlatformTama
	PlatformGanges
	PlatformKumano
	PlatformSeine
	PlatformEdo
	PlatformLena
	PlatformSagami
)

var platformNames = map[Platform]string{
	PlatformLoire:   "loire",
	PlatformTone:    "tone",
	PlatformYoshino: "yoshino",
	PlatformNile:    "nile",
	PlatformTama:    "tama",
	PlatformGanges:  "ganges",
	PlatformKumano:  "kumano",
	PlatformSeine:   "seine",
	PlatformEdo:     "edo",
	PlatformLena:    "lena",
	PlatformSagami:  "sagami",
}

// bootlogOffsets maps each family to its boot log slots in order.
// Families without an entry have not been mapped yet.
var bootlogOffsets = map[Platform][]int64{
	PlatformTama: {
		0x2A22E, 0x2DA22, 0x31CEE, 0x3542A, 0x38C46,
		0x3C7A2, 0x65412, 0x68C2E, 0x6C78A, 0x70A2E,
	},
}

// Platforms returns all known device families in declaration order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platformNames))
	for p := range platformNames {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ParsePlatform looks up a device family by name, ignoring case.
func ParsePlatform(name string) (Platform, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for p, n := range platformNames {
		if n == want {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
}

func (p Platform) String() string {
	if n, ok := platformNames[p]; ok {
		return n
	}
	return fmt.Sprintf("platform(%d)", uint8(p))
}

// BootlogOffsets returns the boot log slot offsets for the family.
// Families whose layout is unknown return ErrNotImplemented.
func (p Platform) BootlogOffsets() ([]int64, error) {
	if _, ok := platformNames[p]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
	offsets, ok := bootlogOffsets[p]
	if !ok {
		return nil, fmt.Errorf("%w: no boot log offsets for %s", ErrNotImplemented, p)
	}
	return slices.Clone(offsets), nil
}

// Bootlogs returns the boot log fields for the family, numbered from 1.
func (p Platform) Bootlogs() ([]Field, error) {
	offsets, err := p.BootlogOffsets()
	if err != nil {
		return nil, err
	}
	fields := make([]Field, len(offsets))
	for i, off := range offsets {
		fields[i] = Field{
			Name:   fmt.Sprintf("bootlog%d", i+1),
			Offset: off,
			Length: BootlogSize,
			Kind:   KindRaw,
		}
	}
	return fields, nil
}
