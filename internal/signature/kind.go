package signature

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies an extractable asset type.
type Kind int

const (
	KindOgg Kind = iota
	KindPNG
	KindWEBP
	KindKTX
	KindRBXM
)

// Group is the coarse category an asset kind belongs to.
type Group string

const (
	GroupAudio    Group = "audio"
	GroupImages   Group = "images"
	GroupTextures Group = "textures"
	GroupModels   Group = "models"
)

type entry struct {
	name      string
	extension string
	group     Group
	markers   [][]byte
}

var (
	ktxIdentifier = []byte{0xab, 'K', 'T', 'X', ' ', '1', '1', 0xbb, '\r', '\n', 0x1a, '\n'}
	pngHeader     = []byte{0x89, 'P', 'N', 'G'}
	rbxmMarker    = []byte("<roblox!")
)

var catalog = [...]entry{
	KindOgg:  {name: "ogg", extension: ".ogg", group: GroupAudio, markers: [][]byte{[]byte("OggS")}},
	KindPNG:  {name: "png", extension: ".png", group: GroupImages, markers: [][]byte{pngHeader, []byte("PNG")}},
	KindWEBP: {name: "webp", extension: ".webp", group: GroupImages, markers: [][]byte{[]byte("WEBP")}},
	KindKTX:  {name: "ktx", extension: ".ktx", group: GroupTextures, markers: [][]byte{ktxIdentifier, []byte("KTX")}},
	KindRBXM: {name: "rbxm", extension: ".rbxm", group: GroupModels, markers: [][]byte{rbxmMarker}},
}

// All returns every kind in detection order.
func All() []Kind {
	return []Kind{KindOgg, KindPNG, KindWEBP, KindKTX, KindRBXM}
}

// Valid reports whether k is a catalog kind.
func (k Kind) Valid() bool {
	return k >= KindOgg && k <= KindRBXM
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return catalog[k].name
}

// Extension returns the canonical output extension including the dot.
func (k Kind) Extension() string {
	if !k.Valid() {
		return ""
	}
	return catalog[k].extension
}

// Group returns the coarse group for k.
func (k Kind) Group() Group {
	if !k.Valid() {
		return ""
	}
	return catalog[k].group
}

// Markers returns copies of the byte sequences that indicate k is present.
func (k Kind) Markers() [][]byte {
	if !k.Valid() {
		return nil
	}
	out := make([][]byte, len(catalog[k].markers))
	for i, m := range catalog[k].markers {
		out[i] = slices.Clone(m)
	}
	return out
}

// ParseKind resolves a kind from its short name ("ogg", "png", ...).
func ParseKind(name string) (Kind, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, k := range All() {
		if catalog[k].name == needle {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown asset type %q", name)
}

// ParseKinds resolves names and returns them in detection order without duplicates.
func ParseKinds(names []string) ([]Kind, error) {
	set := make(map[Kind]struct{}, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		set[k] = struct{}{}
	}
	return Ordered(set), nil
}

// Ordered returns the members of set in detection order.
func Ordered(set map[Kind]struct{}) []Kind {
	out := make([]Kind, 0, len(set))
	for _, k := range All() {
		if _, ok := set[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
