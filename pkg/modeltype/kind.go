package modeltype

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

var ErrUnknownKind = errors.New("unknown model kind")

// Kind is one of the supported model file categories.
type Kind int

const (
	Checkpoint Kind = iota + 1
	Hypernetwork
	LoRA
	TextualInversion
)

type kindInfo struct {
	name       string
	label      string
	namespace  string
	dir        string
	extensions []string
}

// Declaration order matters: Match breaks ties on the first kind listed here.
var kinds = []Kind{Checkpoint, Hypernetwork, LoRA, TextualInversion}

var infos = map[Kind]kindInfo{
	Checkpoint: {
		name:       "Checkpoint",
		label:      "Checkpoints",
		namespace:  "checkpoint",
		dir:        "Stable-diffusion",
		extensions: []string{".safetensors", ".ckpt"},
	},
	Hypernetwork: {
		name:       "Hypernetwork",
		label:      "Hypernetworks",
		namespace:  "hypernet",
		dir:        "hypernetworks",
		extensions: []string{".pt"},
	},
	LoRA: {
		name:       "LoRA",
		label:      "LoRA",
		namespace:  "lora",
		dir:        "Lora",
		extensions: []string{".safetensors", ".pt", ".ckpt"},
	},
	TextualInversion: {
		name:       "Textual_Inversion",
		label:      "Textual Inversion",
		namespace:  "textual_inversion",
		dir:        "embeddings",
		extensions: []string{".pt", ".bin", ".safetensors"},
	},
}

// All returns every kind in declaration order.
func All() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) Valid() bool {
	_, ok := infos[k]
	return ok
}

// Tag is the ordinal as stored in the model_type column.
func (k Kind) Tag() string {
	return strconv.Itoa(int(k))
}

func (k Kind) String() string {
	if info, ok := infos[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label is the human readable plural used in summaries.
func (k Kind) Label() string {
	return infos[k].label
}

// Namespace prefixes hash cache titles so equal bytes in different kinds never share an entry.
func (k Kind) Namespace() string {
	return infos[k].namespace
}

// Dir is the conventional sub-directory of the models root.
func (k Kind) Dir() string {
	return infos[k].dir
}

func (k Kind) Extensions() []string {
	exts := infos[k].extensions
	out := make([]string, len(exts))
	copy(out, exts)
	return out
}

// HasExtension reports whether name ends with one of the kind's file extensions.
func (k Kind) HasExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range infos[k].extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FromTag parses a persisted model_type value.
func FromTag(tag string) (Kind, error) {
	n, err := strconv.Atoi(strings.TrimSpace(tag))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}
	k := Kind(n)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
	}
	return k, nil
}

// Parse is an exact, case-insensitive lookup by name, label or ordinal.
func Parse(s string) (Kind, error) {
	needle := normalize(s)
	for _, k := range kinds {
		info := infos[k]
		if needle == strings.ToLower(info.name) || needle == normalize(info.label) || needle == k.Tag() {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Match returns the kind whose name is closest to s by edit distance.
// Human typed labels such as "check points" or "texual inversion" resolve to their kind.
func Match(s string) Kind {
	needle := normalize(s)
	best := kinds[0]
	bestDistance := math.MaxInt
	for _, k := range kinds {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(infos[k].name))
		if d < bestDistance {
			bestDistance = d
			best = k
		}
	}
	return best
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
