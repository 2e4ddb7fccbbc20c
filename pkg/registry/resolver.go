package registry

import (
	"fmt"

	"model-notes-be/pkg/modeltype"
)

// Resolver maps (kind, name) pairs to content hashes across all registries.
type Resolver struct {
	registries map[modeltype.Kind]Registry
}

func NewResolver(registries ...Registry) *Resolver {
	r := &Resolver{registries: make(map[modeltype.Kind]Registry, len(registries))}
	for _, reg := range registries {
		r.registries[reg.Kind()] = reg
	}
	return r
}

// NewDirResolver builds one DirRegistry per kind from a directory map,
// sharing a single hash cache.
func NewDirResolver(dirs map[modeltype.Kind]string) *Resolver {
	hasher := NewHasher()
	regs := make([]Registry, 0, len(dirs))
	for _, kind := range modeltype.All() {
		if dir, ok := dirs[kind]; ok && dir != "" {
			regs = append(regs, NewDirRegistry(kind, dir, hasher))
		}
	}
	return NewResolver(regs...)
}

func (r *Resolver) ListNames(kind modeltype.Kind) []string {
	reg, ok := r.registries[kind]
	if !ok {
		return nil
	}
	return reg.ListNames()
}

func (r *Resolver) ResolvePath(kind modeltype.Kind, name string) (string, bool) {
	reg, ok := r.registries[kind]
	if !ok || name == "" {
		return "", false
	}
	return reg.ResolvePath(name)
}

// Hash returns the content hash or an error wrapping ErrUnknownModel when the
// name does not resolve.
func (r *Resolver) Hash(kind modeltype.Kind, name string) (string, error) {
	reg, ok := r.registries[kind]
	if !ok {
		return "", fmt.Errorf("%w: no registry for %s", ErrUnknownModel, kind)
	}
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownModel)
	}
	return reg.ComputeHash(name)
}

// Resolve is Hash with the error collapsed to absence.
func (r *Resolver) Resolve(kind modeltype.Kind, name string) (string, bool) {
	hash, err := r.Hash(kind, name)
	if err != nil {
		return "", false
	}
	return hash, true
}
