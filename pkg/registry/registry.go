package registry

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"model-notes-be/pkg/modeltype"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/patrickmn/go-cache"
)

// catalogTTL bounds how long a directory scan answers name lookups.
const catalogTTL = 30 * time.Second

const catalogKey = "catalog"

var ErrUnknownModel = errors.New("unknown model")

// Registry lists the models of one kind and maps their names to files and hashes.
type Registry interface {
	Kind() modeltype.Kind
	ListNames() []string
	ResolvePath(name string) (string, bool)
	ComputeHash(name string) (string, error)
}

// DirRegistry discovers models of one kind by scanning a directory tree.
// ListNames always rescans; lookups reuse the latest scan while it is fresh and
// rescan when a name is missing or its file is gone.
type DirRegistry struct {
	kind     modeltype.Kind
	root     string
	hasher   *Hasher
	catalogs *cache.Cache
	scans    atomic.Int64
}

func NewDirRegistry(kind modeltype.Kind, root string, hasher *Hasher) *DirRegistry {
	return &DirRegistry{
		kind:     kind,
		root:     root,
		hasher:   hasher,
		catalogs: cache.New(catalogTTL, 0),
	}
}

type entry struct {
	name string
	path string
}

type catalog struct {
	names   []string
	aliases map[string]entry
}

func (r *DirRegistry) Kind() modeltype.Kind {
	return r.kind
}

func (r *DirRegistry) scan() catalog {
	r.scans.Add(1)
	c := catalog{aliases: make(map[string]entry)}
	if info, err := os.Stat(r.root); err != nil || !info.IsDir() {
		return c
	}

	matches, err := doublestar.Glob(os.DirFS(r.root), "**/*", doublestar.WithFilesOnly())
	if err != nil {
		return c
	}
	sort.Strings(matches)

	for _, rel := range matches {
		if !r.kind.HasExtension(rel) {
			continue
		}
		abs := filepath.Join(r.root, filepath.FromSlash(rel))
		stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))

		if r.kind == modeltype.Checkpoint {
			// Checkpoints are addressed by their relative path like the web UI's
			// checkpoint list; the shorter forms act as aliases.
			e := entry{name: rel, path: abs}
			c.names = append(c.names, rel)
			c.add(rel, e)
			c.add(strings.TrimSuffix(rel, path.Ext(rel)), e)
			c.add(stem, e)
			continue
		}
		if _, taken := c.aliases[stem]; taken {
			continue
		}
		c.names = append(c.names, stem)
		c.add(stem, entry{name: stem, path: abs})
	}
	sort.Strings(c.names)
	return c
}

func (c catalog) add(alias string, e entry) {
	if _, taken := c.aliases[alias]; !taken {
		c.aliases[alias] = e
	}
}

func (r *DirRegistry) refresh() catalog {
	c := r.scan()
	r.catalogs.SetDefault(catalogKey, c)
	return c
}

func (r *DirRegistry) lookup(name string) (entry, bool) {
	if x, found := r.catalogs.Get(catalogKey); found {
		if e, ok := x.(catalog).aliases[name]; ok {
			if _, err := os.Stat(e.path); err == nil {
				return e, true
			}
		}
	}
	e, ok := r.refresh().aliases[name]
	return e, ok
}

func (r *DirRegistry) ListNames() []string {
	return r.refresh().names
}

func (r *DirRegistry) ResolvePath(name string) (string, bool) {
	e, ok := r.lookup(name)
	return e.path, ok
}

// ComputeHash hashes the model file under "<namespace>/<canonical name>".
func (r *DirRegistry) ComputeHash(name string) (string, error) {
	e, ok := r.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s %q", ErrUnknownModel, r.kind, name)
	}
	return r.hasher.Sum(e.path, r.kind.Namespace()+"/"+e.name)
}
