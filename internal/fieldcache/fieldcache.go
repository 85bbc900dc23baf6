// Package fieldcache memoizes the struct-tag parsing the Go-value bridge
// (struct_bridge.go) needs on every Marshal/Unmarshal call, the same
// concern mebo's internal/hash package exists to speed up (xxhash-keyed
// lookups instead of repeated reflection), adapted here to key on
// reflect.Type instead of a string id.
package fieldcache

import (
	"reflect"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Field describes one struct field's BSON bridging rules, parsed once from
// its `bson:"name,omitempty"` tag (the same tag syntax and semantics the
// teacher's encodeStruct used).
type Field struct {
	Index     int
	Name      string
	OmitEmpty bool
}

var (
	mu    sync.RWMutex
	cache = make(map[uint64][]Field)
	types = make(map[uint64]reflect.Type)
)

// typeKey hashes the type's full string representation; collisions are
// resolved by also checking the stored reflect.Type matches, since xxhash
// is not cryptographically collision-proof and this cache must stay
// correct under adversarial type names as well as ordinary ones.
func typeKey(t reflect.Type) uint64 {
	return xxhash.Sum64String(t.PkgPath() + "." + t.Name() + "/" + t.String())
}

// Fields returns t's cached field list, computing and storing it on first
// use. t must be a struct type.
func Fields(t reflect.Type) []Field {
	key := typeKey(t)

	mu.RLock()
	if fs, ok := cache[key]; ok && types[key] == t {
		mu.RUnlock()
		return fs
	}
	mu.RUnlock()

	fs := computeFields(t)

	mu.Lock()
	cache[key] = fs
	types[key] = t
	mu.Unlock()

	return fs
}

func computeFields(t reflect.Type) []Field {
	fs := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name := sf.Name
		omitempty := false
		if tag := sf.Tag.Get("bson"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					omitempty = true
				}
			}
		}
		fs = append(fs, Field{Index: i, Name: name, OmitEmpty: omitempty})
	}
	return fs
}
