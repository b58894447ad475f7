// Package persist saves and loads analyzed FunctionLifetimes to a
// compact binary cache keyed by function name. A later run of
// lifetimeinfer can hand the cache to a Driver as its ExternalAnnotations;
// the driver consults those only for functions with no body, so a
// function with a body is analyzed again even when the cache already
// holds an entry for it. This sits entirely outside the
// core analysis: nothing in the lifetime package depends on it.
package persist

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gocxxlifetime/lifetime"
)

// Cache is an in-memory, name-keyed store of previously computed
// FunctionLifetimes that can be dumped to and loaded from a file.
type Cache struct {
	entries map[string]lifetime.FunctionLifetimes
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]lifetime.FunctionLifetimes)}
}

func (c *Cache) Put(name string, fl lifetime.FunctionLifetimes) {
	c.entries[name] = fl
}

func (c *Cache) Lookup(name string) (lifetime.FunctionLifetimes, bool) {
	fl, ok := c.entries[name]
	return fl, ok
}

// Names returns every function name currently in the cache, for
// dump-cache style inspection.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

// AsAnnotations exposes the cache as a lifetime.ExternalAnnotations,
// keyed by FunctionDecl.Name, so a Driver can be seeded with it directly.
func (c *Cache) AsAnnotations() lifetime.ExternalAnnotations {
	return cacheAnnotations{c}
}

type cacheAnnotations struct{ c *Cache }

func (a cacheAnnotations) Lookup(fn lifetime.FunctionDecl) (lifetime.FunctionLifetimes, bool) {
	return a.c.Lookup(fn.Name())
}

// Save writes c to path as msgpack.
func (c *Cache) Save(path string) error {
	dtos := make(map[string]functionLifetimesDTO, len(c.entries))
	for name, fl := range c.entries {
		dtos[name] = toDTO(fl)
	}
	data, err := msgpack.Marshal(dtos)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadCache reads a msgpack cache previously written by Save.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dtos map[string]functionLifetimesDTO
	if err := msgpack.Unmarshal(data, &dtos); err != nil {
		return nil, err
	}
	c := NewCache()
	for name, dto := range dtos {
		c.entries[name] = dto.toFunctionLifetimes()
	}
	return c, nil
}

// The DTOs below mirror the shape of lifetime.FunctionLifetimes /
// ObjectLifetimes / Lifetime exactly, using only exported fields so
// msgpack can walk them, and rebuilding variable lifetimes through
// lifetime.VariableWithID so that two positions which shared a lifetime
// before serialization still share one after deserialization.

type lifetimeDTO struct {
	Kind uint8 // 0 = static, 1 = local, 2 = variable
	ID   int
}

func toLifetimeDTO(l lifetime.Lifetime) lifetimeDTO {
	switch {
	case l.IsStatic():
		return lifetimeDTO{Kind: 0}
	case l.IsLocal():
		return lifetimeDTO{Kind: 1}
	default:
		id, _ := l.VariableID()
		return lifetimeDTO{Kind: 2, ID: id}
	}
}

func (d lifetimeDTO) toLifetime() lifetime.Lifetime {
	switch d.Kind {
	case 0:
		return lifetime.Static()
	case 1:
		return lifetime.LocalLifetime()
	default:
		return lifetime.VariableWithID(d.ID)
	}
}

type objectLifetimesDTO struct {
	Kind    uint8 // 0 = value, 1 = reference, 2 = record
	Own     lifetimeDTO
	Pointee *objectLifetimesDTO
	Params  []paramDTO
}

type paramDTO struct {
	Param    string
	Lifetime lifetimeDTO
}

func toObjectLifetimesDTO(ol lifetime.ObjectLifetimes) objectLifetimesDTO {
	switch ol.LifetimesKind() {
	case lifetime.KindReferenceLifetimes:
		pointee := toObjectLifetimesDTO(ol.Pointee())
		return objectLifetimesDTO{Kind: 1, Own: toLifetimeDTO(ol.Own()), Pointee: &pointee}
	case lifetime.KindRecordLifetimes:
		params := make([]paramDTO, len(ol.RecordParams()))
		for i, p := range ol.RecordParams() {
			params[i] = paramDTO{Param: p.Param, Lifetime: toLifetimeDTO(p.Lifetime)}
		}
		return objectLifetimesDTO{Kind: 2, Params: params}
	default:
		return objectLifetimesDTO{Kind: 0}
	}
}

func (d objectLifetimesDTO) toObjectLifetimes(t lifetime.Type) lifetime.ObjectLifetimes {
	switch d.Kind {
	case 1:
		var pointeeType lifetime.Type
		if t != nil {
			pointeeType = t.Pointee()
		}
		pointee := d.Pointee.toObjectLifetimes(pointeeType)
		return lifetime.NewReferenceLifetimes(t, d.Own.toLifetime(), pointee)
	case 2:
		params := make([]lifetime.RecordParamLifetime, len(d.Params))
		for i, p := range d.Params {
			params[i] = lifetime.RecordParamLifetime{Param: p.Param, Lifetime: p.Lifetime.toLifetime()}
		}
		return lifetime.NewRecordLifetimes(t, params)
	default:
		return lifetime.NewValueLifetimes(t)
	}
}

type functionLifetimesDTO struct {
	This      *objectLifetimesDTO
	Params    []objectLifetimesDTO
	HasReturn bool
	Return    objectLifetimesDTO
}

func toDTO(fl lifetime.FunctionLifetimes) functionLifetimesDTO {
	dto := functionLifetimesDTO{HasReturn: fl.HasReturn}
	if fl.This != nil {
		this := toObjectLifetimesDTO(*fl.This)
		dto.This = &this
	}
	for _, p := range fl.Params {
		dto.Params = append(dto.Params, toObjectLifetimesDTO(p))
	}
	if fl.HasReturn {
		dto.Return = toObjectLifetimesDTO(fl.Return)
	}
	return dto
}

func (d functionLifetimesDTO) toFunctionLifetimes() lifetime.FunctionLifetimes {
	fl := lifetime.FunctionLifetimes{HasReturn: d.HasReturn}
	if d.This != nil {
		this := d.This.toObjectLifetimes(nil)
		fl.This = &this
	}
	for _, p := range d.Params {
		fl.Params = append(fl.Params, p.toObjectLifetimes(nil))
	}
	if d.HasReturn {
		fl.Return = d.Return.toObjectLifetimes(nil)
	}
	return fl
}
