package scenegraph

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// MovableObjectFactory builds typed movable objects. CreateInstanceImpl does
// the subclass-specific construction from the optional string parameter
// table; CreateInstance wires the creator/manager back-references afterwards.
type MovableObjectFactory interface {
	// Type identifies the factory for registration lookups.
	Type() string

	// TypeFlags are OR-ed into query-type filtering for objects of this kind.
	TypeFlags() uint32

	CreateInstanceImpl(name string, params map[string]string) (*MovableObject, error)
}

// CreateInstance runs a factory and wires the creator and owning-manager
// back-references onto the result.
func CreateInstance(f MovableObjectFactory, name string, manager *SceneManager, params map[string]string) (*MovableObject, error) {
	o, err := f.CreateInstanceImpl(name, params)
	if err != nil {
		return nil, err
	}
	o.creator = f
	o.manager = manager
	return o, nil
}

// Creator returns the factory that built this object, or nil for objects
// constructed directly.
func (o *MovableObject) Creator() MovableObjectFactory { return o.creator }

// TypeFlags returns the creating factory's type flags, or all bits for
// directly constructed objects.
func (o *MovableObject) TypeFlags() uint32 {
	if o.creator != nil {
		return o.creator.TypeFlags()
	}
	return 0xFFFFFFFF
}

// BasicFactory builds plain movable objects. Recognized params:
//
//	"bounds_half_extent" — float, local box half extent per axis
//	"render_queue"       — int, initial render queue id
//	"cast_shadows"       — bool
type BasicFactory struct{}

func (BasicFactory) Type() string      { return "Basic" }
func (BasicFactory) TypeFlags() uint32 { return 1 }

func (BasicFactory) CreateInstanceImpl(name string, params map[string]string) (*MovableObject, error) {
	o := NewMovableObject(nil, name)
	if params == nil {
		return o, nil
	}
	if v, ok := params["bounds_half_extent"]; ok {
		he, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing bounds_half_extent: %w", err)
		}
		h := float32(he)
		o.SetBounds(AABB{
			Min: mgl32.Vec3{-h, -h, -h},
			Max: mgl32.Vec3{h, h, h},
		})
	}
	if v, ok := params["render_queue"]; ok {
		q, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("parsing render_queue: %w", err)
		}
		o.SetRenderQueue(uint8(q))
	}
	if v, ok := params["cast_shadows"]; ok {
		cs, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parsing cast_shadows: %w", err)
		}
		o.SetCastShadows(cs)
	}
	return o, nil
}
