// Package descriptor derives the execution backend's fixed-shape slot layout
// from a compiled kernel representation.
package descriptor

import (
	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/metadata"
)

// Shape annotates a resource slot with the kind of view the backend must
// create for it.
type Shape uint8

const (
	ShapeUnknown Shape = iota
	ShapeBuffer
	ShapeTexture1D
	ShapeTexture1DArray
	ShapeTexture2D
	ShapeTexture2DArray
	ShapeTexture3D
)

func (s Shape) String() string {
	switch s {
	case ShapeBuffer:
		return "buffer"
	case ShapeTexture1D:
		return "texture1d"
	case ShapeTexture1DArray:
		return "texture1d-array"
	case ShapeTexture2D:
		return "texture2d"
	case ShapeTexture2DArray:
		return "texture2d-array"
	case ShapeTexture3D:
		return "texture3d"
	default:
		return "unknown"
	}
}

var imageTypeNames = map[string]cl.MemObjectType{
	"image1d_buffer_t": cl.MemObjectImage1DBuff,
	"image1d_t":        cl.MemObjectImage1D,
	"image1d_array_t":  cl.MemObjectImage1DArray,
	"image2d_t":        cl.MemObjectImage2D,
	"image2d_array_t":  cl.MemObjectImage2DArray,
	"image3d_t":        cl.MemObjectImage3D,
}

// ImageTypeFromName resolves a declared type name to the image object kind it
// denotes, if it is one of the recognized opaque image types.
func ImageTypeFromName(typeName string) (cl.MemObjectType, bool) {
	t, ok := imageTypeNames[typeName]
	return t, ok
}

// ShapeFromMemObjectType maps an image object kind to its slot shape.
// A 1D buffer image is viewed as a plain buffer by the backend.
func ShapeFromMemObjectType(t cl.MemObjectType) Shape {
	switch t {
	case cl.MemObjectImage1D:
		return ShapeTexture1D
	case cl.MemObjectImage1DArray:
		return ShapeTexture1DArray
	case cl.MemObjectImage1DBuff:
		return ShapeBuffer
	case cl.MemObjectImage2D:
		return ShapeTexture2D
	case cl.MemObjectImage2DArray:
		return ShapeTexture2DArray
	case cl.MemObjectImage3D:
		return ShapeTexture3D
	default:
		return ShapeUnknown
	}
}

// Table is the slot layout for one kernel: constant-buffer and sampler slot
// counts plus shape-annotated read-only and read-write slot vectors.
type Table struct {
	NumConstantBuffers int
	NumSamplers        int
	ReadOnly           []Shape
	ReadWrite          []Shape
}

// Build derives the slot layout from a compiled representation. Buffers are
// always declared in the read-write table, even when the argument is const:
// arbitrary-access and atomic semantics require a writable view.
func Build(meta *metadata.CompiledKernel) Table {
	numCBs := meta.InputsRegion + 1
	if wp := meta.WorkPropertiesRegion + 1; wp > numCBs {
		numCBs = wp
	}
	table := Table{
		NumConstantBuffers: int(numCBs),
		NumSamplers:        meta.NumSamplerSlots,
		ReadOnly:           make([]Shape, meta.NumReadOnlySlots),
		ReadWrite:          make([]Shape, meta.NumReadWriteSlots),
	}

	for i := range meta.Args {
		info := &meta.Args[i]
		if info.AddressSpace != metadata.AddressGlobal && info.AddressSpace != metadata.AddressConstant {
			continue
		}
		if imageType, ok := ImageTypeFromName(info.TypeName); ok {
			shape := ShapeFromMemObjectType(imageType)
			slots := table.ReadOnly
			if info.Writable {
				slots = table.ReadWrite
			}
			for _, slot := range meta.Bindings[i].Slots {
				slots[slot] = shape
			}
		} else {
			table.ReadWrite[meta.Bindings[i].Slot] = ShapeBuffer
		}
	}
	return table
}
