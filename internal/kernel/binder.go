package kernel

import (
	"encoding/binary"

	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/descriptor"
	"github.com/fluxgpu/clrt/internal/metadata"
	"github.com/fluxgpu/clrt/internal/metrics"
	"github.com/fluxgpu/clrt/internal/resource"
)

// unboundBuffer is the constant-blob sentinel for an unbound buffer argument.
const unboundBuffer = ^uint64(0)

// samplerTypeName is the declared type name of sampler arguments, which live
// in the Private address space but bind like handles.
const samplerTypeName = "sampler_t"

// SetArg validates and applies one argument assignment.
//
// size is the caller-declared byte size of the value: the opaque handle size
// for memory and sampler arguments, the declared scalar size for private
// scalars, and the requested local allocation for local arguments. value is
// nil (unbind / local), a *resource.Object, a *resource.Sampler, or a []byte
// of raw scalar bytes.
//
// Each branch either fully applies its slot and blob writes or returns before
// touching instance state.
func (k *Kernel) SetArg(index int, size int, value any) error {
	if err := k.setArg(index, size, value); err != nil {
		metrics.ArgBindErrors.WithLabelValues(cl.StatusOf(err).String()).Inc()
		return err
	}
	return nil
}

func (k *Kernel) setArg(index int, size int, value any) error {
	if index < 0 || index >= len(k.meta.Args) {
		return k.prog.ReportError(cl.InvalidArgIndex,
			"kernel %q: argument index %d out of bounds (%d args)", k.name, index, len(k.meta.Args))
	}

	info := &k.meta.Args[index]
	binding := &k.meta.Bindings[index]

	switch info.AddressSpace {
	case metadata.AddressGlobal, metadata.AddressConstant:
		return k.setMemArg(index, info, binding, size, value)

	case metadata.AddressPrivate:
		if info.TypeName == samplerTypeName {
			return k.setSamplerArg(index, binding, size, value)
		}
		return k.setScalarArg(index, info, size, value)

	case metadata.AddressLocal:
		if size == 0 {
			return k.prog.ReportError(cl.InvalidArgSize,
				"kernel %q arg %d: size must be nonzero for local arguments", k.name, index)
		}
		if value != nil {
			return k.prog.ReportError(cl.InvalidArgValue,
				"kernel %q arg %d: value must be nil for local arguments", k.name, index)
		}
		k.args[index].localSize = uint32(size)
		return nil
	}

	return k.prog.ReportError(cl.InvalidArgValue,
		"kernel %q arg %d: unhandled address space %s", k.name, index, info.AddressSpace)
}

func (k *Kernel) setMemArg(index int, info *metadata.ArgInfo, binding *metadata.ArgBinding, size int, value any) error {
	if size != cl.HandleSize {
		return k.prog.ReportError(cl.InvalidArgSize,
			"kernel %q arg %d: size must be the memory handle size for global and constant arguments", k.name, index)
	}

	obj, ok := value.(*resource.Object)
	if value != nil && !ok {
		return k.prog.ReportError(cl.InvalidArgValue,
			"kernel %q arg %d: value must be a memory object or nil", k.name, index)
	}

	if imageType, isImage := descriptor.ImageTypeFromName(info.TypeName); isImage {
		return k.setImageArg(index, info, binding, imageType, obj)
	}

	if obj != nil && obj.Kind() != cl.MemObjectBuffer {
		return k.prog.ReportError(cl.InvalidArgValue,
			"kernel %q arg %d: memory object must be a buffer", k.name, index)
	}
	k.readWrite[binding.Slot] = obj
	val := unboundBuffer
	if obj != nil {
		// The compiled kernel dereferences buffers by slot id carried in the
		// upper 32 bits; the lower half is reserved.
		val = uint64(binding.Slot) << 32
	}
	binary.LittleEndian.PutUint64(k.blob[info.Offset:], val)
	return nil
}

func (k *Kernel) setImageArg(index int, info *metadata.ArgInfo, binding *metadata.ArgBinding, imageType cl.MemObjectType, obj *resource.Object) error {
	if obj != nil && obj.Kind() != imageType {
		return k.prog.ReportError(cl.InvalidArgValue,
			"kernel %q arg %d: image type mismatch, argument declares %s", k.name, index, info.TypeName)
	}

	if info.Writable {
		if obj != nil && obj.Flags()&cl.MemReadOnly != 0 {
			return k.prog.ReportError(cl.InvalidArgValue,
				"kernel %q arg %d: read-only image bound to writable image argument", k.name, index)
		}
		if info.Readable && obj != nil && obj.Flags()&cl.MemWriteOnly != 0 {
			return k.prog.ReportError(cl.InvalidArgValue,
				"kernel %q arg %d: write-only image bound to read-write image argument", k.name, index)
		}
		for _, slot := range binding.Slots {
			k.readWrite[slot] = obj
		}
	} else {
		if obj != nil && obj.Flags()&cl.MemWriteOnly != 0 {
			return k.prog.ReportError(cl.InvalidArgValue,
				"kernel %q arg %d: write-only image bound to read-only image argument", k.name, index)
		}
		for _, slot := range binding.Slots {
			k.readOnly[slot] = obj
		}
	}

	// The compiled kernel expects the format header zero-indexed; it adds the
	// client enumeration bases back inside the intrinsics.
	var channelType, channelOrder uint32
	if obj != nil {
		format := obj.Format()
		channelType = uint32(format.ChannelType - cl.ChannelSNormInt8)
		channelOrder = uint32(format.ChannelOrder - cl.ChannelR)
	}
	binary.LittleEndian.PutUint32(k.blob[info.Offset:], channelOrder)
	binary.LittleEndian.PutUint32(k.blob[info.Offset+4:], channelType)
	return nil
}

func (k *Kernel) setSamplerArg(index int, binding *metadata.ArgBinding, size int, value any) error {
	if size != cl.HandleSize {
		return k.prog.ReportError(cl.InvalidArgSize,
			"kernel %q arg %d: size must be the sampler handle size", k.name, index)
	}
	smp, ok := value.(*resource.Sampler)
	if value != nil && !ok {
		return k.prog.ReportError(cl.InvalidArgValue,
			"kernel %q arg %d: value must be a sampler or nil", k.name, index)
	}

	k.samplers[binding.Slot] = smp

	// Snapshot the configuration at bind time, not dispatch time.
	cfg := &k.args[index].sampler
	if smp != nil {
		desc := smp.Desc()
		cfg.normalizedCoords = desc.NormalizedCoords
		cfg.addressingMode = uint32(desc.AddressingMode - cl.AddressNone)
		cfg.linearFiltering = desc.FilterMode == cl.FilterLinear
	} else {
		cfg.normalizedCoords = true
		cfg.addressingMode = 0
		cfg.linearFiltering = false
	}
	return nil
}

func (k *Kernel) setScalarArg(index int, info *metadata.ArgInfo, size int, value any) error {
	if size != int(info.Size) {
		return k.prog.ReportError(cl.InvalidArgSize,
			"kernel %q arg %d: size %d does not match declared size %d", k.name, index, size, info.Size)
	}
	raw, ok := value.([]byte)
	if !ok || len(raw) != size {
		return k.prog.ReportError(cl.InvalidArgValue,
			"kernel %q arg %d: value must be %d raw bytes", k.name, index, size)
	}
	copy(k.blob[info.Offset:int(info.Offset)+size], raw)
	return nil
}
