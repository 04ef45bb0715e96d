package kernel

import (
	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/device"
	"github.com/fluxgpu/clrt/internal/metadata"
)

// FunctionName reports the declared entry-point name.
func (k *Kernel) FunctionName() string { return k.meta.Name }

// NumArgs reports the declared argument count.
func (k *Kernel) NumArgs() int { return len(k.meta.Args) }

// Attributes reports the kernel's declared attribute string. The compiler
// does not retain attributes, so this is always empty.
func (k *Kernel) Attributes() string { return "" }

func (k *Kernel) argInfo(index int) (*metadata.ArgInfo, error) {
	if index < 0 || index >= len(k.meta.Args) {
		return nil, cl.Errorf(cl.InvalidArgIndex,
			"kernel %q: argument index %d out of bounds (%d args)", k.name, index, len(k.meta.Args))
	}
	return &k.meta.Args[index], nil
}

// ArgAddressQualifier reports the client-facing address qualifier of one
// argument.
func (k *Kernel) ArgAddressQualifier(index int) (cl.ArgAddressQualifier, error) {
	info, err := k.argInfo(index)
	if err != nil {
		return 0, err
	}
	switch info.AddressSpace {
	case metadata.AddressGlobal:
		return cl.ArgAddressGlobal, nil
	case metadata.AddressConstant:
		return cl.ArgAddressConstant, nil
	case metadata.AddressLocal:
		return cl.ArgAddressLocal, nil
	default:
		return cl.ArgAddressPrivate, nil
	}
}

// ArgAccessQualifier derives the access qualifier from the readable/writable
// flag combination.
func (k *Kernel) ArgAccessQualifier(index int) (cl.ArgAccessQualifier, error) {
	info, err := k.argInfo(index)
	if err != nil {
		return 0, err
	}
	switch {
	case info.Readable && info.Writable:
		return cl.ArgAccessReadWrite, nil
	case info.Writable:
		return cl.ArgAccessWriteOnly, nil
	case info.Readable:
		return cl.ArgAccessReadOnly, nil
	default:
		return cl.ArgAccessNone, nil
	}
}

// ArgTypeName reports the declared type name of one argument.
func (k *Kernel) ArgTypeName(index int) (string, error) {
	info, err := k.argInfo(index)
	if err != nil {
		return "", err
	}
	return info.TypeName, nil
}

// ArgTypeQualifier reports the type qualifier bitset. Constant address space
// implies const.
func (k *Kernel) ArgTypeQualifier(index int) (cl.ArgTypeQualifier, error) {
	info, err := k.argInfo(index)
	if err != nil {
		return 0, err
	}
	q := cl.ArgTypeNone
	if info.IsConst || info.AddressSpace == metadata.AddressConstant {
		q |= cl.ArgTypeConst
	}
	if info.IsRestrict {
		q |= cl.ArgTypeRestrict
	}
	if info.IsVolatile {
		q |= cl.ArgTypeVolatile
	}
	return q, nil
}

// ArgName reports the declared argument name. A name the compiler did not
// retain is a distinct not-available condition, not a kernel failure.
func (k *Kernel) ArgName(index int) (string, error) {
	info, err := k.argInfo(index)
	if err != nil {
		return "", err
	}
	if info.Name == "" {
		return "", cl.Errorf(cl.ArgInfoNotAvailable, "kernel %q arg %d has no retained name", k.name, index)
	}
	return info.Name, nil
}

// WorkGroupSize reports the maximum threads per group the backend dispatches.
// A nil device falls back to the backend's baseline limits.
func (k *Kernel) WorkGroupSize(dev *device.Device) int {
	if dev != nil {
		return dev.Limits.MaxThreadsPerGroup
	}
	return device.DefaultLimits().MaxThreadsPerGroup
}

// PreferredWorkGroupSizeMultiple reports the wave-friendly group-size
// multiple.
func (k *Kernel) PreferredWorkGroupSizeMultiple(dev *device.Device) int {
	if dev != nil {
		return dev.Limits.PreferredWorkGroupMultiple
	}
	return device.DefaultLimits().PreferredWorkGroupMultiple
}

// CompileWorkGroupSize reports the fixed local dimensions the kernel was
// compiled with, or the zero triple when unspecified.
func (k *Kernel) CompileWorkGroupSize() [3]uint16 {
	dims, _ := k.meta.RequiredLocalDims()
	return dims
}

// WorkGroupSizeHint reports the compiler's local-dimension hint, or the zero
// triple when unspecified.
func (k *Kernel) WorkGroupSizeHint() [3]uint16 {
	dims, _ := k.meta.LocalDimsHint()
	return dims
}

// PrivateMemSize reports the per-work-item private memory footprint.
func (k *Kernel) PrivateMemSize() uint64 {
	return uint64(k.meta.PrivateMemSize)
}

// LocalMemSize reports the effective local memory footprint: the compiled
// base size with each local argument's 4-byte placeholder replaced by its
// currently configured size.
func (k *Kernel) LocalMemSize() uint64 {
	size := uint64(k.meta.LocalMemSize)
	for i := range k.meta.Args {
		if k.meta.Args[i].AddressSpace == metadata.AddressLocal {
			size -= 4
			size += uint64(k.args[i].localSize)
		}
	}
	return size
}

// LocalArgSize reports the configured byte size of a local argument, zero if
// never bound.
func (k *Kernel) LocalArgSize(index int) (uint32, error) {
	if index < 0 || index >= len(k.args) {
		return 0, cl.Errorf(cl.InvalidArgIndex,
			"kernel %q: argument index %d out of bounds (%d args)", k.name, index, len(k.args))
	}
	if k.args[index].kind != cfgLocal {
		return 0, cl.Errorf(cl.InvalidArgValue, "kernel %q arg %d is not a local argument", k.name, index)
	}
	return k.args[index].localSize, nil
}

// SamplerArgConfig reports the bind-time sampler snapshot for a sampler
// argument, in the compiler's zero-indexed space.
func (k *Kernel) SamplerArgConfig(index int) (normalized bool, addressing uint32, linear bool, err error) {
	if index < 0 || index >= len(k.args) {
		return false, 0, false, cl.Errorf(cl.InvalidArgIndex,
			"kernel %q: argument index %d out of bounds (%d args)", k.name, index, len(k.args))
	}
	if k.args[index].kind != cfgSampler {
		return false, 0, false, cl.Errorf(cl.InvalidArgValue,
			"kernel %q arg %d is not a sampler argument", k.name, index)
	}
	cfg := k.args[index].sampler
	return cfg.normalizedCoords, cfg.addressingMode, cfg.linearFiltering, nil
}
