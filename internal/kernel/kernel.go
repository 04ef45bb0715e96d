// Package kernel turns a named, already-compiled kernel into an executable
// unit: it resolves the representation across devices, sizes the descriptor
// slot tables, and applies per-argument bindings into the slot vectors and
// the constant-buffer blob the execution backend consumes.
package kernel

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/descriptor"
	"github.com/fluxgpu/clrt/internal/metadata"
	"github.com/fluxgpu/clrt/internal/program"
	"github.com/fluxgpu/clrt/internal/resource"
)

// argConfigKind discriminates the compiler-facing per-argument configuration
// variant. The active variant is fixed at construction from the argument's
// binding metadata; accessing the wrong one is a programming error.
type argConfigKind uint8

const (
	cfgNone argConfigKind = iota
	cfgLocal
	cfgSampler
)

// samplerConfig is the bind-time snapshot handed to the compiler: values in
// the compiler's zero-indexed enumeration space.
type samplerConfig struct {
	normalizedCoords bool
	addressingMode   uint32
	linearFiltering  bool
}

type argConfig struct {
	kind      argConfigKind
	localSize uint32
	sampler   samplerConfig
}

// Kernel is the mutable binding state for one instantiation of a named
// kernel. The compiled representation it points at is shared and immutable;
// slot vectors and the constant blob never change length or size after
// construction, only contents.
//
// A Kernel is not internally synchronized: callers serialize binding and
// introspection on a single instance. Reference counting is atomic.
type Kernel struct {
	prog *program.Program
	name string
	meta *metadata.CompiledKernel

	table     descriptor.Table
	readOnly  []*resource.Object
	readWrite []*resource.Object
	samplers  []*resource.Sampler
	blob      []byte
	args      []argConfig

	// Owned at construction, shared with clones, released by the last owner.
	constSamplers []*resource.Sampler
	inlineConsts  []*resource.Object

	refs atomic.Int32
	log  *zap.Logger
}

// newKernel constructs a fresh instance from a resolved representation.
// Callers go through CreateKernel; the representation has already been
// certified identical across devices.
func newKernel(p *program.Program, name string, meta *metadata.CompiledKernel) (*Kernel, error) {
	table := descriptor.Build(meta)
	k := &Kernel{
		prog:      p,
		name:      name,
		meta:      meta,
		table:     table,
		readOnly:  make([]*resource.Object, len(table.ReadOnly)),
		readWrite: make([]*resource.Object, len(table.ReadWrite)),
		samplers:  make([]*resource.Sampler, table.NumSamplers),
		blob:      make([]byte, meta.InputsSize),
		args:      make([]argConfig, len(meta.Args)),
		log:       p.Logger().Named("kernel").With(zap.String("kernel", name)),
	}

	for i := range meta.Bindings {
		switch meta.Bindings[i].Kind {
		case metadata.BindLocal:
			k.args[i] = argConfig{kind: cfgLocal}
		case metadata.BindSampler:
			k.args[i] = argConfig{kind: cfgSampler}
		}
	}

	for _, sm := range meta.ConstSamplers {
		s := resource.NewSampler(resource.SamplerDesc{
			NormalizedCoords: sm.NormalizedCoords,
			AddressingMode:   cl.AddressNone + cl.AddressingMode(sm.AddressingMode),
			FilterMode:       cl.FilterNearest + cl.FilterMode(sm.FilterMode),
		})
		k.constSamplers = append(k.constSamplers, s)
		k.samplers[sm.SamplerSlot] = s
	}

	for _, cm := range meta.ConstBlobs {
		obj, err := resource.NewBuffer(cl.MemCopyHostPtr|cl.MemReadOnly|cl.MemHostNoAccess, len(cm.Data), cm.Data)
		if err != nil {
			k.releaseOwned()
			return nil, p.ReportError(cl.OutOfResources,
				"kernel %q: materialize %d-byte inline constant: %v", name, len(cm.Data), err)
		}
		k.inlineConsts = append(k.inlineConsts, obj)
		k.readWrite[cm.Slot] = obj
	}

	k.refs.Store(1)
	p.KernelCreated()
	return k, nil
}

// Clone deep-copies the mutable binding state and shares the representation
// and the construction-owned resources. The clone is independently mutable.
func (k *Kernel) Clone() *Kernel {
	c := &Kernel{
		prog:          k.prog,
		name:          k.name,
		meta:          k.meta,
		table:         k.table,
		readOnly:      append([]*resource.Object(nil), k.readOnly...),
		readWrite:     append([]*resource.Object(nil), k.readWrite...),
		samplers:      append([]*resource.Sampler(nil), k.samplers...),
		blob:          append([]byte(nil), k.blob...),
		args:          append([]argConfig(nil), k.args...),
		constSamplers: k.constSamplers,
		inlineConsts:  k.inlineConsts,
		log:           k.log,
	}
	for _, s := range c.constSamplers {
		s.Retain()
	}
	for _, o := range c.inlineConsts {
		o.Retain()
	}
	c.refs.Store(1)
	c.prog.KernelCreated()
	return c
}

// Retain increments the external reference count.
func (k *Kernel) Retain() { k.refs.Add(1) }

// Release decrements the external reference count. When the last reference
// drops, the instance notifies its program and releases the owned inline
// constants and embedded samplers. Reports whether this call destroyed the
// instance.
func (k *Kernel) Release() bool {
	n := k.refs.Add(-1)
	if n < 0 {
		panic(fmt.Sprintf("kernel: over-release of %q (refs=%d)", k.name, n))
	}
	if n != 0 {
		return false
	}
	k.prog.KernelFreed()
	k.releaseOwned()
	return true
}

func (k *Kernel) releaseOwned() {
	for _, s := range k.constSamplers {
		s.Release()
	}
	for _, o := range k.inlineConsts {
		o.Release()
	}
	k.constSamplers = nil
	k.inlineConsts = nil
}

// RefCount reports the current external reference count.
func (k *Kernel) RefCount() int32 { return k.refs.Load() }

// Program returns the owning program.
func (k *Kernel) Program() *program.Program { return k.prog }

// Metadata returns the shared compiled representation.
func (k *Kernel) Metadata() *metadata.CompiledKernel { return k.meta }

// Table returns the descriptor slot layout.
func (k *Kernel) Table() descriptor.Table { return k.table }

// ReadOnlySlots exposes the read-only resource slot contents for dispatch.
func (k *Kernel) ReadOnlySlots() []*resource.Object { return k.readOnly }

// ReadWriteSlots exposes the read-write resource slot contents for dispatch.
func (k *Kernel) ReadWriteSlots() []*resource.Object { return k.readWrite }

// SamplerSlots exposes the sampler slot contents for dispatch.
func (k *Kernel) SamplerSlots() []*resource.Sampler { return k.samplers }

// ConstantBlob exposes the constant-buffer byte region for dispatch.
func (k *Kernel) ConstantBlob() []byte { return k.blob }
