// Package metadata models the compiled kernel representation: the immutable,
// per-device artifact the compiler produces for a named entry point. The
// runtime never mutates a CompiledKernel after it is loaded; instances of the
// same kernel share one representation across threads.
package metadata

import (
	"encoding/base64"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AddressSpace is the declared storage class of a kernel argument, in the
// compiler's numbering.
type AddressSpace uint8

const (
	AddressPrivate AddressSpace = iota
	AddressGlobal
	AddressConstant
	AddressLocal
)

var addressSpaceNames = map[AddressSpace]string{
	AddressPrivate:  "private",
	AddressGlobal:   "global",
	AddressConstant: "constant",
	AddressLocal:    "local",
}

func (a AddressSpace) String() string {
	if name, ok := addressSpaceNames[a]; ok {
		return name
	}
	return fmt.Sprintf("addressSpace(%d)", uint8(a))
}

func (a AddressSpace) MarshalYAML() (any, error) {
	return a.String(), nil
}

func (a *AddressSpace) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	for space, name := range addressSpaceNames {
		if name == s {
			*a = space
			return nil
		}
	}
	return fmt.Errorf("unknown address space %q", s)
}

// ArgInfo is the compiler-declared descriptor for one kernel argument.
// Size and Offset locate the argument's storage in the constant blob and are
// meaningful for private scalars and image-format headers.
type ArgInfo struct {
	TypeName     string       `yaml:"typeName"`
	Name         string       `yaml:"name,omitempty"`
	AddressSpace AddressSpace `yaml:"addressSpace"`
	Readable     bool         `yaml:"readable"`
	Writable     bool         `yaml:"writable"`
	IsConst      bool         `yaml:"const"`
	IsRestrict   bool         `yaml:"restrict"`
	IsVolatile   bool         `yaml:"volatile"`
	Size         uint32       `yaml:"size"`
	Offset       uint32       `yaml:"offset"`
}

// BindingKind discriminates the per-argument slot binding variant.
type BindingKind uint8

const (
	BindMemory BindingKind = iota
	BindImage
	BindSampler
	BindLocal
)

var bindingKindNames = map[BindingKind]string{
	BindMemory:  "memory",
	BindImage:   "image",
	BindSampler: "sampler",
	BindLocal:   "local",
}

func (k BindingKind) String() string {
	if name, ok := bindingKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("bindingKind(%d)", uint8(k))
}

func (k BindingKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *BindingKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	for kind, name := range bindingKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown binding kind %q", s)
}

// ArgBinding assigns resource slots to one argument. It is a tagged variant:
// Memory and Sampler bindings use Slot, Image bindings use Slots (an image
// may occupy several slots, e.g. one per plane), Local bindings carry nothing.
type ArgBinding struct {
	Kind  BindingKind `yaml:"kind"`
	Slot  int         `yaml:"slot,omitempty"`
	Slots []int       `yaml:"slots,omitempty"`
}

// ConstSampler is a compiler-embedded sampler definition. Addressing and
// filter modes are in the compiler's zero-indexed space.
type ConstSampler struct {
	SamplerSlot      int    `yaml:"samplerSlot"`
	NormalizedCoords bool   `yaml:"normalizedCoords"`
	AddressingMode   uint32 `yaml:"addressingMode"`
	FilterMode       uint32 `yaml:"filterMode"`
}

// ConstBlob is a compiler-embedded constant data region, materialized at
// kernel construction as an owned read-only buffer in the given read-write
// slot. Data travels through YAML as standard base64.
type ConstBlob struct {
	Slot int    `yaml:"slot"`
	Data []byte `yaml:"data"`
}

type constBlobDoc struct {
	Slot int    `yaml:"slot"`
	Data string `yaml:"data"`
}

func (c ConstBlob) MarshalYAML() (any, error) {
	return constBlobDoc{Slot: c.Slot, Data: base64.StdEncoding.EncodeToString(c.Data)}, nil
}

func (c *ConstBlob) UnmarshalYAML(value *yaml.Node) error {
	var doc constBlobDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(doc.Data)
	if err != nil {
		return fmt.Errorf("const blob data: %w", err)
	}
	*c = ConstBlob{Slot: doc.Slot, Data: data}
	return nil
}

// CompiledKernel is the immutable compiled representation of one entry point.
type CompiledKernel struct {
	Name     string       `yaml:"name"`
	Args     []ArgInfo    `yaml:"args"`
	Bindings []ArgBinding `yaml:"bindings"`

	// Constant-buffer region indices assigned by the compiler.
	InputsRegion         uint32 `yaml:"inputsRegion"`
	WorkPropertiesRegion uint32 `yaml:"workPropertiesRegion"`

	NumReadOnlySlots  int `yaml:"numReadOnlySlots"`
	NumReadWriteSlots int `yaml:"numReadWriteSlots"`
	NumSamplerSlots   int `yaml:"numSamplerSlots"`

	// InputsSize is the byte size of the kernel-inputs region (the constant
	// blob a kernel instance owns).
	InputsSize uint32 `yaml:"inputsSize"`

	// LocalMemSize includes a 4-byte placeholder per local argument; the
	// effective footprint is computed against each argument's configured size.
	LocalMemSize   uint32 `yaml:"localMemSize"`
	PrivateMemSize uint32 `yaml:"privateMemSize"`

	RequiredLocalSize [3]uint16 `yaml:"requiredLocalSize,flow"`
	LocalSizeHint     [3]uint16 `yaml:"localSizeHint,flow"`

	ConstSamplers []ConstSampler `yaml:"constSamplers,omitempty"`
	ConstBlobs    []ConstBlob    `yaml:"constBlobs,omitempty"`
}

// RequiredLocalDims reports the fixed work-group dimensions the kernel was
// compiled with, if any. A zero first element means unspecified.
func (ck *CompiledKernel) RequiredLocalDims() ([3]uint16, bool) {
	if ck.RequiredLocalSize[0] != 0 {
		return ck.RequiredLocalSize, true
	}
	return [3]uint16{}, false
}

// LocalDimsHint reports the compiler's work-group size hint, if any.
func (ck *CompiledKernel) LocalDimsHint() ([3]uint16, bool) {
	if ck.LocalSizeHint[0] != 0 {
		return ck.LocalSizeHint, true
	}
	return [3]uint16{}, false
}

// Validate checks internal consistency of a loaded representation: bindings
// parallel the argument list, slot ids stay inside the declared counts, and
// constant-blob offsets stay inside the inputs region.
func (ck *CompiledKernel) Validate() error {
	if ck.Name == "" {
		return fmt.Errorf("kernel has no name")
	}
	if len(ck.Bindings) != len(ck.Args) {
		return fmt.Errorf("kernel %q: %d bindings for %d args", ck.Name, len(ck.Bindings), len(ck.Args))
	}
	for i, b := range ck.Bindings {
		switch b.Kind {
		case BindMemory:
			if b.Slot < 0 || b.Slot >= ck.NumReadWriteSlots {
				return fmt.Errorf("kernel %q arg %d: memory slot %d out of range", ck.Name, i, b.Slot)
			}
		case BindImage:
			limit := ck.NumReadWriteSlots
			if !ck.Args[i].Writable {
				limit = ck.NumReadOnlySlots
			}
			for _, s := range b.Slots {
				if s < 0 || s >= limit {
					return fmt.Errorf("kernel %q arg %d: image slot %d out of range", ck.Name, i, s)
				}
			}
		case BindSampler:
			if b.Slot < 0 || b.Slot >= ck.NumSamplerSlots {
				return fmt.Errorf("kernel %q arg %d: sampler slot %d out of range", ck.Name, i, b.Slot)
			}
		}
	}
	for i, a := range ck.Args {
		if a.Size != 0 && a.Offset+a.Size > ck.InputsSize {
			return fmt.Errorf("kernel %q arg %d: offset %d + size %d exceeds inputs size %d",
				ck.Name, i, a.Offset, a.Size, ck.InputsSize)
		}
	}
	for _, cs := range ck.ConstSamplers {
		if cs.SamplerSlot < 0 || cs.SamplerSlot >= ck.NumSamplerSlots {
			return fmt.Errorf("kernel %q: const sampler slot %d out of range", ck.Name, cs.SamplerSlot)
		}
	}
	for _, cb := range ck.ConstBlobs {
		if cb.Slot < 0 || cb.Slot >= ck.NumReadWriteSlots {
			return fmt.Errorf("kernel %q: const blob slot %d out of range", ck.Name, cb.Slot)
		}
	}
	return nil
}
