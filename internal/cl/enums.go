package cl

// HandleSize is the byte size of an opaque object handle (cl_mem, cl_sampler)
// as seen by the set-argument protocol.
const HandleSize = 8

// MemObjectType identifies the runtime kind of a memory object.
type MemObjectType uint32

const (
	MemObjectBuffer       MemObjectType = 0x10F0
	MemObjectImage2D      MemObjectType = 0x10F1
	MemObjectImage3D      MemObjectType = 0x10F2
	MemObjectImage2DArray MemObjectType = 0x10F3
	MemObjectImage1D      MemObjectType = 0x10F4
	MemObjectImage1DArray MemObjectType = 0x10F5
	MemObjectImage1DBuff  MemObjectType = 0x10F6
)

// MemFlags are memory object allocation and access flags.
type MemFlags uint64

const (
	MemReadWrite     MemFlags = 1 << 0
	MemWriteOnly     MemFlags = 1 << 1
	MemReadOnly      MemFlags = 1 << 2
	MemUseHostPtr    MemFlags = 1 << 3
	MemAllocHostPtr  MemFlags = 1 << 4
	MemCopyHostPtr   MemFlags = 1 << 5
	MemHostWriteOnly MemFlags = 1 << 7
	MemHostReadOnly  MemFlags = 1 << 8
	MemHostNoAccess  MemFlags = 1 << 9
)

// ChannelOrder is the client-facing image channel order enumeration.
// ChannelR is the base value the compiled kernel's zero-indexed space is
// rebased against.
type ChannelOrder uint32

const (
	ChannelR ChannelOrder = 0x10B0 + iota
	ChannelA
	ChannelRG
	ChannelRA
	ChannelRGB
	ChannelRGBA
	ChannelBGRA
	ChannelARGB
	ChannelIntensity
	ChannelLuminance
)

// ChannelType is the client-facing image channel data type enumeration.
// ChannelSNormInt8 is the rebase base value.
type ChannelType uint32

const (
	ChannelSNormInt8 ChannelType = 0x10D0 + iota
	ChannelSNormInt16
	ChannelUNormInt8
	ChannelUNormInt16
	ChannelUNormShort565
	ChannelUNormShort555
	ChannelUNormInt101010
	ChannelSignedInt8
	ChannelSignedInt16
	ChannelSignedInt32
	ChannelUnsignedInt8
	ChannelUnsignedInt16
	ChannelUnsignedInt32
	ChannelHalfFloat
	ChannelFloat
)

// ImageFormat is the pixel format of an image object, written (rebased to the
// compiler's zero-indexed numbering) into the constant blob for image args.
type ImageFormat struct {
	ChannelOrder ChannelOrder
	ChannelType  ChannelType
}

// AddressingMode is the client-facing sampler addressing enumeration.
// AddressNone is the base value for the compiler's zero-indexed space.
type AddressingMode uint32

const (
	AddressNone AddressingMode = 0x1130 + iota
	AddressClampToEdge
	AddressClamp
	AddressRepeat
	AddressMirroredRepeat
)

// FilterMode is the client-facing sampler filter enumeration.
type FilterMode uint32

const (
	FilterNearest FilterMode = 0x1140 + iota
	FilterLinear
)

// ArgAddressQualifier is the client-facing per-argument address qualifier.
type ArgAddressQualifier uint32

const (
	ArgAddressGlobal   ArgAddressQualifier = 0x119B
	ArgAddressLocal    ArgAddressQualifier = 0x119C
	ArgAddressConstant ArgAddressQualifier = 0x119D
	ArgAddressPrivate  ArgAddressQualifier = 0x119E
)

// ArgAccessQualifier is the client-facing per-argument access qualifier,
// derived from the compiler's readable/writable flags.
type ArgAccessQualifier uint32

const (
	ArgAccessReadOnly  ArgAccessQualifier = 0x11A0
	ArgAccessWriteOnly ArgAccessQualifier = 0x11A1
	ArgAccessReadWrite ArgAccessQualifier = 0x11A2
	ArgAccessNone      ArgAccessQualifier = 0x11A3
)

// ArgTypeQualifier is a bitset of declared type qualifiers.
type ArgTypeQualifier uint64

const (
	ArgTypeNone     ArgTypeQualifier = 0
	ArgTypeConst    ArgTypeQualifier = 1 << 0
	ArgTypeRestrict ArgTypeQualifier = 1 << 1
	ArgTypeVolatile ArgTypeQualifier = 1 << 2
)

// KernelInfo selects a kernel-level introspection parameter.
type KernelInfo uint32

const (
	KernelFunctionName   KernelInfo = 0x1190
	KernelNumArgs        KernelInfo = 0x1191
	KernelReferenceCount KernelInfo = 0x1192
	KernelAttributes     KernelInfo = 0x1195
)

// KernelArgInfo selects a per-argument introspection parameter.
type KernelArgInfo uint32

const (
	KernelArgAddressQualifier KernelArgInfo = 0x1196
	KernelArgAccessQualifier  KernelArgInfo = 0x1197
	KernelArgTypeName         KernelArgInfo = 0x1198
	KernelArgTypeQualifier    KernelArgInfo = 0x1199
	KernelArgName             KernelArgInfo = 0x119A
)

// KernelWorkGroupInfo selects a work-group sizing parameter.
type KernelWorkGroupInfo uint32

const (
	KernelWorkGroupSize        KernelWorkGroupInfo = 0x11B0
	KernelCompileWorkGroupSize KernelWorkGroupInfo = 0x11B1
	KernelLocalMemSize         KernelWorkGroupInfo = 0x11B2
	KernelPreferredWGSMultiple KernelWorkGroupInfo = 0x11B3
	KernelPrivateMemSize       KernelWorkGroupInfo = 0x11B4
)
