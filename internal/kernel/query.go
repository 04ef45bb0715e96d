package kernel

import (
	"encoding/binary"

	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/device"
)

// copyOut marshals one query result into the caller's buffer, validating
// capacity before the copy. A nil buffer only sizes the result.
func copyOut(buf, data []byte) (int, error) {
	if buf != nil {
		if len(buf) < len(data) {
			return 0, cl.Errorf(cl.InvalidValue,
				"output buffer too small: need %d bytes, have %d", len(data), len(buf))
		}
		copy(buf, data)
	}
	return len(data), nil
}

func stringBytes(s string) []byte {
	// Strings are returned NUL-terminated, as the client API expects.
	return append([]byte(s), 0)
}

func uint32Bytes(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func uint64Bytes(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func dimsBytes(dims [3]uint16) []byte {
	b := make([]byte, 0, 24)
	for _, d := range dims {
		b = binary.LittleEndian.AppendUint64(b, uint64(d))
	}
	return b
}

// GetKernelInfo answers a kernel-level query, copying the result into buf and
// returning the result's byte size.
func GetKernelInfo(k *Kernel, param cl.KernelInfo, buf []byte) (int, error) {
	if k == nil {
		return 0, cl.Errorf(cl.InvalidKernel, "nil kernel")
	}
	switch param {
	case cl.KernelFunctionName:
		return copyOut(buf, stringBytes(k.FunctionName()))
	case cl.KernelNumArgs:
		return copyOut(buf, uint32Bytes(uint32(k.NumArgs())))
	case cl.KernelReferenceCount:
		return copyOut(buf, uint32Bytes(uint32(k.RefCount())))
	case cl.KernelAttributes:
		return copyOut(buf, stringBytes(k.Attributes()))
	}
	return 0, k.prog.ReportError(cl.InvalidValue, "unknown kernel info param %#x", uint32(param))
}

// GetKernelArgInfo answers a per-argument query.
func GetKernelArgInfo(k *Kernel, index int, param cl.KernelArgInfo, buf []byte) (int, error) {
	if k == nil {
		return 0, cl.Errorf(cl.InvalidKernel, "nil kernel")
	}
	switch param {
	case cl.KernelArgAddressQualifier:
		q, err := k.ArgAddressQualifier(index)
		if err != nil {
			return 0, err
		}
		return copyOut(buf, uint32Bytes(uint32(q)))
	case cl.KernelArgAccessQualifier:
		q, err := k.ArgAccessQualifier(index)
		if err != nil {
			return 0, err
		}
		return copyOut(buf, uint32Bytes(uint32(q)))
	case cl.KernelArgTypeName:
		name, err := k.ArgTypeName(index)
		if err != nil {
			return 0, err
		}
		return copyOut(buf, stringBytes(name))
	case cl.KernelArgTypeQualifier:
		q, err := k.ArgTypeQualifier(index)
		if err != nil {
			return 0, err
		}
		return copyOut(buf, uint64Bytes(uint64(q)))
	case cl.KernelArgName:
		name, err := k.ArgName(index)
		if err != nil {
			return 0, err
		}
		return copyOut(buf, stringBytes(name))
	}
	return 0, k.prog.ReportError(cl.InvalidValue, "unknown kernel arg info param %#x", uint32(param))
}

// GetKernelWorkGroupInfo answers a work-group sizing query for one device.
func GetKernelWorkGroupInfo(k *Kernel, dev *device.Device, param cl.KernelWorkGroupInfo, buf []byte) (int, error) {
	if k == nil {
		return 0, cl.Errorf(cl.InvalidKernel, "nil kernel")
	}
	switch param {
	case cl.KernelWorkGroupSize:
		return copyOut(buf, uint64Bytes(uint64(k.WorkGroupSize(dev))))
	case cl.KernelCompileWorkGroupSize:
		return copyOut(buf, dimsBytes(k.CompileWorkGroupSize()))
	case cl.KernelLocalMemSize:
		return copyOut(buf, uint64Bytes(k.LocalMemSize()))
	case cl.KernelPreferredWGSMultiple:
		return copyOut(buf, uint64Bytes(uint64(k.PreferredWorkGroupSizeMultiple(dev))))
	case cl.KernelPrivateMemSize:
		return copyOut(buf, uint64Bytes(k.PrivateMemSize()))
	}
	return 0, cl.Errorf(cl.InvalidValue, "unknown kernel work group info param %#x", uint32(param))
}
