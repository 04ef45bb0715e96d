package program

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fluxgpu/clrt/internal/device"
	"github.com/fluxgpu/clrt/internal/metadata"
)

// Descriptor is the YAML form of a built program: one entry per associated
// device with its build outcome and compiled kernels. Tooling and tests use
// it as a stand-in for the compiler's output.
type Descriptor struct {
	Devices []DeviceDescriptor `yaml:"devices"`
}

// DeviceDescriptor is one device's slice of a program descriptor.
type DeviceDescriptor struct {
	ID          string                     `yaml:"id"`
	Name        string                     `yaml:"name"`
	BuildStatus string                     `yaml:"buildStatus"`
	BinaryType  string                     `yaml:"binaryType"`
	Kernels     []*metadata.CompiledKernel `yaml:"kernels"`
}

var buildStatusNames = map[string]BuildStatus{
	"success":    BuildSuccess,
	"none":       BuildNone,
	"error":      BuildError,
	"inProgress": BuildInProgress,
}

var binaryTypeNames = map[string]BinaryType{
	"none":           BinaryNone,
	"compiledObject": BinaryCompiledObject,
	"library":        BinaryLibrary,
	"executable":     BinaryExecutable,
}

// LoadDescriptor parses a program descriptor document.
func LoadDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse program descriptor: %w", err)
	}
	if len(d.Devices) == 0 {
		return nil, fmt.Errorf("program descriptor has no devices")
	}
	return &d, nil
}

// FromDescriptor materializes a Program from a descriptor, validating every
// compiled kernel it carries.
func FromDescriptor(log *zap.Logger, d *Descriptor) (*Program, error) {
	devices := make([]*device.Device, 0, len(d.Devices))
	for _, dd := range d.Devices {
		devices = append(devices, device.New(dd.ID, dd.Name))
	}
	p := New(log, devices)

	for i, dd := range d.Devices {
		status, ok := buildStatusNames[dd.BuildStatus]
		if !ok {
			return nil, fmt.Errorf("device %q: unknown build status %q", dd.ID, dd.BuildStatus)
		}
		binType, ok := binaryTypeNames[dd.BinaryType]
		if !ok {
			return nil, fmt.Errorf("device %q: unknown binary type %q", dd.ID, dd.BinaryType)
		}
		bd := &BuildData{
			Status:     status,
			BinaryType: binType,
			Kernels:    make(map[string]*metadata.CompiledKernel, len(dd.Kernels)),
		}
		for _, ck := range dd.Kernels {
			if err := ck.Validate(); err != nil {
				return nil, fmt.Errorf("device %q: %w", dd.ID, err)
			}
			bd.Kernels[ck.Name] = ck
		}
		p.SetBuildData(devices[i], bd)
	}
	return p, nil
}
