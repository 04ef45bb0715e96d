// Package program models the build-orchestration collaborator: per-device
// build results, the program-wide lock kernel creation runs under, and the
// kernel-count accounting kernels report into.
package program

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fluxgpu/clrt/internal/cl"
	"github.com/fluxgpu/clrt/internal/device"
	"github.com/fluxgpu/clrt/internal/metadata"
	"github.com/fluxgpu/clrt/internal/metrics"
)

// BuildStatus mirrors the client API's build status values.
type BuildStatus int8

const (
	BuildSuccess    BuildStatus = 0
	BuildNone       BuildStatus = -1
	BuildError      BuildStatus = -2
	BuildInProgress BuildStatus = -3
)

// BinaryType classifies what a build produced. Only executables are eligible
// for kernel creation.
type BinaryType uint8

const (
	BinaryNone BinaryType = iota
	BinaryCompiledObject
	BinaryLibrary
	BinaryExecutable
)

// BuildData is one device's build result: status, produced binary type, and
// the compiled representation per kernel name. A nil entry in the kernel map
// marks an entry point the compiler recognized but failed to produce a
// usable compiled form for.
type BuildData struct {
	Status     BuildStatus
	BinaryType BinaryType
	Kernels    map[string]*metadata.CompiledKernel
}

// Executable reports whether this build result can source kernels.
func (bd *BuildData) Executable() bool {
	return bd != nil && bd.Status == BuildSuccess && bd.BinaryType == BinaryExecutable
}

// Program is the owning collaborator of kernel instances. Its lock guards the
// per-device build table; kernel creation and enumeration acquire it for the
// whole metadata read so concurrent build mutation can never be observed
// half-applied.
type Program struct {
	mu        sync.Mutex
	devices   []*device.Device
	buildData map[string]*BuildData

	liveKernels atomic.Int64
	log         *zap.Logger
}

// New creates a program associated with the given devices.
func New(log *zap.Logger, devices []*device.Device) *Program {
	return &Program{
		devices:   devices,
		buildData: make(map[string]*BuildData, len(devices)),
		log:       log.Named("program"),
	}
}

// Devices returns the associated devices in association order.
func (p *Program) Devices() []*device.Device { return p.devices }

// SetBuildData installs a device's build result. Safe against concurrent
// kernel creation: the table swap happens under the program lock.
func (p *Program) SetBuildData(dev *device.Device, bd *BuildData) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buildData[dev.ID] = bd
}

// BuildDataFor returns the device's build result. Callers must hold the
// program lock via Locked.
func (p *Program) BuildDataFor(dev *device.Device) *BuildData {
	return p.buildData[dev.ID]
}

// Locked runs fn under the program-wide critical section.
func (p *Program) Locked(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

// KernelCreated records a kernel instance birth. Atomic; instances of the
// same program are created concurrently from many threads.
func (p *Program) KernelCreated() {
	p.liveKernels.Add(1)
	metrics.KernelsCreated.Inc()
	metrics.KernelsLive.Inc()
}

// KernelFreed records a kernel instance death.
func (p *Program) KernelFreed() {
	p.liveKernels.Add(-1)
	metrics.KernelsFreed.Inc()
	metrics.KernelsLive.Dec()
}

// LiveKernels reports the number of instances currently alive.
func (p *Program) LiveKernels() int64 { return p.liveKernels.Load() }

// ReportError logs a failure and returns it as a typed status error. This is
// the error-reporting path every creation and binding failure goes through.
func (p *Program) ReportError(status cl.Status, format string, args ...any) error {
	err := cl.Errorf(status, format, args...)
	p.log.Error("operation failed",
		zap.String("status", status.String()),
		zap.String("detail", fmt.Sprintf(format, args...)))
	return err
}

// Logger exposes the program's logger for child objects.
func (p *Program) Logger() *zap.Logger { return p.log }
