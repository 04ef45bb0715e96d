// Package device describes the compute devices a program is associated with
// and the execution-backend limits work-group introspection reports.
package device

// Limits are fixed execution-backend dispatch limits.
type Limits struct {
	// MaxThreadsPerGroup is the backend's compute thread-group ceiling.
	MaxThreadsPerGroup int `yaml:"maxThreadsPerGroup"`
	// PreferredWorkGroupMultiple is the wave-friendly work-group size multiple.
	PreferredWorkGroupMultiple int `yaml:"preferredWorkGroupMultiple"`
}

// DefaultLimits returns the backend's baseline limits.
func DefaultLimits() Limits {
	return Limits{
		MaxThreadsPerGroup:         1024,
		PreferredWorkGroupMultiple: 64,
	}
}

// Device identifies one compute device associated with a program.
type Device struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Limits Limits `yaml:"limits"`
}

// New creates a device with default limits.
func New(id, name string) *Device {
	return &Device{ID: id, Name: name, Limits: DefaultLimits()}
}
