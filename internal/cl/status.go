package cl

import "fmt"

// Status is an OpenCL-style status code. The zero value is Success; failures
// are negative, matching the numbering the client API layer hands back to
// callers.
type Status int32

const (
	Success Status = 0

	OutOfResources       Status = -5
	OutOfHostMemory      Status = -6
	ArgInfoNotAvailable  Status = -19
	InvalidValue         Status = -30
	InvalidSampler       Status = -36
	InvalidMemObject     Status = -38
	InvalidProgram       Status = -44
	InvalidExecutable    Status = -45
	InvalidKernelName    Status = -46
	InvalidKernelDef     Status = -47
	InvalidKernel        Status = -48
	InvalidArgIndex      Status = -49
	InvalidArgValue      Status = -50
	InvalidArgSize       Status = -51
	InvalidWorkGroupSize Status = -54
)

var statusNames = map[Status]string{
	Success:              "success",
	OutOfResources:       "out of resources",
	OutOfHostMemory:      "out of host memory",
	ArgInfoNotAvailable:  "kernel arg info not available",
	InvalidValue:         "invalid value",
	InvalidSampler:       "invalid sampler",
	InvalidMemObject:     "invalid mem object",
	InvalidProgram:       "invalid program",
	InvalidExecutable:    "invalid program executable",
	InvalidKernelName:    "invalid kernel name",
	InvalidKernelDef:     "invalid kernel definition",
	InvalidKernel:        "invalid kernel",
	InvalidArgIndex:      "invalid arg index",
	InvalidArgValue:      "invalid arg value",
	InvalidArgSize:       "invalid arg size",
	InvalidWorkGroupSize: "invalid work group size",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// Error makes a bare Status usable as an errors.Is target.
func (s Status) Error() string {
	return "cl: " + s.String()
}

// Error carries a Status together with a call-site message. It unwraps to its
// Status so callers can match with errors.Is(err, cl.InvalidArgSize).
type Error struct {
	Status  Status
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Status.Error()
	}
	return fmt.Sprintf("cl: %s: %s", e.Status.String(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Status
}

// Errorf builds an *Error with a formatted message.
func Errorf(status Status, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// StatusOf extracts the Status carried by err, or Success for nil.
// Errors that carry no Status map to OutOfResources, the catch-all the
// client API reports for internal failures.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	for {
		switch e := err.(type) {
		case *Error:
			return e.Status
		case Status:
			return e
		}
		if u, ok := err.(interface{ Unwrap() error }); ok {
			if err = u.Unwrap(); err != nil {
				continue
			}
		}
		return OutOfResources
	}
}
