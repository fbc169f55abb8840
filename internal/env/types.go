package env

import "github.com/vovakirdan/tilelab/internal/tensor"

// Status is the state of an episode after Advance.
type Status int

const (
	StatusRunning Status = iota
	StatusInterrupted
	StatusError
	StatusTerminated
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusInterrupted:
		return "interrupted"
	case StatusError:
		return "error"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ObservationType is the element type of an observation.
type ObservationType int

const (
	ObservationBytes ObservationType = iota
	ObservationInt32s
	ObservationDoubles
	ObservationString
)

// String returns the type name.
func (t ObservationType) String() string {
	switch t {
	case ObservationBytes:
		return "bytes"
	case ObservationInt32s:
		return "int32s"
	case ObservationDoubles:
		return "doubles"
	case ObservationString:
		return "string"
	default:
		return "unknown"
	}
}

// ObservationSpec describes one observation. A zero entry in Shape is a
// dimension that depends on the level.
type ObservationSpec struct {
	Name  string          `json:"name"`
	Type  ObservationType `json:"type"`
	Shape []int           `json:"shape"`
}

// Observation holds a value of the type named by its spec. Exactly one of
// the payload fields is set.
type Observation struct {
	ObservationSpec
	Bytes   *tensor.ByteView  `json:"-"`
	Int32s  *tensor.Int32View `json:"-"`
	Doubles []float64         `json:"doubles,omitempty"`
	Text    string            `json:"text,omitempty"`
}

// ActionSpec describes a discrete action and its inclusive bounds.
type ActionSpec struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

// Event is a named occurrence reported by the world during Start or
// Advance.
type Event struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

// PropertyResult reports the outcome of a property access.
type PropertyResult int

const (
	PropertySuccess PropertyResult = iota
	PropertyNotFound
	PropertyPermissionDenied
	PropertyInvalidArgument
)

// String returns the result name.
func (r PropertyResult) String() string {
	switch r {
	case PropertySuccess:
		return "success"
	case PropertyNotFound:
		return "not found"
	case PropertyPermissionDenied:
		return "permission denied"
	case PropertyInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// PropertyAttributes are the access flags of a property.
type PropertyAttributes uint8

const (
	PropertyReadable PropertyAttributes = 1 << iota
	PropertyWritable
	PropertyListable
)
