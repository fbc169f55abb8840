package wsenv

import "github.com/vovakirdan/tilelab/internal/env"

// Request ops.
const (
	OpSpecs   = "specs"
	OpStart   = "start"
	OpStep    = "step"
	OpObserve = "observe"
	OpRead    = "read"
	OpWrite   = "write"
	OpList    = "list"
)

// Request is one client message.
type Request struct {
	Op           string   `json:"op"`
	Episode      int      `json:"episode,omitempty"`
	Seed         int64    `json:"seed,omitempty"`
	Move         int      `json:"move,omitempty"`
	Steps        int      `json:"steps,omitempty"`
	Observations []string `json:"observations,omitempty"`
	Key          string   `json:"key,omitempty"`
	Value        string   `json:"value,omitempty"`
}

// Observation is an env.Observation flattened for JSON. Bytes are base64
// encoded by encoding/json.
type Observation struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Shape   []int     `json:"shape"`
	Bytes   []byte    `json:"bytes,omitempty"`
	Int32s  []int32   `json:"int32s,omitempty"`
	Doubles []float64 `json:"doubles,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// Event is an env.Event flattened for JSON.
type Event struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations,omitempty"`
}

// Property is one entry of a list reply.
type Property struct {
	Key      string `json:"key"`
	Readable bool   `json:"readable,omitempty"`
	Writable bool   `json:"writable,omitempty"`
	Listable bool   `json:"listable,omitempty"`
}

// Response answers one Request.
type Response struct {
	Op           string                `json:"op"`
	Error        string                `json:"error,omitempty"`
	Status       string                `json:"status,omitempty"`
	Reward       float64               `json:"reward,omitempty"`
	Events       []Event               `json:"events,omitempty"`
	Observations []Observation         `json:"observations,omitempty"`
	Specs        []env.ObservationSpec `json:"specs,omitempty"`
	Actions      []env.ActionSpec      `json:"actions,omitempty"`
	Value        string                `json:"value,omitempty"`
	Result       string                `json:"result,omitempty"`
	Properties   []Property            `json:"properties,omitempty"`
}

func toObservation(o env.Observation) Observation {
	out := Observation{
		Name:    o.Name,
		Type:    o.Type.String(),
		Shape:   o.Shape,
		Doubles: o.Doubles,
		Text:    o.Text,
	}
	if o.Bytes != nil {
		out.Bytes = o.Bytes.Clone().Data()
	}
	if o.Int32s != nil {
		out.Int32s = o.Int32s.Clone().Data()
	}
	return out
}

func toEvents(events []env.Event) []Event {
	out := make([]Event, len(events))
	for i, ev := range events {
		out[i] = Event{Name: ev.Name}
		for _, o := range ev.Observations {
			out[i].Observations = append(out[i].Observations, toObservation(o))
		}
	}
	return out
}
