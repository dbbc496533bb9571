package llm

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/pkoukk/tiktoken-go"
)

// ProcessDocument is the shape generation asks the model for.
type ProcessDocument struct {
	Equipment []EquipmentDocument `json:"equipment"`
	Streams   []StreamDocument    `json:"streams"`
}

type EquipmentDocument struct {
	ID          string  `json:"id" jsonschema:"description=Equipment tag such as P-101"`
	Type        string  `json:"type" jsonschema:"description=Equipment type such as pump or heat_exchanger"`
	Spec        string  `json:"spec" jsonschema:"description=Short service description"`
	Temperature float64 `json:"temperature,omitempty" jsonschema:"description=Operating temperature in degrees C"`
	Pressure    float64 `json:"pressure,omitempty" jsonschema:"description=Operating pressure in bar"`
	FlowRate    float64 `json:"flow_rate,omitempty" jsonschema:"description=Throughput in kg/hr"`
	Duty        float64 `json:"duty,omitempty" jsonschema:"description=Heat duty in kW"`
	Efficiency  float64 `json:"efficiency,omitempty" jsonschema:"description=Efficiency in percent"`
	Stages      int     `json:"stages,omitempty" jsonschema:"description=Number of stages or trays"`
}

type StreamDocument struct {
	ID          string  `json:"id" jsonschema:"description=Stream tag such as S1"`
	From        string  `json:"from" jsonschema:"description=Source equipment id"`
	To          string  `json:"to" jsonschema:"description=Destination equipment id"`
	Flow        float64 `json:"flow" jsonschema:"description=Mass flow in kg/hr"`
	Comp        string  `json:"comp,omitempty" jsonschema:"description=Stream composition"`
	Temperature float64 `json:"temperature,omitempty"`
	Pressure    float64 `json:"pressure,omitempty"`
}

// ReflectSchema builds an inline JSON Schema for the type of v.
func ReflectSchema(v any) *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.Reflect(reflect.New(t).Interface())
}

const (
	baseContext = 200
	minContext  = 4096
)

// contextWindow estimates the num_ctx a request needs; 0 means the server
// default is large enough.
func contextWindow(req Request) (int, error) {
	size := len(req.System) + len(req.Prompt)
	for _, t := range req.History {
		size += len(t.Content)
	}
	// a token is never shorter than a byte
	if baseContext+size <= minContext {
		return 0, nil
	}

	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0, err
	}
	tokens := baseContext + len(enc.Encode(req.System, nil, nil)) + len(enc.Encode(req.Prompt, nil, nil))
	for _, t := range req.History {
		tokens += len(enc.Encode(t.Content, nil, nil))
	}
	if tokens <= minContext {
		return 0, nil
	}
	return tokens, nil
}
