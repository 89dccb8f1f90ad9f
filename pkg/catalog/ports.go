package catalog

import "github.com/agp-labs/builder/pkg/models"

// Port names used by the synthesized port sets.
const (
	InputPortValue   = "value"
	InputPortMain    = "input"
	OutputPortClick  = "click"
	OutputPortChange = "change"
	OutputPortSubmit = "submit"
	OutputPortMsg    = "message"
	OutputPortReply  = "response"
	OutputPortMain   = "output"
)

type portSpec struct {
	name        string
	description string
}

// portTable maps component types to their synthesized ports. Types absent from
// the table fall back to one generic input and one generic output.
var portTable = map[models.ComponentType]struct {
	inputs  []portSpec
	outputs []portSpec
}{
	models.ComponentTypeButton: {
		inputs: nil,
		outputs: []portSpec{
			{OutputPortClick, "Click"},
		},
	},
	models.ComponentTypeInput: {
		inputs: []portSpec{
			{InputPortValue, "Value"},
		},
		outputs: []portSpec{
			{OutputPortChange, "Change"},
			{OutputPortSubmit, "Submit"},
		},
	},
	models.ComponentTypeChatbot: {
		inputs: []portSpec{
			{InputPortMain, "Input"},
		},
		outputs: []portSpec{
			{OutputPortMsg, "Message"},
			{OutputPortReply, "Response"},
		},
	},
}

var defaultPorts = struct {
	inputs  []portSpec
	outputs []portSpec
}{
	inputs: []portSpec{
		{InputPortMain, "Input"},
	},
	outputs: []portSpec{
		{OutputPortMain, "Output"},
	},
}

// SynthesizePorts returns the input and output ports for a node of the given
// component type. The result depends only on the type: same type, same ports.
func SynthesizePorts(nodeID string, componentType models.ComponentType) ([]models.InputPort, []models.OutputPort) {
	specs, ok := portTable[componentType]
	if !ok {
		specs = defaultPorts
	}

	inputs := make([]models.InputPort, 0, len(specs.inputs))
	for _, spec := range specs.inputs {
		inputs = append(inputs, models.InputPort{
			Port: models.Port{
				ID:          models.MakePortID(nodeID, spec.name),
				NodeID:      nodeID,
				Name:        spec.name,
				Description: spec.description,
			},
		})
	}

	outputs := make([]models.OutputPort, 0, len(specs.outputs))
	for _, spec := range specs.outputs {
		outputs = append(outputs, models.OutputPort{
			Port: models.Port{
				ID:          models.MakePortID(nodeID, spec.name),
				NodeID:      nodeID,
				Name:        spec.name,
				Description: spec.description,
			},
		})
	}

	return inputs, outputs
}

// HasInputPort reports whether the component type synthesizes an input port
// with the given short name.
func HasInputPort(componentType models.ComponentType, name string) bool {
	inputs, _ := SynthesizePorts("lookup", componentType)
	for _, p := range inputs {
		if p.Name == name {
			return true
		}
	}

	return false
}

// HasOutputPort reports whether the component type synthesizes an output port
// with the given short name.
func HasOutputPort(componentType models.ComponentType, name string) bool {
	_, outputs := SynthesizePorts("lookup", componentType)
	for _, p := range outputs {
		if p.Name == name {
			return true
		}
	}

	return false
}
