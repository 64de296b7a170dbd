package types

// ComponentDescriptor is a static catalog entry keyed by the component prefix
// found in drawing attributes.
type ComponentDescriptor struct {
	Component   string   `json:"Component" yaml:"Component"`
	Subtype     string   `json:"Subtype" yaml:"Subtype"`
	IOType      int      `json:"IO_Type" yaml:"IO_Type"`
	Inputs      []string `json:"Inputs" yaml:"Inputs"`
	Outputs     []string `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
	InputCable  string   `json:"Input_Cable,omitempty" yaml:"Input_Cable,omitempty"`
	OutputCable string   `json:"Output_Cable,omitempty" yaml:"Output_Cable,omitempty"`
}
