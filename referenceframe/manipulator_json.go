package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// JointConfig describes a single driven joint in a manipulator JSON file.
type JointConfig struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"` // "revolute", "prismatic", or "circular"
	Min    float64 `json:"min"`  // radians or mm
	Max    float64 `json:"max"`
	Weight float64 `json:"weight,omitempty"`
	Free   bool    `json:"free,omitempty"`
}

// ManipulatorConfig is the JSON shape a Manipulator binding is parsed from,
// mirroring the shape of referenceframe.ModelConfig in the teacher repo.
type ManipulatorConfig struct {
	Name                 string        `json:"name"`
	Joints               []JointConfig `json:"joints"`
	ChildLinks           []string      `json:"childLinks,omitempty"`
	IndependentLinks     []string      `json:"independentLinks,omitempty"`
	KinematicsHash       string        `json:"kinematicsHash,omitempty"`
	ParameterizationType string        `json:"parameterizationType"`
}

// ParseConfig converts the config into a bound Manipulator.
func (cfg *ManipulatorConfig) ParseConfig() (*Manipulator, error) {
	joints := make([]Joint, len(cfg.Joints))
	var free []int
	for i, jc := range cfg.Joints {
		var kind JointKind
		switch jc.Type {
		case "prismatic":
			kind = Prismatic
		case "revolute":
			kind = Revolute
		case "circular":
			kind = Circular
		default:
			return nil, errors.Errorf("unsupported joint type %q for joint %q", jc.Type, jc.Name)
		}
		weight := jc.Weight
		if weight == 0 {
			weight = 1
		}
		joints[i] = Joint{
			Name:   jc.Name,
			Kind:   kind,
			Limit:  Limit{Min: jc.Min, Max: jc.Max},
			Weight: weight,
		}
		if jc.Free {
			free = append(free, i)
		}
	}

	if cfg.ParameterizationType == "" {
		return nil, errors.New("manipulator config missing parameterizationType")
	}

	return Init(joints, free, cfg.ChildLinks, cfg.IndependentLinks, cfg.KinematicsHash, cfg.ParameterizationType)
}

// ParseManipulatorJSONFile reads and parses a manipulator binding from disk.
func ParseManipulatorJSONFile(filename string) (*Manipulator, error) {
	//nolint:gosec
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manipulator json file")
	}
	return UnmarshalManipulatorJSON(data)
}

// ErrNoManipulatorInformation indicates an empty manipulator config payload.
var ErrNoManipulatorInformation = errors.New("no manipulator information")

// UnmarshalManipulatorJSON parses raw JSON bytes into a bound Manipulator.
func UnmarshalManipulatorJSON(data []byte) (*Manipulator, error) {
	if len(data) == 0 {
		return nil, ErrNoManipulatorInformation
	}
	cfg := &ManipulatorConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal manipulator json")
	}
	return cfg.ParseConfig()
}
