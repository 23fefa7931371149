package input

import (
	"fmt"
	"io/ioutil"
	"sync"

	"ctrltest/pkg/port"

	"gopkg.in/yaml.v2"
)

// ErrEmptyScript is returned for a script without any step.
var ErrEmptyScript = fmt.Errorf("script has no steps")

// Step holds a sample for a number of frames.
type Step struct {
	Frames int
	Sample port.RawSample
}

// UnmarshalYAML accepts the sample as a yaml integer or as a string in any base.
func (s *Step) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		Frames int    `yaml:"frames"`
		Sample string `yaml:"sample"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	v, err := ParseSample(raw.Sample)
	if err != nil {
		return err
	}
	if raw.Frames < 1 {
		raw.Frames = 1
	}

	*s = Step{Frames: raw.Frames, Sample: v}
	return nil
}

// ScriptFile is the yaml layout of a script.
//
//  loop: true
//  steps:
//    - frames: 60
//      sample: 0x00000000
//    - frames: 60
//      sample: 0xF0000001
type ScriptFile struct {
	Loop  bool   `yaml:"loop"`
	Steps []Step `yaml:"steps"`
}

// Script replays a list of steps, one sample per frame. After the last step
// it starts over when looping, otherwise it holds the last sample.
type Script struct {
	mu    sync.Mutex
	loop  bool
	steps []Step
	// step is the index of the current step.
	step int
	// left is the number of frames the current step still lasts.
	left int
}

// NewScript creates a script reader from steps.
func NewScript(steps []Step, loop bool) (*Script, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyScript
	}

	return &Script{
		loop:  loop,
		steps: steps,
		left:  steps[0].Frames,
	}, nil
}

// LoadScript reads a script from a yaml file.
func LoadScript(fileName string) (*Script, error) {
	f, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("error reading script file %q: %w", fileName, err)
	}

	var sf ScriptFile
	if err = yaml.Unmarshal(f, &sf); err != nil {
		return nil, fmt.Errorf("error parsing script file %q: %w", fileName, err)
	}

	return NewScript(sf.Steps, sf.Loop)
}

// Sample returns the sample of the current step and advances the script by one frame.
func (s *Script) Sample(port.Number) port.RawSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.steps[s.step].Sample

	if s.left--; s.left > 0 {
		return v
	}

	switch {
	case s.step+1 < len(s.steps):
		s.step++
	case s.loop:
		s.step = 0
	default:
		// hold the last sample
		s.left = 1
		return v
	}
	s.left = s.steps[s.step].Frames
	return v
}

// Rewind restarts the script at its first step.
func (s *Script) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step = 0
	s.left = s.steps[0].Frames
}
