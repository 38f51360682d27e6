// Package demo replays scripted pointer sessions against the network, either
// headless for exports or live into a running terminal.
package demo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"choopy/core"
	"choopy/network"

	"gopkg.in/yaml.v3"
)

// ErrInvalidStep is wrapped by script validation failures.
var ErrInvalidStep = errors.New("invalid demo step")

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Grab        *int        `yaml:"grab,omitempty"`  // node id; the pointer lands on its center
	Press       *core.Point `yaml:"press,omitempty"` // hit-tested like a click
	Move        *core.Point `yaml:"move,omitempty"`
	Release     bool        `yaml:"release,omitempty"`
	Settle      *int        `yaml:"settle,omitempty"` // run the auto-link scan now
	Unbind      *int        `yaml:"unbind,omitempty"`
	DoubleClick *core.Point `yaml:"doubleclick,omitempty"`
	Hover       *int        `yaml:"hover,omitempty"` // -1 clears
	Wait        string      `yaml:"wait,omitempty"`  // duration, e.g. "150ms"
}

// Script is a named list of steps.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// SettleDelay is the debounce a headless replay simulates; empty uses
	// network.DefaultSettleDelay.
	SettleDelay string `yaml:"settle_delay,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// LoadScript loads a demo script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read demo script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse demo script: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks every step sets exactly one action.
func (s *Script) Validate() error {
	if _, err := s.settleDelay(); err != nil {
		return err
	}
	for i, st := range s.Steps {
		n := 0
		for _, set := range []bool{
			st.Grab != nil, st.Press != nil, st.Move != nil, st.Release,
			st.Settle != nil, st.Unbind != nil, st.DoubleClick != nil,
			st.Hover != nil, st.Wait != "",
		} {
			if set {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("%w: step %d sets %d actions", ErrInvalidStep, i, n)
		}
		if st.Wait != "" {
			if _, err := time.ParseDuration(st.Wait); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidStep, i, err)
			}
		}
	}
	return nil
}

func (s *Script) settleDelay() (time.Duration, error) {
	if s.SettleDelay == "" {
		return network.DefaultSettleDelay, nil
	}
	d, err := time.ParseDuration(s.SettleDelay)
	if err != nil {
		return 0, fmt.Errorf("%w: settle_delay: %v", ErrInvalidStep, err)
	}
	return d, nil
}

// event converts a step into a network event against the current state.
// Wait steps return their duration and no event.
func (st Step) event(s network.State) (network.Event, time.Duration) {
	switch {
	case st.Grab != nil:
		at := core.Point{}
		if n, ok := s.Node(*st.Grab); ok {
			at = n.Center(s.Params.Size)
		}
		return network.Grab{ID: *st.Grab, At: at}, 0
	case st.Press != nil:
		return network.Press{At: *st.Press}, 0
	case st.Move != nil:
		return network.Move{At: *st.Move}, 0
	case st.Release:
		return network.Release{}, 0
	case st.Settle != nil:
		return network.Settle{ID: *st.Settle}, 0
	case st.Unbind != nil:
		return network.Unbind{ID: *st.Unbind}, 0
	case st.DoubleClick != nil:
		return network.DoubleClick{At: *st.DoubleClick}, 0
	case st.Hover != nil:
		return network.HoverNode{ID: *st.Hover}, 0
	}
	d, _ := time.ParseDuration(st.Wait)
	return nil, d
}

// Replay runs the script headless through network.Reduce. The settle
// debounce is simulated: a wait at least as long as the settle delay runs
// the pending scan. Unbinds cancel a pending scan. Scans still pending at
// the end are discarded, as when the network closes.
func Replay(s network.State, script *Script) network.State {
	delay, err := script.settleDelay()
	if err != nil {
		delay = network.DefaultSettleDelay
	}

	pending := core.NoNode
	var elapsed time.Duration
	for _, st := range script.Steps {
		ev, wait := st.event(s)
		if ev == nil {
			elapsed += wait
			if pending != core.NoNode && elapsed >= delay {
				s, _ = network.Reduce(s, network.Settle{ID: pending})
				pending = core.NoNode
			}
			continue
		}

		var effect network.Effect
		s, effect = network.Reduce(s, ev)
		switch {
		case effect == network.EffectArmSettle:
			pending, elapsed = s.Dragged, 0
		case isUnbind(ev):
			pending = core.NoNode
		}
	}
	return s
}

func isUnbind(ev network.Event) bool {
	switch ev.(type) {
	case network.Unbind, network.DoubleClick:
		return true
	}
	return false
}

// Play sends the script's events live, sleeping through waits. The owner's
// controller runs the real settle timer. Play stops early when ctx is done.
func Play(ctx context.Context, script *Script, state func() network.State, send func(network.Event)) error {
	for _, st := range script.Steps {
		ev, wait := st.event(state())
		if ev == nil {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		send(ev)
	}
	return nil
}

// Example is a script that drags two bubbles together, lets them link and
// then pulls them apart again.
const Example = `name: link and unbind
description: drag node 1 next to node 0, wait for the link, then unbind it
steps:
  - grab: 1
  - move: {x: 100, y: 30}
  - release: true
  - wait: 150ms
  - hover: 0
  - unbind: 0
`
