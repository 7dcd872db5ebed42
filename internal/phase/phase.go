// Package phase is the configurator's discrete state: which screen is active, which vehicle
// is selected and the options chosen for it. All mutation goes through Store.
package phase

import (
	"fmt"
	"strings"
)

// Phase is the top-level screen.
type Phase int

const (
	Intro Phase = iota
	Selection
	Configure
	Performance
	AR
	Summary
)

var phaseNames = [...]string{"intro", "selection", "configure", "performance", "ar", "summary"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase accepts a phase name, case-insensitive. "configurator" is accepted for configure.
func ParsePhase(s string) (Phase, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "configurator" {
		return Configure, true
	}
	for i, n := range phaseNames {
		if n == s {
			return Phase(i), true
		}
	}
	return 0, false
}

// Step is the configure sub-step.
type Step int

const (
	StepNone Step = iota
	StepColor
	StepWheels
	StepInterior
	StepPackages
)

var stepNames = [...]string{"", "color", "wheels", "interior", "packages"}

// Steps lists the configure sub-steps in tab order.
var Steps = []Step{StepColor, StepWheels, StepInterior, StepPackages}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	if s == StepNone {
		return "none"
	}
	return stepNames[s]
}

// ParseStep accepts a step name, case-insensitive.
func ParseStep(s string) (Step, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Steps {
		if stepNames[st] == s {
			return st, true
		}
	}
	return StepNone, false
}

// OptionKind names a configurable field.
type OptionKind string

const (
	OptColor    OptionKind = "color"
	OptWheels   OptionKind = "wheels"
	OptInterior OptionKind = "interior"
	OptPackage  OptionKind = "package"
)

// ParseOptionKind accepts color, wheels/wheel, interior and package/packages.
func ParseOptionKind(s string) (OptionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "color", "colour", "paint":
		return OptColor, true
	case "wheels", "wheel":
		return OptWheels, true
	case "interior":
		return OptInterior, true
	case "package", "packages":
		return OptPackage, true
	}
	return "", false
}
