package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode selects when result output is colorized.
type ColorMode string

// Supported color modes.
const (
	ColorModeAuto   ColorMode = ColorMode("auto")
	ColorModeAlways ColorMode = ColorMode("always")
	ColorModeNever  ColorMode = ColorMode("never")
)

const (
	unsupportedColorModeTemplateConstant = "%w: %s"
)

// ErrUnsupportedColorMode indicates a color mode outside auto, always and never.
var ErrUnsupportedColorMode = errors.New("unsupported color mode")

// ParseColorMode normalizes a configured color mode; an empty value means auto.
func ParseColorMode(value string) (ColorMode, error) {
	normalizedValue := ColorMode(strings.ToLower(strings.TrimSpace(value)))
	switch normalizedValue {
	case "":
		return ColorModeAuto, nil
	case ColorModeAuto, ColorModeAlways, ColorModeNever:
		return normalizedValue, nil
	default:
		return "", fmt.Errorf(unsupportedColorModeTemplateConstant, ErrUnsupportedColorMode, value)
	}
}

// FileDescriptorProvider is satisfied by *os.File.
type FileDescriptorProvider interface {
	Fd() uintptr
}

// ColorDetector decides whether output should be colorized.
type ColorDetector struct {
	ColorSuppressed func() bool
	IsTerminal      func(fileDescriptor uintptr) bool
	Profile         func() termenv.Profile
}

// NewColorDetector returns a detector that honors NO_COLOR, requires a terminal
// and rejects terminals without color support.
func NewColorDetector() ColorDetector {
	return ColorDetector{
		ColorSuppressed: termenv.EnvNoColor,
		IsTerminal: func(fileDescriptor uintptr) bool {
			return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
		},
		Profile: termenv.ColorProfile,
	}
}

// Enabled reports whether output written to the destination should carry color.
func (detector ColorDetector) Enabled(mode ColorMode, destination any) bool {
	switch mode {
	case ColorModeAlways:
		return true
	case ColorModeNever:
		return false
	}

	if detector.ColorSuppressed != nil && detector.ColorSuppressed() {
		return false
	}
	descriptorProvider, providesDescriptor := destination.(FileDescriptorProvider)
	if !providesDescriptor || detector.IsTerminal == nil || !detector.IsTerminal(descriptorProvider.Fd()) {
		return false
	}
	if detector.Profile != nil && detector.Profile() == termenv.Ascii {
		return false
	}
	return true
}
