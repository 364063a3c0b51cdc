package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(flag, value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// setupColor applies --color to fatih/color globally; auto follows stderr,
// where issues are printed, and NO_COLOR.
func setupColor(value string) (bool, error) {
	mode, err := readUIMode("color", value)
	if err != nil {
		return false, err
	}
	on := false
	switch mode {
	case uiModeOn:
		on = true
	case uiModeAuto:
		_, noColor := os.LookupEnv("NO_COLOR")
		on = !noColor && isTerminal(os.Stderr)
	}
	color.NoColor = !on
	return on, nil
}
