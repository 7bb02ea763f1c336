package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = []uiMode{uiModeAuto, uiModeOn, uiModeOff}

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	if mode == "" {
		return uiModeAuto, nil
	}
	if !slices.Contains(uiModes, mode) {
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return mode, nil
}

// shouldUseTUI: в auto прогресс рисуется, только если stdout - терминал и
// заданий больше одного.
func shouldUseTUI(mode uiMode, jobs int) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return jobs > 1 && isTerminal(os.Stdout)
}
