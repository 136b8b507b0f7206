// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// formatter colours text, or decorates it with prefix and suffix when
// colour is off.
type formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

func noColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return color.NoColor
}

var (
	success   = formatter{color: color.New(color.FgGreen)}
	failure   = formatter{color: color.New(color.FgRed)}
	warning   = formatter{color: color.New(color.FgYellow)}
	info      = formatter{color: color.New(color.FgCyan)}
	pathStyle = formatter{color: color.New(color.FgYellow)}
	highlight = formatter{color: color.New(color.FgCyan), prefix: "'", suffix: "'"}
)

func successLine(msg string) string {
	return success.Sprint("✓") + " " + msg
}

func failureLine(msg string) string {
	return failure.Sprint("✗") + " " + msg
}

func warningLine(msg string) string {
	return warning.Sprint("⚠") + " " + msg
}

func hintLine(msg string) string {
	return info.Sprint("→") + " " + msg
}
