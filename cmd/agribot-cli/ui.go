// Package main provides UI utilities for the AgriBot CLI.
package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// UI provides user-friendly terminal output.
type UI struct {
	spin     *spinner.Spinner
	jsonMode bool
}

// NewUI creates a new UI instance. JSON mode suppresses decoration.
func NewUI(jsonMode bool) *UI {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " thinking..."
	return &UI{spin: s, jsonMode: jsonMode}
}

// Banner prints the chat banner.
func (ui *UI) Banner() {
	if ui.jsonMode {
		return
	}
	color.New(color.FgGreen, color.Bold).Println("AgriBot - your agriculture assistant")
	fmt.Println("Ask about crops, pests, soil, or the weather. Type 'exit' to leave.")
	fmt.Println()
}

// Prompt prints the input prompt.
func (ui *UI) Prompt() {
	if ui.jsonMode {
		return
	}
	color.New(color.FgCyan, color.Bold).Print("you> ")
}

// BotSays prints a bot reply.
func (ui *UI) BotSays(text string) {
	if ui.jsonMode {
		fmt.Println(text)
		return
	}
	color.New(color.FgGreen, color.Bold).Print("bot> ")
	fmt.Println(text)
	fmt.Println()
}

// Heading prints a section heading.
func (ui *UI) Heading(text string) {
	if ui.jsonMode {
		return
	}
	color.New(color.FgYellow, color.Bold).Println(text)
}

// StartThinking shows the wait spinner.
func (ui *UI) StartThinking() {
	if ui.jsonMode {
		return
	}
	ui.spin.Start()
}

// StopThinking hides the wait spinner.
func (ui *UI) StopThinking() {
	if ui.jsonMode {
		return
	}
	ui.spin.Stop()
}
