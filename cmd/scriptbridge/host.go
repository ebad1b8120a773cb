// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/fatih/color"
)

// host drives a bridge from text commands, the way a game server drives it
// from its own loop. Every dispatch and reload happens on the caller's
// goroutine.
type host struct {
	bridge *scriptbridge.Bridge
	out    io.Writer

	ok      *color.Color
	deny    *color.Color
	dim     *color.Color
	failure *color.Color
}

func newHost(bridge *scriptbridge.Bridge, out io.Writer) *host {
	return &host{
		bridge:  bridge,
		out:     out,
		ok:      color.New(color.FgGreen),
		deny:    color.New(color.FgRed, color.Bold),
		dim:     color.New(color.FgHiBlack),
		failure: color.New(color.FgRed),
	}
}

// readLines forwards lines from r until it is exhausted.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// run processes lines and reload requests until the input ends, a quit
// command is read or ctx is done.
func (h *host) run(ctx context.Context, lines <-chan string, reload <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-reload:
			h.reload()
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !h.handle(line) {
				return
			}
		}
	}
}

// handle executes one input line. It returns false when the host should exit.
func (h *host) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return true
	}

	switch fields[0] {
	case "quit", "exit":
		return false
	case "events":
		h.listEvents()
	case "contexts":
		h.listContexts()
	case "reload":
		h.reload()
	default:
		h.dispatch(fields[0], fields[1:])
	}
	return true
}

func (h *host) dispatch(name string, fields []string) {
	event, ok := scriptbridge.LookupEvent(name)
	if !ok {
		h.failure.Fprintf(h.out, "unknown event or command: %s\n", name)
		return
	}
	args, err := parseArgs(event, fields)
	if err != nil {
		h.failure.Fprintf(h.out, "%v\n", err)
		return
	}

	outcome := h.bridge.Dispatch(event, args...)
	h.printOutcome(outcome)
}

func (h *host) printOutcome(outcome scriptbridge.Outcome) {
	fmt.Fprintf(h.out, "%s -> ", outcome.Event.Name)
	if outcome.Event.Decision {
		c := h.ok
		if !outcome.Decision {
			c = h.deny
		}
		c.Fprint(h.out, strconv.FormatBool(outcome.Decision))
		if !outcome.Responded {
			h.dim.Fprint(h.out, " (default)")
		}
	} else {
		fmt.Fprintf(h.out, "%d results", len(outcome.Results))
	}
	if outcome.Failed > 0 {
		h.failure.Fprintf(h.out, " (%d failed)", outcome.Failed)
	}
	fmt.Fprintln(h.out)
}

func (h *host) listEvents() {
	for _, event := range scriptbridge.Events() {
		fmt.Fprintf(h.out, "%s %s", event.Name, paramUsage(event))
		if event.Decision {
			h.dim.Fprintf(h.out, " -> decision, default %v", event.Default)
		}
		fmt.Fprintln(h.out)
	}
}

func (h *host) listContexts() {
	registry := h.bridge.Registry()
	if registry == nil {
		h.dim.Fprintln(h.out, "no scripts loaded")
		return
	}
	for _, ctx := range registry.Contexts() {
		name := ctx.Name()
		if ctx.Primary() && ctx.Origin() != "" {
			name += " (" + filepath.Base(ctx.Origin()) + ")"
		}
		fmt.Fprintf(h.out, "#%d %s ", ctx.ID(), name)
		c := h.ok
		if ctx.State() != scriptbridge.StateLive {
			c = h.failure
		}
		c.Fprintln(h.out, ctx.State().String())
	}
}

func (h *host) reload() {
	if err := h.bridge.Reload(); err != nil {
		h.failure.Fprintf(h.out, "reload failed: %v\n", err)
		return
	}
	h.ok.Fprintf(h.out, "reloaded %d contexts\n", h.bridge.Registry().Len())
}

// parseArgs converts the fields of an input line into host arguments for
// event. A text parameter in the last position takes the rest of the line.
func parseArgs(event *scriptbridge.Event, fields []string) ([]any, error) {
	last := len(event.Params) - 1
	if last >= 0 && event.Params[last].Kind == scriptbridge.ParamText && len(fields) > last {
		fields = append(fields[:last:last], strings.Join(fields[last:], " "))
	}
	if len(fields) != len(event.Params) {
		return nil, fmt.Errorf("usage: %s %s", event.Name, paramUsage(event))
	}

	args := make([]any, len(fields))
	for i, param := range event.Params {
		switch param.Kind {
		case scriptbridge.ParamInt:
			n, err := strconv.ParseInt(fields[i], 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %q is not an integer", param.Name, fields[i])
			}
			args[i] = n
		case scriptbridge.ParamFloat:
			f, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %q is not a number", param.Name, fields[i])
			}
			args[i] = f
		default:
			args[i] = fields[i]
		}
	}
	return args, nil
}

func paramUsage(event *scriptbridge.Event) string {
	names := make([]string, len(event.Params))
	for i, param := range event.Params {
		names[i] = "<" + param.Name + ">"
	}
	return strings.Join(names, " ")
}
