// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownEvent is returned by DispatchName for names outside the event table.
var ErrUnknownEvent = errors.New("unknown event")

// Outcome is what the host gets back from one dispatch.
type Outcome struct {
	Event     *Event
	Decision  bool     // Reduced decision, meaningful for decision events only
	Responded bool     // Whether the decision came from a script rather than the default
	Results   []Result // Non-empty results in dispatch order
	Failed    int      // Contexts whose handler raised an error
}

// Dispatcher fans a host event out to every context and reduces the results.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over a registry. A nil registry
// behaves like an empty one.
func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// Dispatch encodes args, invokes the handler in every live context and
// reduces the results. The first non-empty result decides: contexts visited
// later never override it. A nil event yields the zero Outcome.
func (d *Dispatcher) Dispatch(event *Event, args ...any) Outcome {
	if event == nil {
		d.logger.Error("Rejected nil event")
		return Outcome{}
	}
	outcome := Outcome{Event: event, Decision: event.Default}

	encoded, err := encodeArgs(event, args)
	if err != nil {
		d.logger.Error("Rejected event arguments",
			"event", event.Name,
			"error", err)
		return outcome
	}

	if d.registry != nil {
		d.registry.ForEach(func(ctx *ScriptContext) {
			result, status := ctx.Invoke(event.Name, encoded)
			switch status {
			case InvokeFailed:
				outcome.Failed++
			case InvokeOK:
				if !result.Empty() {
					outcome.Results = append(outcome.Results, result)
				}
			}
		})
	}

	if event.Decision {
		outcome.Decision, outcome.Responded = reduce(outcome.Results, event.Default)
	}
	return outcome
}

// DispatchName dispatches by handler name.
func (d *Dispatcher) DispatchName(name string, args ...any) (Outcome, error) {
	event, ok := LookupEvent(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	return d.Dispatch(event, args...), nil
}

// reduce takes the first value of the first non-empty result. A value that
// is not a decision falls back to the default.
func reduce(results []Result, fallback bool) (bool, bool) {
	if len(results) == 0 {
		return fallback, false
	}
	if decision, ok := results[0][0].Decision(); ok {
		return decision, true
	}
	return fallback, false
}

// encodeArgs converts host arguments into values matching the event params.
func encodeArgs(event *Event, args []any) ([]Value, error) {
	if len(args) != len(event.Params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", event.Name, len(event.Params), len(args))
	}
	values := make([]Value, len(args))
	for i, param := range event.Params {
		v, err := encodeArg(param, args[i])
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func encodeArg(param Param, arg any) (Value, error) {
	v := ValueOf(arg)
	switch param.Kind {
	case ParamInt:
		if v.Kind() == KindInt {
			return v, nil
		}
	case ParamFloat:
		switch v.Kind() {
		case KindFloat:
			return v, nil
		case KindInt:
			i, _ := v.AsInt()
			return Float(float64(i)), nil
		}
	case ParamText:
		if v.Kind() == KindString {
			return v, nil
		}
	}
	return None(), fmt.Errorf("argument %s: cannot use %T as %s", param.Name, arg, param.Kind)
}
