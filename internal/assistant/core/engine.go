package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"medassist/pkg/logger"
)

var ErrUnknownTool = errors.New("unsupported tool")

// Tool is a named pipeline of steps the language model can invoke.
// Fallback writes the reply used when any step fails.
type Tool interface {
	Definition() ToolDefinition
	Steps() []*Step
	Fallback(ctx *ToolContext, err error)
}

type Engine struct {
	tools   map[string]Tool
	limiter *Limiter
	log     *logger.Logger
}

func NewEngine(limiter *Limiter, log *logger.Logger, tools ...Tool) *Engine {
	m := map[string]Tool{}
	for _, t := range tools {
		m[t.Definition().Function.Name] = t
	}
	return &Engine{tools: m, limiter: limiter, log: log}
}

// Definitions lists the registered tools ordered by name.
func (e *Engine) Definitions() []ToolDefinition {
	names := make([]string, 0, len(e.tools))
	for name := range e.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]ToolDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, e.tools[name].Definition())
	}
	return defs
}

// Has reports whether a tool named name is registered.
func (e *Engine) Has(name string) bool {
	_, ok := e.tools[name]
	return ok
}

// Run executes every step of the requested tool in order. When a step fails the
// tool's fallback reply is returned together with the error.
func (e *Engine) Run(ctx context.Context, call ToolCall) ([]Message, error) {
	t, exists := e.tools[call.Name]
	if !exists {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTool, call.Name)
	}

	tc := NewToolContext(ctx, call)
	var stepErr error
	err := e.limiter.Run(ctx, func() {
		for _, step := range t.Steps() {
			if err := step.Execute(tc); err != nil {
				stepErr = fmt.Errorf("%s step failed, pipeline errored: %w", step.Name, err)
				return
			}
		}
	})
	if err == nil {
		err = stepErr
	}

	if err != nil {
		e.log.Error("Tool call failed",
			"tool", call.Name,
			"tool_call_id", call.ID,
			"arguments", string(call.Arguments),
			"error", err,
		)
		tc.Output = nil
		t.Fallback(tc, err)
		return tc.Output, err
	}

	e.log.Info("Tool call completed", "tool", call.Name, "tool_call_id", call.ID)
	return tc.Output, nil
}
