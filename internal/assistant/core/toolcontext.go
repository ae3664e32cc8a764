package core

import "context"

// ToolContext carries one tool call through its steps. Steps read Call,
// share intermediate values through Process and append replies to Output.
type ToolContext struct {
	Ctx     context.Context
	Call    ToolCall
	Process map[string]any
	Output  []Message
}

func NewToolContext(ctx context.Context, call ToolCall) *ToolContext {
	return &ToolContext{
		Ctx:     ctx,
		Call:    call,
		Process: make(map[string]any),
	}
}

func (c *ToolContext) Reply(role, content string) {
	c.Output = append(c.Output, Message{Role: role, Content: content, ToolCallID: c.Call.ID})
}
