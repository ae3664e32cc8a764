package core

type Step struct {
	Name    string
	Execute func(ctx *ToolContext) error
}

func NewStep(name string, execute func(ctx *ToolContext) error) *Step {
	return &Step{
		Name:    name,
		Execute: execute,
	}
}
