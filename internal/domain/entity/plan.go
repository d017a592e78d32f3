package entity

// PlanResponse is the model's reply after shape validation: a JSON object
// with a string "command" and an "args" value coerced to text.
type PlanResponse struct {
	Command string
	Args    string
}

func (p PlanResponse) ToCommand() Command {
	return NewCommand(p.Command, p.Args)
}
