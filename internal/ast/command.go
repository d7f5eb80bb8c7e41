package ast

import (
	"strings"
)

// Command is one parsed input line.
//
// Construction:  ObjectName = new ClassName(Arguments...)
// Invocation:    ObjectName.MethodName(Arguments...)
//
// Arguments are raw tokens: quoted text keeps its quotes, integers and
// names are as typed.
type Command struct {
	IsMethodCall bool
	ClassName    string // construction only
	ObjectName   string // binding name, or receiver name for invocation
	MethodName   string // invocation only
	Arguments    []string
}

func (c *Command) String() string {
	args := strings.Join(c.Arguments, ", ")
	if c.IsMethodCall {
		return c.ObjectName + "." + c.MethodName + "(" + args + ")"
	}
	return c.ObjectName + " = new " + c.ClassName + "(" + args + ")"
}

// MetaCommand is a session command such as :vars. It never reaches the
// command processor.
type MetaCommand struct {
	Name string
	Args []string
}
