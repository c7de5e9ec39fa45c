// Package commands builds the Brigadier command graph the Commands packet
// carries, and answers tab-completion queries against it. Command execution
// semantics live with the caller.
package commands

import (
	"bytes"
	"sort"
	"strings"

	mcnet "github.com/mcpp/server/internal/server/net"
)

// Node flags.
const (
	flagTypeRoot     byte = 0x00
	flagTypeLiteral  byte = 0x01
	flagTypeArgument byte = 0x02
	flagExecutable   byte = 0x04
)

// Brigadier parser IDs used here.
const (
	ParserInteger int32 = 3
	ParserString  int32 = 5
)

// String parser properties.
const (
	StringSingleWord int32 = 0
	StringGreedy     int32 = 2
)

// Argument is one argument node of a command.
type Argument struct {
	Name       string
	Parser     int32
	Properties []int32 // parser-specific VarInt properties
}

// Command is one literal command with an optional linear argument chain.
type Command struct {
	Name string
	Args []Argument
}

// Graph is an ordered command set.
type Graph struct {
	commands []Command
}

// NewGraph builds a graph over the given commands.
func NewGraph(cmds []Command) *Graph {
	return &Graph{commands: cmds}
}

// Names returns the command names in declaration order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.commands))
	for i, c := range g.commands {
		names[i] = c.Name
	}
	return names
}

// Serialize flattens the graph into the Commands packet node array.
// The root sits at index 0; every node is executable at its chain end.
func (g *Graph) Serialize() (numNodes int32, nodes []byte, rootIndex int32) {
	type node struct {
		flags    byte
		children []int32
		name     string
		parser   int32
		props    []int32
	}

	all := []node{{flags: flagTypeRoot}}

	for _, cmd := range g.commands {
		literalIdx := int32(len(all))
		all[0].children = append(all[0].children, literalIdx)

		literal := node{flags: flagTypeLiteral, name: cmd.Name}
		if len(cmd.Args) == 0 {
			literal.flags |= flagExecutable
		}
		all = append(all, literal)

		prev := literalIdx
		for i, arg := range cmd.Args {
			argIdx := int32(len(all))
			all[prev].children = append(all[prev].children, argIdx)

			n := node{
				flags:  flagTypeArgument,
				name:   arg.Name,
				parser: arg.Parser,
				props:  arg.Properties,
			}
			if i == len(cmd.Args)-1 {
				n.flags |= flagExecutable
			}
			all = append(all, n)
			prev = argIdx
		}
	}

	var buf bytes.Buffer
	for _, n := range all {
		buf.WriteByte(n.flags)
		mcnet.WriteVarInt(&buf, int32(len(n.children)))
		for _, child := range n.children {
			mcnet.WriteVarInt(&buf, child)
		}
		switch n.flags & 0x03 {
		case flagTypeLiteral:
			mcnet.WriteString(&buf, n.name)
		case flagTypeArgument:
			mcnet.WriteString(&buf, n.name)
			mcnet.WriteVarInt(&buf, n.parser)
			for _, p := range n.props {
				mcnet.WriteVarInt(&buf, p)
			}
		}
	}

	return int32(len(all)), buf.Bytes(), 0
}

// Suggest completes a partial command line. Only the leading literal is
// completed; arguments yield no suggestions.
func (g *Graph) Suggest(text string) (suggestions []string, start int32) {
	trimmed := strings.TrimPrefix(text, "/")
	if strings.ContainsRune(trimmed, ' ') {
		return nil, 0
	}

	for _, cmd := range g.commands {
		if strings.HasPrefix(cmd.Name, strings.ToLower(trimmed)) {
			suggestions = append(suggestions, cmd.Name)
		}
	}
	sort.Strings(suggestions)

	start = int32(len(text) - len(trimmed))
	return suggestions, start
}

// Default is the built-in command set.
func Default() *Graph {
	return NewGraph([]Command{
		{Name: "help"},
		{Name: "list"},
		{Name: "say", Args: []Argument{{Name: "message", Parser: ParserString, Properties: []int32{StringGreedy}}}},
		{Name: "gamemode", Args: []Argument{{Name: "mode", Parser: ParserString, Properties: []int32{StringSingleWord}}}},
		{Name: "time", Args: []Argument{
			{Name: "action", Parser: ParserString, Properties: []int32{StringSingleWord}},
			{Name: "value", Parser: ParserInteger, Properties: []int32{0}},
		}},
	})
}
