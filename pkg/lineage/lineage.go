// Package lineage models evolution chains: a tree rooted at a species where
// each child is reached through one transition.
//
// The chain document nests arbitrarily deep, so every traversal here uses an
// explicit work-list instead of recursion.
package lineage

import (
	"encoding/json"
	"fmt"
)

// Transition describes how a node is reached from its parent.
type Transition struct {
	Trigger  string `json:"trigger,omitempty"`
	MinLevel *int   `json:"min_level,omitempty"`
	Item     string `json:"item,omitempty"`
}

// Node is one species in a lineage chain.
type Node struct {
	Species    string      `json:"species"`
	SpeciesURL string      `json:"species_url,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
	Children   []*Node     `json:"children,omitempty"`
}

// Step is a node visited during a walk, with its depth below the root.
type Step struct {
	Node  *Node
	Depth int
}

// Walk visits nodes in pre-order, children left to right. Returning false
// from fn stops the walk.
func Walk(root *Node, fn func(Step) bool) {
	if root == nil {
		return
	}

	stack := []Step{{Node: root}}
	for len(stack) > 0 {
		step := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(step) {
			return
		}

		// Push in reverse so the first child is visited first.
		for i := len(step.Node.Children) - 1; i >= 0; i-- {
			stack = append(stack, Step{Node: step.Node.Children[i], Depth: step.Depth + 1})
		}
	}
}

// Flatten returns every node in pre-order.
func Flatten(root *Node) []Step {
	var steps []Step
	Walk(root, func(s Step) bool {
		steps = append(steps, s)
		return true
	})
	return steps
}

// Species returns the species names in pre-order.
func Species(root *Node) []string {
	var names []string
	Walk(root, func(s Step) bool {
		names = append(names, s.Node.Species)
		return true
	})
	return names
}

// Find returns the node for species, or nil.
func Find(root *Node, species string) *Node {
	var found *Node
	Walk(root, func(s Step) bool {
		if s.Node.Species == species {
			found = s.Node
			return false
		}
		return true
	})
	return found
}

// Depth returns the number of levels in the chain (0 for nil).
func Depth(root *Node) int {
	deepest := 0
	Walk(root, func(s Step) bool {
		if s.Depth+1 > deepest {
			deepest = s.Depth + 1
		}
		return true
	})
	return deepest
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type chainLink struct {
	Species          namedRef    `json:"species"`
	EvolvesTo        []chainLink `json:"evolves_to"`
	EvolutionDetails []struct {
		MinLevel *int      `json:"min_level"`
		Trigger  *namedRef `json:"trigger"`
		Item     *namedRef `json:"item"`
	} `json:"evolution_details"`
}

type chainDocument struct {
	Chain *chainLink `json:"chain"`
}

// Decode parses an evolution-chain document into a lineage tree.
// Only the first evolution detail of each link is kept.
func Decode(data []byte) (*Node, error) {
	var doc chainDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode chain document: %w", err)
	}
	if doc.Chain == nil {
		return nil, fmt.Errorf("decode chain document: missing chain")
	}

	type pending struct {
		link *chainLink
		node *Node
	}

	root := convertLink(doc.Chain)
	work := []pending{{link: doc.Chain, node: root}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		p.node.Children = make([]*Node, 0, len(p.link.EvolvesTo))
		for i := range p.link.EvolvesTo {
			child := convertLink(&p.link.EvolvesTo[i])
			p.node.Children = append(p.node.Children, child)
			work = append(work, pending{link: &p.link.EvolvesTo[i], node: child})
		}
	}
	return root, nil
}

func convertLink(link *chainLink) *Node {
	node := &Node{
		Species:    link.Species.Name,
		SpeciesURL: link.Species.URL,
	}
	if len(link.EvolutionDetails) > 0 {
		d := link.EvolutionDetails[0]
		t := &Transition{MinLevel: d.MinLevel}
		if d.Trigger != nil {
			t.Trigger = d.Trigger.Name
		}
		if d.Item != nil {
			t.Item = d.Item.Name
		}
		node.Transition = t
	}
	return node
}
