package rtl

import (
	"fmt"
	"strings"
)

//Node is one record of a Tree. It is either a Leaf or an Internal node.
//A nil Node marks a slot reserved by Tree.Append that the builder has not filled yet.
type Node interface {
	GraphDescription() string
	isNode()
}

//Leaf terminates traversal. Value is the median of the training labels routed here.
type Leaf struct {
	Value           float64
	NumberOfObjects int
}

//Internal routes a record to Left when record[Feature] <= Threshold and to Right otherwise.
//Left and Right are indices in the owning Tree.
type Internal struct {
	Feature         int
	Threshold       float64
	Left, Right     int
	NumberOfObjects int
}

func (Leaf) isNode()     {}
func (Internal) isNode() {}

//GraphDescription returns the description of a leaf for tree rendering as a graph
func (leaf Leaf) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", leaf.NumberOfObjects))
	sb.WriteString(fmt.Sprintf("%6.5f", leaf.Value))
	return sb.String()
}

//GraphDescription returns the description of an internal node for tree rendering as a graph
func (node Internal) GraphDescription() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln("#", node.NumberOfObjects))
	sb.WriteString(fmt.Sprintf("f_%d <= %6.5f", node.Feature, node.Threshold))
	return sb.String()
}
