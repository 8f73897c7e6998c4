package rtl

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

//Tree is an append-only array of nodes. Index 0 is the root. Internal nodes refer to their
//children by index, and a child index is always greater than the index of its parent.
type Tree struct {
	nodes []Node
}

//NewTree creates a tree holding a single unfilled root slot.
func NewTree() *Tree {
	return &Tree{nodes: make([]Node, 1)}
}

//Append reserves a new unfilled slot and returns its index.
func (tree *Tree) Append() int {
	tree.nodes = append(tree.nodes, nil)
	return len(tree.nodes) - 1
}

//Set fills the slot at ind.
func (tree *Tree) Set(ind int, node Node) {
	tree.nodes[ind] = node
}

//At returns the node stored at ind.
func (tree *Tree) At(ind int) Node {
	return tree.nodes[ind]
}

//Len returns the number of slots in the tree.
func (tree *Tree) Len() int {
	return len(tree.nodes)
}

//NumLeaves counts leaf nodes.
func (tree *Tree) NumLeaves() int {
	leaves := 0
	for _, node := range tree.nodes {
		if _, ok := node.(Leaf); ok {
			leaves++
		}
	}
	return leaves
}

//Depth returns the number of edges on the longest root-to-leaf path.
func (tree *Tree) Depth() int {
	return tree.depth(0)
}

func (tree *Tree) depth(ind int) int {
	node, ok := tree.nodes[ind].(Internal)
	if !ok {
		return 0
	}
	left, right := tree.depth(node.Left), tree.depth(node.Right)
	if left > right {
		return left + 1
	}
	return right + 1
}

//Validate checks that every slot is filled and that children are addressed forward, which
//guarantees that traversal from the root terminates.
func (tree *Tree) Validate() error {
	if len(tree.nodes) == 0 {
		return errors.Wrap(ErrInvalidInput, "tree has no root")
	}
	for ind, node := range tree.nodes {
		switch node := node.(type) {
		case Leaf:
		case Internal:
			if node.Feature < 0 {
				return errors.Wrapf(ErrInvalidInput, "node %d: negative feature %d", ind, node.Feature)
			}
			for _, child := range []int{node.Left, node.Right} {
				if child <= ind || child >= len(tree.nodes) {
					return errors.Wrapf(ErrInvalidInput, "node %d: child index %d out of range", ind, child)
				}
			}
			if node.Left == node.Right {
				return errors.Wrapf(ErrInvalidInput, "node %d: both children at %d", ind, node.Left)
			}
		default:
			return errors.Wrapf(ErrInvalidInput, "node %d is not filled", ind)
		}
	}
	return nil
}

//Predict follows the splits from the root down to a leaf and returns the leaf value.
func (tree *Tree) Predict(record []float64) (float64, error) {
	return tree.traverse(record, 0)
}

func (tree *Tree) traverse(record []float64, ind int) (float64, error) {
	switch node := tree.nodes[ind].(type) {
	case Leaf:
		return node.Value, nil
	case Internal:
		if node.Feature >= len(record) {
			return 0, errors.Wrapf(ErrFeatureIndex, "feature %d, record length %d", node.Feature, len(record))
		}
		if record[node.Feature] <= node.Threshold {
			return tree.traverse(record, node.Left)
		}
		return tree.traverse(record, node.Right)
	default:
		return 0, errors.Wrapf(ErrInvalidInput, "node %d is not filled", ind)
	}
}

type nodeRecord struct {
	Kind            string   `json:"kind"`
	Value           *float64 `json:"value,omitempty"`
	Feature         *int     `json:"feature,omitempty"`
	Threshold       *float64 `json:"threshold,omitempty"`
	Left            *int     `json:"left,omitempty"`
	Right           *int     `json:"right,omitempty"`
	NumberOfObjects int      `json:"number_of_objects"`
}

const (
	kindLeaf     = "leaf"
	kindInternal = "internal"
)

//MarshalJSON stores the tree as an array of tagged node records.
func (tree *Tree) MarshalJSON() ([]byte, error) {
	records := make([]nodeRecord, len(tree.nodes))
	for ind, node := range tree.nodes {
		switch node := node.(type) {
		case Leaf:
			value := node.Value
			records[ind] = nodeRecord{Kind: kindLeaf, Value: &value, NumberOfObjects: node.NumberOfObjects}
		case Internal:
			feature, threshold, left, right := node.Feature, node.Threshold, node.Left, node.Right
			records[ind] = nodeRecord{
				Kind:            kindInternal,
				Feature:         &feature,
				Threshold:       &threshold,
				Left:            &left,
				Right:           &right,
				NumberOfObjects: node.NumberOfObjects,
			}
		default:
			return nil, errors.Wrapf(ErrInvalidInput, "node %d is not filled", ind)
		}
	}
	return json.Marshal(records)
}

//UnmarshalJSON restores a tree written by MarshalJSON and validates it.
func (tree *Tree) UnmarshalJSON(data []byte) error {
	var records []nodeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	nodes := make([]Node, len(records))
	for ind, record := range records {
		switch record.Kind {
		case kindLeaf:
			if record.Value == nil {
				return errors.Wrapf(ErrInvalidInput, "leaf %d has no value", ind)
			}
			nodes[ind] = Leaf{Value: *record.Value, NumberOfObjects: record.NumberOfObjects}
		case kindInternal:
			if record.Feature == nil || record.Threshold == nil || record.Left == nil || record.Right == nil {
				return errors.Wrapf(ErrInvalidInput, "internal node %d is incomplete", ind)
			}
			nodes[ind] = Internal{
				Feature:         *record.Feature,
				Threshold:       *record.Threshold,
				Left:            *record.Left,
				Right:           *record.Right,
				NumberOfObjects: record.NumberOfObjects,
			}
		default:
			return errors.Wrapf(ErrInvalidInput, "node %d has unknown kind %q", ind, record.Kind)
		}
	}

	restored := Tree{nodes: nodes}
	if err := restored.Validate(); err != nil {
		return err
	}
	*tree = restored
	return nil
}

func recurrentDraw(g *cgraph.Graph, tree *Tree, nodeNumber int, parentNode *cgraph.Node) error {
	currentNode, err := g.CreateNode(fmt.Sprint(nodeNumber))
	if err != nil {
		return err
	}

	if parentNode != nil {
		if _, err := g.CreateEdge("", parentNode, currentNode); err != nil {
			return err
		}
	}

	node := tree.nodes[nodeNumber]
	currentNode.Set("label", node.GraphDescription())
	if internal, ok := node.(Internal); ok {
		if err := recurrentDraw(g, tree, internal.Left, currentNode); err != nil {
			return err
		}
		return recurrentDraw(g, tree, internal.Right, currentNode)
	}
	currentNode.Set("shape", "box")
	return nil
}

//DrawGraph builds a graphviz graph of the tree. The caller closes both returned objects.
func (tree *Tree) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	if err := tree.Validate(); err != nil {
		return nil, nil, err
	}

	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, err
	}

	if err := recurrentDraw(graph, tree, 0, nil); err != nil {
		_ = graph.Close()
		_ = graphViz.Close()
		return nil, nil, err
	}

	return graphViz, graph, nil
}
