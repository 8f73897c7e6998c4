package rtl

import (
	"encoding/json"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/pkg/errors"
)

type learnerDump struct {
	Options Options `json:"options"`
	Tree    *Tree   `json:"tree"`
}

//Save writes the options and the trained tree of the learner as JSON.
func (learner *RTLearner) Save(fileName string) error {
	if learner.tree == nil {
		return ErrNotTrained
	}

	modelByteRepr, err := json.MarshalIndent(learnerDump{Options: learner.Options, Tree: learner.tree}, "", "  ")
	if err != nil {
		return err
	}

	return errors.Wrapf(os.WriteFile(fileName, modelByteRepr, 0o644), "write model %s", fileName)
}

//LoadLearner restores a learner written by Save.
func LoadLearner(fileName string) (*RTLearner, error) {
	source, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open model %s", fileName)
	}
	defer source.Close()

	var dump learnerDump
	if err := json.NewDecoder(source).Decode(&dump); err != nil {
		return nil, errors.Wrapf(err, "decode model %s", fileName)
	}
	if dump.Tree == nil {
		return nil, errors.Wrapf(ErrInvalidInput, "model %s has no tree", fileName)
	}

	learner := NewRTLearner(dump.Options)
	learner.tree = dump.Tree
	return learner, nil
}

var graphvizType = map[string]graphviz.Format{
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

//RenderTree draws the trained tree into fileName. figureType is one of png, svg or jpg.
func (learner *RTLearner) RenderTree(fileName, figureType string) error {
	if learner.tree == nil {
		return ErrNotTrained
	}
	format, ok := graphvizType[figureType]
	if !ok {
		return errors.Wrapf(ErrInvalidInput, "unknown figure type %q", figureType)
	}

	graphViz, graph, err := learner.tree.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()

	return graphViz.RenderFilename(graph, format, fileName)
}
