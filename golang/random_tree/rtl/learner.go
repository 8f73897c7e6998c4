package rtl

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

var log = logrus.WithField("component", "rtl")

const defaultLeafSize = 1

//Options collect arguments required to construct a learner.
type Options struct {
	// Nodes with at most LeafSize training rows become leaves.
	LeafSize int `json:"leaf_size" mapstructure:"leaf_size"`

	// Verbose turns on logging of every split and leaf while training.
	Verbose bool `json:"verbose" mapstructure:"verbose"`

	// Seed of the split selector. Zero seeds from the clock.
	Seed int64 `json:"seed" mapstructure:"seed"`

	// Threads is the number of goroutines used by Query. Values below 2 query sequentially.
	Threads int `json:"threads" mapstructure:"threads"`
}

//SetDefaultValues applies default settings to unspecified fields
func (o *Options) SetDefaultValues() {
	if o.LeafSize <= 0 {
		o.LeafSize = defaultLeafSize
	}
	if o.Threads <= 0 {
		o.Threads = 1
	}
}

//RTLearner is a random tree regressor. Every split uses a feature chosen uniformly at random and
//the median of that feature as the threshold. Leaves predict the median of their labels.
type RTLearner struct {
	Options

	rng  *rand.Rand
	tree *Tree
}

//NewRTLearner creates an untrained learner.
func NewRTLearner(options Options) *RTLearner {
	options.SetDefaultValues()
	seed := options.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RTLearner{Options: options, rng: rand.New(rand.NewSource(seed))}
}

//Tree returns the trained tree or nil before training. The tree must not be modified.
func (learner *RTLearner) Tree() *Tree {
	return learner.tree
}

//AddEvidence trains the learner on features and labels.
func (learner *RTLearner) AddEvidence(features *mat.Dense, labels []float64) error {
	ds, err := NewDataset(features, labels)
	if err != nil {
		return err
	}
	return learner.Train(ds)
}

//Train builds a new tree from ds. The previous tree is replaced only when the build succeeds.
func (learner *RTLearner) Train(ds Dataset) error {
	if ds.Len() == 0 || ds.Width() == 0 {
		return errors.Wrap(ErrInvalidInput, "empty training set")
	}
	if h := Height(ds.Features); h != ds.Len() {
		return errors.Wrapf(ErrInvalidInput, "%d feature rows but %d labels", h, ds.Len())
	}
	if len(ds.RecordIds) != ds.Len() {
		ds.RecordIds = make([]int, ds.Len())
		for p := range ds.RecordIds {
			ds.RecordIds[p] = p
		}
	}

	tree := NewTree()
	learner.grow(tree, 0, ds)
	learner.tree = tree

	if learner.Verbose {
		log.WithFields(logrus.Fields{
			"rows":   ds.Len(),
			"nodes":  tree.Len(),
			"leaves": tree.NumLeaves(),
			"depth":  tree.Depth(),
		}).Info("tree is built")
	}
	return nil
}

//grow fills the slot nodeIndex from ds, recursing into freshly appended child slots.
func (learner *RTLearner) grow(tree *Tree, nodeIndex int, ds Dataset) {
	if ds.Len() <= learner.LeafSize {
		learner.setLeaf(tree, nodeIndex, ds)
		return
	}

	featureIndex, threshold := SelectSplit(ds.Features, learner.rng)
	left, right := ds.Partition(featureIndex, threshold)

	// a split that keeps every row on one side would never shrink the data
	if left.Len() == 0 || right.Len() == 0 {
		learner.setLeaf(tree, nodeIndex, ds)
		return
	}

	leftIndex := tree.Append()
	rightIndex := tree.Append()
	tree.Set(nodeIndex, Internal{
		Feature:         featureIndex,
		Threshold:       threshold,
		Left:            leftIndex,
		Right:           rightIndex,
		NumberOfObjects: ds.Len(),
	})

	if learner.Verbose {
		log.WithFields(logrus.Fields{
			"node":      nodeIndex,
			"feature":   featureIndex,
			"threshold": threshold,
			"left":      left.Len(),
			"right":     right.Len(),
		}).Info("split")
	}

	learner.grow(tree, leftIndex, left)
	learner.grow(tree, rightIndex, right)
}

func (learner *RTLearner) setLeaf(tree *Tree, nodeIndex int, ds Dataset) {
	leaf := Leaf{Value: Median(ds.Labels), NumberOfObjects: ds.Len()}
	tree.Set(nodeIndex, leaf)

	if learner.Verbose {
		log.WithFields(logrus.Fields{
			"node":  nodeIndex,
			"value": leaf.Value,
			"rows":  leaf.NumberOfObjects,
		}).Info("leaf")
	}
}

//Predict returns the prediction for a single feature vector.
func (learner *RTLearner) Predict(record []float64) (float64, error) {
	if learner.tree == nil {
		return 0, ErrNotTrained
	}
	return learner.tree.Predict(record)
}

//Query predicts every row of features. Predictions are returned in row order.
func (learner *RTLearner) Query(features mat.Matrix) ([]float64, error) {
	if learner.tree == nil {
		return nil, ErrNotTrained
	}

	h := Height(features)
	prediction := make([]float64, h)

	predictRow := func(p int) error {
		value, err := learner.tree.Predict(mat.Row(nil, p, features))
		if err != nil {
			return errors.Wrapf(err, "row %d", p)
		}
		prediction[p] = value
		return nil
	}

	if learner.Threads <= 1 {
		for p := 0; p < h; p++ {
			if err := predictRow(p); err != nil {
				return nil, err
			}
		}
		return prediction, nil
	}

	var eg errgroup.Group
	eg.SetLimit(learner.Threads)
	for p := 0; p < h; p++ {
		p := p
		eg.Go(func() error {
			return predictRow(p)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return prediction, nil
}
