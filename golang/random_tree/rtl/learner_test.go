package rtl

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//generateNoisyData returns rows with distinct feature values, so every median split separates them.
func generateNoisyData(rows, cols int, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	features := mat.NewDense(rows, cols, nil)
	labels := make([]float64, rows)
	for p := 0; p < rows; p++ {
		s := 0.0
		for q := 0; q < cols; q++ {
			v := rng.Float64()*2 - 1
			features.Set(p, q, v)
			s += float64(q+1) * v
		}
		labels[p] = math.Sin(3*s) + 0.1*rng.NormFloat64()
	}
	return features, labels
}

func TestInSampleExactness(t *testing.T) {
	features := mat.NewDense(3, 2, []float64{
		4, 2,
		6, 4,
		7, 7,
	})
	labels := []float64{1, 2, 3}

	for seed := int64(1); seed <= 10; seed++ {
		learner := NewRTLearner(Options{LeafSize: 1, Seed: seed})
		require.NoError(t, learner.AddEvidence(features, labels))

		assert.Equal(t, 3, learner.Tree().NumLeaves())

		prediction, err := learner.Query(features)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, prediction)
	}
}

func TestIdenticalRowsShareMedianLeaf(t *testing.T) {
	features := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 1,
		5, 5,
	})
	labels := []float64{2, 4, 10}

	learner := NewRTLearner(Options{Seed: 3})
	require.NoError(t, learner.AddEvidence(features, labels))

	prediction, err := learner.Query(features)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 10}, prediction)
}

func TestSingleRow(t *testing.T) {
	learner := NewRTLearner(Options{Seed: 1})
	require.NoError(t, learner.AddEvidence(mat.NewDense(1, 2, []float64{1, 1}), []float64{5}))

	tree := learner.Tree()
	require.Equal(t, 1, tree.Len())
	assert.Equal(t, Leaf{Value: 5, NumberOfObjects: 1}, tree.At(0))

	prediction, err := learner.Query(mat.NewDense(3, 2, []float64{
		0, 0,
		-100, 3,
		1e9, 1e9,
	}))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5}, prediction)
}

func TestTrainRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		features *mat.Dense
		labels   []float64
	}{
		{name: "no features", features: nil, labels: nil},
		{name: "row mismatch", features: mat.NewDense(3, 2, nil), labels: []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			learner := NewRTLearner(Options{Seed: 1})
			err := learner.AddEvidence(tt.features, tt.labels)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, learner.Tree())
		})
	}

	learner := NewRTLearner(Options{Seed: 1})
	assert.ErrorIs(t, learner.Train(Dataset{}), ErrInvalidInput)
}

func TestFailedTrainingKeepsPreviousTree(t *testing.T) {
	features, labels := generateNoisyData(20, 3, 1)
	learner := NewRTLearner(Options{Seed: 1})
	require.NoError(t, learner.AddEvidence(features, labels))
	tree := learner.Tree()

	require.Error(t, learner.AddEvidence(features, labels[:10]))
	assert.Same(t, tree, learner.Tree())
}

func TestQueryErrors(t *testing.T) {
	learner := NewRTLearner(Options{Seed: 1})
	_, err := learner.Query(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, ErrNotTrained)
	_, err = learner.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotTrained)

	features, labels := generateNoisyData(30, 3, 2)
	require.NoError(t, learner.AddEvidence(features, labels))

	_, err = learner.Predict([]float64{})
	assert.ErrorIs(t, err, ErrFeatureIndex)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = learner.Query(mat.NewDense(2, 1, []float64{0.1, 0.2}))
	// a single-column record can only be routed when every split on its path uses feature 0
	if err != nil {
		assert.ErrorIs(t, err, ErrFeatureIndex)
	}
}

//routeCounts counts the training rows that reach every node of the tree.
func routeCounts(t *testing.T, tree *Tree, features *mat.Dense) map[int]int {
	t.Helper()
	counts := make(map[int]int)
	h, _ := features.Dims()
	for p := 0; p < h; p++ {
		record := mat.Row(nil, p, features)
		ind := 0
		for {
			counts[ind]++
			node, ok := tree.At(ind).(Internal)
			if !ok {
				break
			}
			if record[node.Feature] <= node.Threshold {
				ind = node.Left
			} else {
				ind = node.Right
			}
		}
	}
	return counts
}

func TestTreeStructure(t *testing.T) {
	for _, leafSize := range []int{1, 2, 3, 5, 8} {
		features, labels := generateNoisyData(64, 4, int64(leafSize))
		learner := NewRTLearner(Options{LeafSize: leafSize, Seed: 11})
		require.NoError(t, learner.AddEvidence(features, labels))

		tree := learner.Tree()
		require.NoError(t, tree.Validate())
		assert.LessOrEqual(t, tree.Depth(), 64)
		assert.Equal(t, tree.Len(), 2*tree.NumLeaves()-1)

		counts := routeCounts(t, tree, features)
		assert.Equal(t, 64, counts[0])
		for ind := 0; ind < tree.Len(); ind++ {
			switch node := tree.At(ind).(type) {
			case Leaf:
				assert.Equal(t, node.NumberOfObjects, counts[ind])
				// distinct feature values make every median split separate the rows
				assert.LessOrEqual(t, counts[ind], leafSize)
			case Internal:
				assert.Equal(t, node.NumberOfObjects, counts[ind])
				assert.Greater(t, counts[ind], leafSize)
				assert.Equal(t, counts[ind], counts[node.Left]+counts[node.Right])
			}
		}
	}
}

func TestLeafHoldsMedianOfItsLabels(t *testing.T) {
	features, labels := generateNoisyData(50, 2, 5)
	learner := NewRTLearner(Options{LeafSize: 6, Seed: 5})
	require.NoError(t, learner.AddEvidence(features, labels))
	tree := learner.Tree()

	byLeaf := make(map[int][]float64)
	for p := range labels {
		record := mat.Row(nil, p, features)
		ind := 0
		for {
			node, ok := tree.At(ind).(Internal)
			if !ok {
				break
			}
			if record[node.Feature] <= node.Threshold {
				ind = node.Left
			} else {
				ind = node.Right
			}
		}
		byLeaf[ind] = append(byLeaf[ind], labels[p])
	}

	for ind, leafLabels := range byLeaf {
		assert.Equal(t, Median(leafLabels), tree.At(ind).(Leaf).Value)
	}
}

func TestSameSeedSameTree(t *testing.T) {
	features, labels := generateNoisyData(40, 5, 9)

	dump := func(seed int64) string {
		learner := NewRTLearner(Options{LeafSize: 2, Seed: seed})
		require.NoError(t, learner.AddEvidence(features, labels))
		data, err := json.Marshal(learner.Tree())
		require.NoError(t, err)
		return string(data)
	}

	assert.Equal(t, dump(42), dump(42))
}

func TestTrainingDoesNotMutateInput(t *testing.T) {
	features, labels := generateNoisyData(30, 3, 4)
	featuresCopy := mat.DenseCopyOf(features)
	labelsCopy := append([]float64(nil), labels...)

	learner := NewRTLearner(Options{Seed: 4})
	require.NoError(t, learner.AddEvidence(features, labels))

	assert.True(t, mat.Equal(featuresCopy, features))
	assert.Equal(t, labelsCopy, labels)
}

func TestParallelQueryMatchesSequential(t *testing.T) {
	features, labels := generateNoisyData(200, 3, 6)
	sequential := NewRTLearner(Options{LeafSize: 4, Seed: 6})
	require.NoError(t, sequential.AddEvidence(features, labels))

	parallel := NewRTLearner(Options{LeafSize: 4, Seed: 6, Threads: 8})
	require.NoError(t, parallel.AddEvidence(features, labels))

	test, _ := generateNoisyData(100, 3, 7)
	want, err := sequential.Query(test)
	require.NoError(t, err)
	got, err := parallel.Query(test)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVerboseTraining(t *testing.T) {
	features, labels := generateNoisyData(10, 2, 8)
	learner := NewRTLearner(Options{Verbose: true, Seed: 8})
	require.NoError(t, learner.AddEvidence(features, labels))
	assert.Equal(t, 10, learner.Tree().NumLeaves())
}

func TestDefaultOptions(t *testing.T) {
	learner := NewRTLearner(Options{})
	assert.Equal(t, 1, learner.LeafSize)
	assert.Equal(t, 1, learner.Threads)
	assert.False(t, learner.Verbose)
}
