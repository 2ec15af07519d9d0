package fold

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fncnt/rafft/config"
)

const trnaLike = "GGGUUUGCGGUGUAAGUGCAGCCCGUCUUACACCGUGCGGCACAGGCACUAGUACUGAUGUCGUAUACAGGGCUUUUGACAU"

func TestEngine_Predict_hairpin(t *testing.T) {
	engine := New(config.Default())

	res, err := engine.Predict(context.Background(), "GGGGAAAACCCC")
	require.NoError(t, err)
	require.Len(t, res.Predictions, 1)

	top := res.Predictions[0]
	assert.Equal(t, "((((....))))", top.Structure)
	assert.Less(t, top.Energy, 0.0)
}

func TestEngine_Predict_noComplementaryBases(t *testing.T) {
	engine := New(config.Default())

	res, err := engine.Predict(context.Background(), "AAAAAAAA")
	require.NoError(t, err)
	require.Len(t, res.Predictions, 1)

	assert.Equal(t, "........", res.Predictions[0].Structure)
	assert.Equal(t, 0.0, res.Predictions[0].Energy)
}

func TestEngine_Predict_validation(t *testing.T) {
	tests := []struct {
		name    string
		seq     string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			"invalid symbol",
			"GGXXCC",
			nil,
			ErrInvalidSymbol,
		},
		{
			"empty sequence",
			"",
			nil,
			ErrEmptySequence,
		},
		{
			"zero beam width",
			"GGGGAAAACCCC",
			func(c *config.Config) { c.Search.BeamWidth = 0 },
			ErrConfiguration,
		},
		{
			"zero top-k",
			"GGGGAAAACCCC",
			func(c *config.Config) { c.Search.TopK = 0 },
			ErrConfiguration,
		},
		{
			"loop size beyond sequence",
			"GGGGAAAACCCC",
			func(c *config.Config) { c.Search.MinLoopSize = 12 },
			ErrConfiguration,
		},
		{
			"negative pair weight",
			"GGGGAAAACCCC",
			func(c *config.Config) { c.Pairing.GU = -1 },
			ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.Default()
			if tt.mutate != nil {
				tt.mutate(conf)
			}

			res, err := New(conf).Predict(context.Background(), tt.seq)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEngine_Predict_nonCrossing(t *testing.T) {
	conf := config.Default()
	conf.Search.TopK = 10

	engine := New(conf)
	for _, seq := range []string{"GGGGAAAACCCC", "GGGAAACCCAAAGGGUUUCCC", trnaLike} {
		res, err := engine.Predict(context.Background(), seq)
		require.NoError(t, err, seq)
		require.NotEmpty(t, res.Predictions, seq)

		for _, p := range res.Predictions {
			pairs, err := ParseDotBracket(p.Structure)
			require.NoError(t, err, p.Structure)
			assert.True(t, pairs.wellFormed(), "structure %q is crossing or malformed", p.Structure)
		}
	}
}

func TestEngine_Predict_idempotent(t *testing.T) {
	predict := func(workers int) *Result {
		conf := config.Default()
		conf.Search.TopK = 5
		conf.Search.Workers = workers

		res, err := New(conf).Predict(context.Background(), trnaLike)
		require.NoError(t, err)
		return res
	}

	sequential := predict(1)
	require.NotEmpty(t, sequential.Predictions)

	// identical results regardless of scheduling, repeatedly
	for run := 0; run < 3; run++ {
		assert.Equal(t, sequential.Predictions, predict(1).Predictions)
		assert.Equal(t, sequential.Predictions, predict(8).Predictions)
	}
}

func TestEngine_Predict_beamWidthOne(t *testing.T) {
	conf := config.Default()
	conf.Search.BeamWidth = 1

	engine := New(conf)
	engine.KeepGraph = true

	res, err := engine.Predict(context.Background(), trnaLike)
	require.NoError(t, err)
	require.NotNil(t, res.Graph)

	// a unit beam forces one deterministic path from the root to a
	// single leaf: no branching anywhere in the trajectory graph
	nodes := res.Graph.Nodes()
	edges := res.Graph.Edges()
	assert.Equal(t, len(nodes)-1, len(edges))
	for i, e := range edges {
		assert.Equal(t, i, e.Parent)
		assert.Equal(t, i+1, e.Child)
	}

	leaf := nodes[len(nodes)-1]
	assert.Equal(t, len(nodes), len(res.Graph.Path(leaf.ID)))
}

func TestEngine_Predict_maxStructures(t *testing.T) {
	conf := config.Default()
	conf.Search.MaxStructures = 10
	conf.Search.TopK = 3

	engine := New(conf)
	engine.KeepGraph = true

	res, err := engine.Predict(context.Background(), trnaLike)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Graph.Len(), 10)
	assert.NotEmpty(t, res.Predictions)
}

// failingEvaluator refuses every structure
type failingEvaluator struct{}

func (failingEvaluator) Score(*Sequence, PairTable) (float64, error) {
	return 0, fmt.Errorf("%w: no parameters loaded", ErrEnergyModel)
}

func TestEngine_Predict_exhausted(t *testing.T) {
	engine := New(config.Default())
	engine.Eval = failingEvaluator{}

	res, err := engine.Predict(context.Background(), "GGGGAAAACCCC")
	require.NotNil(t, res)
	assert.ErrorIs(t, err, ErrEngineExhausted)

	// the unpaired structure is the guaranteed fallback
	require.Len(t, res.Predictions, 1)
	assert.Equal(t, "............", res.Predictions[0].Structure)
	assert.Equal(t, 0.0, res.Predictions[0].Energy)
}

func TestEngine_Predict_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(config.Default())
	res, err := engine.Predict(ctx, trnaLike)

	// a cancelled search still reports the best structures found
	require.NotNil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotEmpty(t, res.Predictions)
}

func TestEngine_Predict_trajectoryGraphInvariants(t *testing.T) {
	conf := config.Default()
	conf.Search.TopK = 5

	engine := New(conf)
	engine.KeepGraph = true

	res, err := engine.Predict(context.Background(), trnaLike)
	require.NoError(t, err)
	require.NotNil(t, res.Graph)

	nodes := res.Graph.Nodes()
	require.NotEmpty(t, nodes)
	assert.Equal(t, 0, nodes[0].Pairs.NumPairs(), "root must be fully unpaired")

	for _, e := range res.Graph.Edges() {
		parent, child := nodes[e.Parent], nodes[e.Child]
		assert.Greater(t, child.Pairs.NumPairs(), parent.Pairs.NumPairs(),
			"every step must add pairs")

		// every pair of the parent survives in the child
		for _, pr := range parent.Pairs.Pairs() {
			assert.Equal(t, pr[1], child.Pairs[pr[0]])
		}
	}
}
