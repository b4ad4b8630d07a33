package proto

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// Golden fixtures pin the exact JSON wire form. Regenerate with
// go test ./proto -update after a deliberate format change.
func TestGoldenJSON(t *testing.T) {
	c := StringPayload{}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	requests := []namedTrans{
		{"req_lookup_single", Sync(Lookup(Single(plainTask("hello world"))))},
		{"req_lookup_batch", Async(Lookup(Many([]LookupTask[string]{
			plainTask("alpha"),
			insertTask("beta", "payload-b"),
			thresholdTask("gamma", "payload-c"),
		})))},
	}

	for _, tt := range requests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := tt.trans.EncodeTree(c).MarshalJSON()
			require.NoError(t, err)
			g.Assert(t, tt.name, rendered)
		})
	}

	replies := []namedRep{
		{"rep_result_best", Result(Single(Best(sampleMatch())))},
		{"rep_result_mixed", Result(Many([]LookupResult[string]{
			EmptySet[string](),
			Best(sampleMatch()),
			Neighbours(Many([]Match[string]{{ClusterID: 9, Similarity: 0.125, UserData: "n"}})),
			LookupError[string]("boom"),
		}))},
	}

	for _, tt := range replies {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := tt.rep.EncodeTree(c).MarshalJSON()
			require.NoError(t, err)
			g.Assert(t, tt.name, rendered)
		})
	}
}
