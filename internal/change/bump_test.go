package change

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/relver/internal/semver"
)

func TestBump(t *testing.T) {
	tests := map[string]struct {
		records  []Record
		current  string
		expected semver.Severity
	}{
		"empty set": {
			records:  nil,
			current:  "1.2.3",
			expected: semver.None,
		},
		"single fix": {
			records:  []Record{{Kind: Fix}},
			current:  "1.2.3",
			expected: semver.PatchBump,
		},
		"feature wins over fix": {
			records:  []Record{{Kind: Fix}, {Kind: Feature}},
			current:  "1.2.3",
			expected: semver.MinorBump,
		},
		"breaking wins over all": {
			records:  []Record{{Kind: Fix}, {Kind: Breaking}, {Kind: Feature}},
			current:  "1.2.3",
			expected: semver.MajorBump,
		},
		"custom kind counts as patch": {
			records:  []Record{{Kind: Kind("docs")}},
			current:  "1.2.3",
			expected: semver.PatchBump,
		},
		"pre-1.0 breaking demoted to minor": {
			records:  []Record{{Kind: Breaking}},
			current:  "0.4.2",
			expected: semver.MinorBump,
		},
		"pre-1.0 feature unaffected": {
			records:  []Record{{Kind: Feature}},
			current:  "0.4.2",
			expected: semver.MinorBump,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Bump(tc.records, semver.MustParse(tc.current))
			assert.Equal(t, tc.expected, got)
		})
	}
}

// TestBumpOrderIndependence verifies the reduction is commutative: every
// permutation of a record set yields the same severity.
func TestBumpOrderIndependence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	kinds := []Kind{Breaking, Feature, Fix, Kind("docs"), Kind("perf")}
	current := semver.MustParse("1.2.3")

	properties.Property("severity identical under permutation", prop.ForAll(
		func(kindIdx []int, seed int64) bool {
			records := make([]Record, len(kindIdx))
			for i, k := range kindIdx {
				records[i] = Record{Kind: kinds[k%len(kinds)]}
			}
			want := Bump(records, current)

			shuffled := make([]Record, len(records))
			copy(shuffled, records)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			return Bump(shuffled, current) == want
		},
		gen.SliceOf(gen.IntRange(0, len(kinds)-1)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
