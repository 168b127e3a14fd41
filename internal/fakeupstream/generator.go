package fakeupstream

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
)

var leagues = []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond"}

// Record is one player as the real endpoint sends it. Fields are untyped so
// sparse records can omit values or carry numbers as strings.
type Record map[string]any

// Generate returns n players for season. The output depends only on seed,
// season and n.
func Generate(seed uint64, season string, n int, sparse bool) []Record {
	h := fnv.New64a()
	_, _ = h.Write([]byte(season))
	rng := rand.New(rand.NewPCG(seed, h.Sum64()))

	out := make([]Record, n)
	for i := range out {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(season+"/"+strconv.Itoa(i)))
		maps := 5 + rng.IntN(60)
		wins := rng.IntN(maps + 1)
		pct := math.Round(float64(wins)/float64(maps)*1000) / 10

		r := Record{
			"gamer_name":     "player-" + id.String()[:8],
			"league":         leagues[rng.IntN(len(leagues))],
			"maps":           maps,
			"wins":           wins,
			"losses":         maps - wins,
			"win_percentage": pct,
		}
		if sparse {
			sparsify(rng, r)
		}
		out[i] = r
	}
	return out
}

// sparsify mimics a loosely typed upstream: some values go missing, some
// numbers arrive as strings.
func sparsify(rng *rand.Rand, r Record) {
	switch rng.IntN(6) {
	case 0:
		delete(r, "win_percentage")
	case 1:
		delete(r, "league")
	case 2:
		r["win_percentage"] = strconv.FormatFloat(r["win_percentage"].(float64), 'f', -1, 64)
	case 3:
		r["maps"] = strconv.Itoa(r["maps"].(int))
	}
}
