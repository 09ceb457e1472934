package pipeline

import (
	"math/rand/v2"

	"github.com/agentstation/atlas/pkg/catalogs"
)

// Prompt is a suggested query shown on the empty search screen.
type Prompt struct {
	ID    string        `json:"id" yaml:"id"`
	Label string        `json:"label" yaml:"label"`
	Kind  catalogs.Kind `json:"kind" yaml:"kind"`
	Icon  string        `json:"icon" yaml:"icon"`
}

// Icon returns the icon name for a record kind.
func Icon(kind catalogs.Kind) string {
	switch kind {
	case catalogs.KindReport:
		return "file"
	case catalogs.KindProduct:
		return "box"
	case catalogs.KindDataSet:
		return "database"
	default:
		return "arrow-right"
	}
}

// Sample returns up to n records chosen uniformly at random without
// replacement. rng may be nil to use the global source.
func Sample(records []catalogs.Record, n int, rng *rand.Rand) []catalogs.Record {
	shuffled := append([]catalogs.Record(nil), records...)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng != nil {
		rng.Shuffle(len(shuffled), swap)
	} else {
		rand.Shuffle(len(shuffled), swap)
	}
	if n >= 0 && n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// Prompts returns up to n prompt suggestions sampled from records.
func Prompts(records []catalogs.Record, n int, rng *rand.Rand) []Prompt {
	sample := Sample(records, n, rng)
	out := make([]Prompt, 0, len(sample))
	for _, r := range sample {
		if r.Title == "" {
			continue
		}
		out = append(out, Prompt{ID: r.ID, Label: r.Title, Kind: r.Kind, Icon: Icon(r.Kind)})
	}
	return out
}
