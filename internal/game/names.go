package game

import (
	"fmt"
	"math/rand/v2"
)

var planetNames = []string{
	"Vesta", "Pallas", "Ceres", "Hygiea", "Juno",
	"Eunomia", "Psyche", "Thule", "Kalliope", "Davida",
	"Interamnia", "Europa", "Sylvia", "Cybele", "Hektor",
	"Camilla", "Iris", "Flora", "Metis", "Astraea",
	"Nysa", "Lutetia", "Ida", "Mathilde", "Gaspra",
}

// namer hands out planet names in a shuffled order. Once the pool is used up
// names repeat with a numeric suffix.
type namer struct {
	names []string
	next  int
}

func newNamer(rng *rand.Rand) *namer {
	names := make([]string, len(planetNames))
	copy(names, planetNames)
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	return &namer{names: names}
}

func (n *namer) Next() string {
	name := n.names[n.next%len(n.names)]
	if round := n.next / len(n.names); round > 0 {
		name = fmt.Sprintf("%s-%d", name, round+1)
	}
	n.next++
	return name
}
