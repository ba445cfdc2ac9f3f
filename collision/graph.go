// Package collision provides the pairwise collision bookkeeping the IK
// solver shell's end-effector guard and a Robot implementation's
// self-collision check build on: a graph of named entities, a caller-supplied
// pairwise checker, and a set of permanently-ignored pairs ("collision
// specifications"), mirroring the teacher's collisionGraph/
// addCollisionSpecification pattern.
package collision

import "github.com/pkg/errors"

// Pair identifies two colliding entities, in the order they were registered.
type Pair struct {
	A, B string
}

// PairChecker reports whether two named entities are in collision. It is an
// external collaborator -- the actual geometry/physics check is never
// implemented here.
type PairChecker func(a, b string) (bool, error)

// Graph evaluates every unique pair of a fixed entity set against a
// PairChecker, skipping pairs a specification has permanently excluded.
type Graph struct {
	entities       []string
	checker        PairChecker
	specifications map[Pair]bool
}

// NewGraph builds a collision graph over entities. entities must contain no
// duplicates.
func NewGraph(entities []string, checker PairChecker) (*Graph, error) {
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if seen[e] {
			return nil, errors.Errorf("duplicate entity %q in collision graph", e)
		}
		seen[e] = true
	}
	return &Graph{
		entities:       append([]string(nil), entities...),
		checker:        checker,
		specifications: make(map[Pair]bool),
	}, nil
}

// AddSpecification permanently excludes the (a, b) pair from Collisions,
// regardless of order.
func (g *Graph) AddSpecification(a, b string) {
	g.specifications[normalize(a, b)] = true
}

// Specified reports whether (a, b) has been excluded by a specification.
func (g *Graph) Specified(a, b string) bool {
	return g.specifications[normalize(a, b)]
}

// Collisions evaluates every non-specified pair and returns the colliding
// ones. It stops and returns the first checker error encountered.
func (g *Graph) Collisions() ([]Pair, error) {
	var collisions []Pair
	for i := 0; i < len(g.entities); i++ {
		for j := i + 1; j < len(g.entities); j++ {
			a, b := g.entities[i], g.entities[j]
			if g.Specified(a, b) {
				continue
			}
			collides, err := g.checker(a, b)
			if err != nil {
				return nil, err
			}
			if collides {
				collisions = append(collisions, Pair{A: a, B: b})
			}
		}
	}
	return collisions, nil
}

func normalize(a, b string) Pair {
	if a <= b {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}
