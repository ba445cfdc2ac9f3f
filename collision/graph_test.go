package collision

import (
	"testing"

	"go.viam.com/test"
)

func TestGraphFindsCollisions(t *testing.T) {
	g, err := NewGraph([]string{"link0", "link1", "link2"}, func(a, b string) (bool, error) {
		return (a == "link0" && b == "link2") || (a == "link2" && b == "link0"), nil
	})
	test.That(t, err, test.ShouldBeNil)

	collisions, err := g.Collisions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(collisions), test.ShouldEqual, 1)
	test.That(t, collisions[0], test.ShouldResemble, Pair{A: "link0", B: "link2"})
}

func TestGraphSpecificationExcludesPair(t *testing.T) {
	g, err := NewGraph([]string{"link0", "link1"}, func(a, b string) (bool, error) {
		return true, nil
	})
	test.That(t, err, test.ShouldBeNil)
	g.AddSpecification("link1", "link0") // order-insensitive

	collisions, err := g.Collisions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(collisions), test.ShouldEqual, 0)
	test.That(t, g.Specified("link0", "link1"), test.ShouldBeTrue)
}

func TestNewGraphRejectsDuplicateEntities(t *testing.T) {
	_, err := NewGraph([]string{"link0", "link0"}, func(a, b string) (bool, error) { return false, nil })
	test.That(t, err, test.ShouldNotBeNil)
}
