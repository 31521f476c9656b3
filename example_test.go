package canopy_test

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/nodes"
	"github.com/aretw0/canopy/pkg/support"
)

// Example builds a small tree by hand and ticks it once, without starting
// the background loop.
func Example() {
	sup := support.New()
	if err := nodes.Register(sup); err != nil {
		panic(err)
	}
	rt := canopy.New(sup)

	mk := func(kind string) domain.NodeID {
		id := domain.NewNodeID()
		n, err := sup.CreateNode(kind)
		if err != nil {
			panic(err)
		}
		if err := rt.Tree().AddNode(id, n); err != nil {
			panic(err)
		}
		return id
	}

	root := mk("selector")
	first := mk("always_failure")
	second := mk("always_success")
	if err := rt.Tree().SetChildren(root, []domain.NodeID{first, second}); err != nil {
		panic(err)
	}

	status, err := rt.Tree().Execute(context.Background(), root)
	if err != nil {
		panic(err)
	}
	fmt.Println(status)
	// Output: success
}
