package orderer

import (
	"golang.org/x/exp/slices"

	"github.com/onflow/flow-narwhal/consensus/bullshark/dag"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/model/flow/order"
)

// linearize returns the uncommitted causal history of the leader in delivery
// order: a depth-first post-order traversal in which parents come before their
// children, siblings are visited in canonical certificate order and the leader
// comes last. Ancestors below floorRound are not visited. Since floorRound only
// depends on the leader round, every replica traverses the same history.
//
// The traversal uses an explicit stack; deep uncommitted histories after a
// partition cannot exhaust the goroutine stack. Marking certificates visited
// when they are pushed is sufficient: all parents of a certificate are in the
// same round, so no certificate above a pushed one on the stack can be its
// descendant.
func linearize(d *dag.DAG, leader *flow.Certificate, floorRound uint64) []*flow.Certificate {
	type frame struct {
		cert     *flow.Certificate
		expanded bool
	}

	var ordered []*flow.Certificate
	visited := map[flow.Identifier]struct{}{leader.ID(): {}}
	stack := []frame{{cert: leader}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.expanded {
			ordered = append(ordered, top.cert)
			stack = stack[:len(stack)-1]
			continue
		}
		top.expanded = true

		if top.cert.Round() == 0 || top.cert.Round()-1 < floorRound {
			continue
		}
		parents := make([]*flow.Certificate, 0, len(top.cert.ParentIDs()))
		for _, parentID := range top.cert.ParentIDs() {
			if _, seen := visited[parentID]; seen {
				continue
			}
			if d.IsCommitted(parentID) {
				continue
			}
			parent, ok := d.Certificate(parentID)
			if !ok {
				continue
			}
			parents = append(parents, parent)
		}
		slices.SortFunc(parents, order.CertificateCanonical)

		// push in reverse so that the smallest parent is expanded first
		for i := len(parents) - 1; i >= 0; i-- {
			visited[parents[i].ID()] = struct{}{}
			stack = append(stack, frame{cert: parents[i]})
		}
	}

	return ordered
}
