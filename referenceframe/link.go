// Package referenceframe describes the fixed geometry of a planar serial chain.
package referenceframe

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// World is the reserved name of the frame the first link attaches to.
const World = "world"

// Link is one joint of a planar serial chain. Translation is the fixed offset from the parent's frame to
// this joint's rotation axis, applied before the joint rotates. The joint angle itself is not stored here;
// it is supplied with every forward kinematics query.
type Link struct {
	ID          string
	Translation r2.Point
}

// NewLink returns a link with the given id and offset.
func NewLink(id string, x, y float64) Link {
	return Link{ID: id, Translation: r2.Point{X: x, Y: y}}
}

// LinksFromOffsets names a list of offsets link0..linkN-1 in root to tip order.
func LinksFromOffsets(offsets []r2.Point) []Link {
	links := make([]Link, len(offsets))
	for i, o := range offsets {
		links[i] = Link{ID: fmt.Sprintf("link%d", i), Translation: o}
	}
	return links
}

// UniformLinks returns n links in the classic display layout: the first joint sits at the world origin and
// every following joint sits length units along the parent's x axis.
func UniformLinks(n int, length float64) []Link {
	offsets := make([]r2.Point, n)
	for i := 1; i < n; i++ {
		offsets[i] = r2.Point{X: length}
	}
	return LinksFromOffsets(offsets)
}

// Offsets unwraps the translations of the given links.
func Offsets(links []Link) []r2.Point {
	offsets := make([]r2.Point, len(links))
	for i, l := range links {
		offsets[i] = l.Translation
	}
	return offsets
}
