package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// PointConfig is the JSON form of a 2D point.
type PointConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point converts the config into an r2.Point.
func (pc PointConfig) Point() r2.Point {
	return r2.Point{X: pc.X, Y: pc.Y}
}

// NewPointConfig converts an r2.Point into its JSON form.
func NewPointConfig(p r2.Point) PointConfig {
	return PointConfig{X: p.X, Y: p.Y}
}

// LinkConfig is the JSON form of a single link.
type LinkConfig struct {
	ID          string      `json:"id"`
	Parent      string      `json:"parent,omitempty"`
	Translation PointConfig `json:"translation"`
}

// ChainConfigJSON represents all supported fields in a chain JSON file.
type ChainConfigJSON struct {
	Name        string       `json:"name"`
	Links       []LinkConfig `json:"links"`
	EndEffector *PointConfig `json:"end_effector,omitempty"`
}

// NewChainConfig builds the JSON form of an already ordered chain. Each link is parented to its predecessor.
func NewChainConfig(name string, links []Link, endEffector r2.Point) *ChainConfigJSON {
	cfg := &ChainConfigJSON{Name: name}
	parent := World
	for _, l := range links {
		cfg.Links = append(cfg.Links, LinkConfig{ID: l.ID, Parent: parent, Translation: NewPointConfig(l.Translation)})
		parent = l.ID
	}
	ee := NewPointConfig(endEffector)
	cfg.EndEffector = &ee
	return cfg
}

// UnmarshalChainJSON parses the given JSON data into a chain config.
func UnmarshalChainJSON(jsonData []byte) (*ChainConfigJSON, error) {
	// empty data probably means the caller has no chain information
	if len(jsonData) == 0 {
		return nil, ErrNoChainInformation
	}
	cfg := &ChainConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg, nil
}

// ParseChainJSONFile will read a given file and then parse the contained JSON data.
func ParseChainJSONFile(filename string) (*ChainConfigJSON, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalChainJSON(jsonData)
}

// ParseConfig validates the config and returns its links in root to tip order together with the
// end effector's position in the last link's frame.
//
// Links without any parent set are taken in file order. Once any link names a parent, links without one
// attach to the world frame and the order is recovered by walking from the single end effector back to
// the world frame.
func (cfg *ChainConfigJSON) ParseConfig() ([]Link, r2.Point, error) {
	var endEffector r2.Point
	if cfg.EndEffector != nil {
		endEffector = cfg.EndEffector.Point()
	}
	if len(cfg.Links) == 0 {
		return nil, endEffector, ErrNoLinks
	}

	byID := map[string]LinkConfig{}
	anyParent := false
	for _, lc := range cfg.Links {
		if lc.ID == World {
			return nil, endEffector, NewReservedWordError("link", World)
		}
		if _, ok := byID[lc.ID]; ok {
			return nil, endEffector, NewDuplicateLinkError(lc.ID)
		}
		byID[lc.ID] = lc
		if lc.Parent != "" {
			anyParent = true
		}
	}

	if !anyParent {
		links := make([]Link, 0, len(cfg.Links))
		for _, lc := range cfg.Links {
			links = append(links, Link{ID: lc.ID, Translation: lc.Translation.Point()})
		}
		return links, endEffector, nil
	}

	ordered, err := sortLinks(byID)
	if err != nil {
		return nil, endEffector, err
	}
	return ordered, endEffector, nil
}

// sortLinks orders links from the world frame to the end effector given each link's parent.
func sortLinks(byID map[string]LinkConfig) ([]Link, error) {
	children := map[string]int{}
	for id, lc := range byID {
		parent := lc.Parent
		if parent == "" {
			parent = World
		}
		if _, ok := byID[parent]; !ok && parent != World {
			return nil, NewParentNotFoundError(id, parent)
		}
		children[parent]++
		if children[parent] > 1 {
			return nil, ErrBranchingChain
		}
	}

	// the end effector is the only link nobody points at
	var ees []string
	for id := range byID {
		if children[id] == 0 {
			ees = append(ees, id)
		}
	}
	if len(ees) != 1 {
		return nil, errors.Wrapf(ErrNeedOneEndEffector, "have %v", ees)
	}

	curr := ees[0]
	seen := map[string]bool{curr: true}
	ordered := make([]Link, 0, len(byID))
	for curr != World {
		lc := byID[curr]
		ordered = append(ordered, Link{ID: lc.ID, Translation: lc.Translation.Point()})
		parent := lc.Parent
		if parent == "" {
			parent = World
		}
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true
		curr = parent
	}
	if len(ordered) != len(byID) {
		return nil, ErrCircularReference
	}

	// After the above loop, the links are in reverse order, so we reverse the list.
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}
