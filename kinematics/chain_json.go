package kinematics

import (
	"go.viam.com/planarik/referenceframe"
)

// NewChainFromConfig builds a chain from its JSON config.
func NewChainFromConfig(cfg *referenceframe.ChainConfigJSON) (*Chain, error) {
	links, endEffector, err := cfg.ParseConfig()
	if err != nil {
		return nil, err
	}
	return NewChain(links, WithName(cfg.Name), WithEndEffector(endEffector))
}

// ParseChainJSONFile reads a chain JSON file and builds the chain it describes.
func ParseChainJSONFile(filename string) (*Chain, error) {
	cfg, err := referenceframe.ParseChainJSONFile(filename)
	if err != nil {
		return nil, err
	}
	return NewChainFromConfig(cfg)
}
