// Package config describes a solver setup: the chain to solve for, the objective and the optimizer
// hyperparameters.
package config

import (
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/planarik/motionplan/ik"
	"go.viam.com/planarik/referenceframe"
)

// Optimizer names accepted as keys of Config.Optimizers.
const (
	GradientDescent = "gradient_descent"
	Newton          = "newton"
	Hybrid          = "hybrid"
)

// AttributeMap is a loosely typed set of attributes decoded into a concrete config later.
type AttributeMap map[string]interface{}

// Has returns whether the given key is set.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// Config describes a complete solver setup.
type Config struct {
	ConfigFilePath string `json:"-"`

	// Exactly one of Chain and ChainFile must be set. A relative ChainFile is resolved against the
	// directory of the config file.
	Chain     *referenceframe.ChainConfigJSON `json:"chain,omitempty"`
	ChainFile string                          `json:"chain_file,omitempty"`

	Objective ObjectiveConfig `json:"objective"`

	// Descent names the optimizer used for the first stage of the combined solve, either
	// gradient_descent (the default) or hybrid.
	Descent    string                  `json:"descent,omitempty"`
	Optimizers map[string]AttributeMap `json:"optimizers,omitempty"`
}

// ObjectiveConfig overrides the objective defaults. Unset fields keep the defaults.
type ObjectiveConfig struct {
	Target               *referenceframe.PointConfig `json:"target,omitempty"`
	TargetWeight         *float64                    `json:"target_weight,omitempty"`
	RegularizationWeight *float64                    `json:"regularization_weight,omitempty"`
	RestPose             []float64                   `json:"rest_pose,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *ObjectiveConfig) Validate(path string) error {
	var err error
	if cfg.TargetWeight != nil && *cfg.TargetWeight < 0 {
		err = multierr.Append(err, errors.Wrapf(ik.ErrNegativeWeight, "%s.target_weight", path))
	}
	if cfg.RegularizationWeight != nil && *cfg.RegularizationWeight < 0 {
		err = multierr.Append(err, errors.Wrapf(ik.ErrNegativeWeight, "%s.regularization_weight", path))
	}
	return err
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (cfg *Config) Validate() error {
	var err error
	switch {
	case cfg.Chain == nil && cfg.ChainFile == "":
		err = multierr.Append(err, newFieldRequiredError("chain"))
	case cfg.Chain != nil && cfg.ChainFile != "":
		err = multierr.Append(err, errors.New(`only one of "chain" and "chain_file" may be set`))
	}

	err = multierr.Append(err, cfg.Objective.Validate("objective"))

	switch cfg.Descent {
	case "", GradientDescent, Hybrid:
	default:
		err = multierr.Append(err, errors.Errorf("descent must be %q or %q, got %q", GradientDescent, Hybrid, cfg.Descent))
	}

	names := make([]string, 0, len(cfg.Optimizers))
	for name := range cfg.Optimizers {
		names = append(names, name)
	}
	// sorted so the combined message is stable
	sort.Strings(names)
	for _, name := range names {
		solverCfg, decodeErr := cfg.SolverConfig(name)
		if decodeErr != nil {
			err = multierr.Append(err, decodeErr)
			continue
		}
		if validateErr := solverCfg.Validate(); validateErr != nil {
			err = multierr.Append(err, errors.Wrapf(validateErr, "optimizers.%s", name))
		}
	}
	return err
}

// SolverConfig decodes the attributes of the named optimizer over the default hyperparameters. An
// optimizer with no attributes gets the defaults.
func (cfg *Config) SolverConfig(name string) (ik.SolverConfig, error) {
	conf := ik.NewDefaultSolverConfig()
	switch name {
	case GradientDescent, Newton, Hybrid:
	default:
		return conf, errors.Errorf("unknown optimizer %q", name)
	}
	attrs, ok := cfg.Optimizers[name]
	if !ok {
		return conf, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &conf, ErrorUnused: true})
	if err != nil {
		return conf, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return conf, errors.Wrapf(err, "optimizers.%s", name)
	}
	return conf, nil
}

func newFieldRequiredError(field string) error {
	return errors.Errorf("%q is required", field)
}
