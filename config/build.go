package config

import (
	"go.viam.com/planarik/kinematics"
	"go.viam.com/planarik/logging"
	"go.viam.com/planarik/motionplan/ik"
)

// BuildChain builds the configured chain, reading the chain file if one is named.
func (cfg *Config) BuildChain() (*kinematics.Chain, error) {
	if cfg.Chain != nil {
		return kinematics.NewChainFromConfig(cfg.Chain)
	}
	return kinematics.ParseChainJSONFile(cfg.chainFilePath())
}

// BuildObjective binds an objective to chain and applies the configured overrides.
func (cfg *Config) BuildObjective(chain *kinematics.Chain) (*ik.LinkObjective, error) {
	obj, err := ik.NewLinkObjective(chain)
	if err != nil {
		return nil, err
	}
	oc := cfg.Objective
	if oc.Target != nil {
		obj.SetTarget(oc.Target.X, oc.Target.Y)
	}
	if oc.TargetWeight != nil || oc.RegularizationWeight != nil {
		wTarget, wReg := obj.Weights()
		if oc.TargetWeight != nil {
			wTarget = *oc.TargetWeight
		}
		if oc.RegularizationWeight != nil {
			wReg = *oc.RegularizationWeight
		}
		if err := obj.SetWeights(wTarget, wReg); err != nil {
			return nil, err
		}
	}
	if oc.RestPose != nil {
		if err := obj.SetRestPose(oc.RestPose); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// BuildSolver builds the combined solver from the configured descent and Newton optimizers.
func (cfg *Config) BuildSolver(logger logging.Logger) (*ik.CombinedIK, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("planarik")
	}
	descent, err := cfg.buildDescent(logger)
	if err != nil {
		return nil, err
	}
	newtonCfg, err := cfg.SolverConfig(Newton)
	if err != nil {
		return nil, err
	}
	newton, err := ik.NewNewtonFromConfig(logger.Sublogger(Newton), newtonCfg)
	if err != nil {
		return nil, err
	}
	return ik.CreateCombinedIKSolver(logger, descent, newton), nil
}

func (cfg *Config) buildDescent(logger logging.Logger) (ik.Optimizer, error) {
	name := cfg.Descent
	if name == "" {
		name = GradientDescent
	}
	solverCfg, err := cfg.SolverConfig(name)
	if err != nil {
		return nil, err
	}
	if name == Hybrid {
		hybrid, err := ik.NewHybridFromConfig(logger.Sublogger(name), solverCfg)
		if err != nil {
			return nil, err
		}
		return hybrid, nil
	}
	gd, err := ik.NewGradientDescentFromConfig(logger.Sublogger(name), solverCfg)
	if err != nil {
		return nil, err
	}
	return gd, nil
}
