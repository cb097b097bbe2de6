// Package cli contains the planarik command line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/planarik/logging"
)

const (
	debugFlag   = "debug"
	configFlag  = "config"
	linksFlag   = "links"
	targetFlag  = "target"
	stepsFlag   = "steps"
	seedFlag    = "seed"
	anglesFlag  = "angles"
	degreesFlag = "degrees"
)

func chainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load the solver configuration from `FILE`",
		},
		&cli.IntFlag{
			Name:  linksFlag,
			Value: 4,
			Usage: "number of unit links when no configuration is given",
		},
		&cli.BoolFlag{
			Name:  degreesFlag,
			Usage: "read and print joint angles in degrees",
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "planarik",
		Usage:           "solve inverse kinematics for planar serial chains",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		// errors are returned from Run, main decides how to exit
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "move the end effector toward a target",
				UsageText: "planarik solve [--config FILE | --links N] --target x,y [--steps N] [--seed a,b,...]",
				Flags: append([]cli.Flag{
					&cli.Float64SliceFlag{
						Name:  targetFlag,
						Usage: "target position as `X,Y`",
					},
					&cli.IntFlag{
						Name:  stepsFlag,
						Value: 1,
						Usage: "number of solves, each seeded with the previous result",
					},
					&cli.Float64SliceFlag{
						Name:  seedFlag,
						Usage: "initial joint angles, all zero when unset",
					},
				}, chainFlags()...),
				Action: SolveAction,
			},
			{
				Name:      "inspect",
				Usage:     "print the kinematics and objective derivatives at a configuration",
				UsageText: "planarik inspect [--config FILE | --links N] [--angles a,b,...]",
				Flags: append([]cli.Flag{
					&cli.Float64SliceFlag{
						Name:  anglesFlag,
						Usage: "joint angles, all zero when unset",
					},
					&cli.Float64SliceFlag{
						Name:  targetFlag,
						Usage: "target position as `X,Y`",
					},
				}, chainFlags()...),
				Action: InspectAction,
			},
		},
	}
}

func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(debugFlag) {
		return logging.NewDebugLogger("planarik")
	}
	logger := logging.NewLogger("planarik")
	logger.SetLevel(logging.WARN)
	return logger
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}
