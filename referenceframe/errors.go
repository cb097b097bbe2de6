package referenceframe

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoChainInformation is used when there is no chain information.
	ErrNoChainInformation = errors.New("no chain information")

	// ErrNoLinks is returned when a chain is built without any links.
	ErrNoLinks = errors.New("a chain needs at least one link")

	// ErrCircularReference is returned when the link parents refer back to each other.
	ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

	// ErrNeedOneEndEffector is returned when the links do not form a single serial chain.
	ErrNeedOneEndEffector = errors.New("need exactly one end effector")

	// ErrBranchingChain is returned when more than one link shares a parent.
	ErrBranchingChain = errors.New("only serial chains are supported, found a link with several children")
)

// NewIncorrectDoFError returns an error indicating that the number of joint angles given does not match
// the number of links in the chain.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match frame DoF, expected %d but got %d", expected, actual)
}

// NewReservedWordError is used when a link uses a reserved name.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewDuplicateLinkError is used when two links share an id.
func NewDuplicateLinkError(id string) error {
	return errors.Errorf("link id %q is used more than once", id)
}

// NewParentNotFoundError is used when a link names a parent that is not part of the chain.
func NewParentNotFoundError(id, parent string) error {
	return errors.Errorf("parent %q of link %q is not part of the chain", parent, id)
}
