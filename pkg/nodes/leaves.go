package nodes

import (
	"context"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
)

// AlwaysSuccess is a childless leaf that succeeds every tick. Useful as a
// fixture and as a placeholder in hand-built trees.
type AlwaysSuccess struct {
	node.Base
}

func (*AlwaysSuccess) NodeType() string { return "always_success" }

func (*AlwaysSuccess) Tick(context.Context, node.RunContext) (domain.ExecutionStatus, error) {
	return domain.StatusSuccess, nil
}

// AlwaysFailure is a childless leaf that fails every tick.
type AlwaysFailure struct {
	node.Base
}

func (*AlwaysFailure) NodeType() string { return "always_failure" }

func (*AlwaysFailure) Tick(context.Context, node.RunContext) (domain.ExecutionStatus, error) {
	return domain.StatusFailure, nil
}

// AlwaysRunning is a childless leaf that reports Running every tick.
type AlwaysRunning struct {
	node.Base
}

func (*AlwaysRunning) NodeType() string { return "always_running" }

func (*AlwaysRunning) Tick(context.Context, node.RunContext) (domain.ExecutionStatus, error) {
	return domain.StatusRunning, nil
}
