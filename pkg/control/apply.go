package control

import (
	"fmt"
	"time"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/support"
	"github.com/aretw0/canopy/pkg/tree"
)

// Settings holds the loop's runtime configuration, mutable through the
// RunSettings command.
type Settings struct {
	// Interval is the sleep between poll/tick cycles.
	Interval time.Duration
	// RunRoots enables ticking the declared roots each cycle.
	RunRoots bool
}

// Applier executes commands against a tree and produces the documented
// ordered event sequences. The Loop embeds one; tests can drive it directly.
type Applier struct {
	Tree     *tree.Tree
	Support  *support.Support
	Settings Settings
}

// Apply executes one command. The first event is always the CommandResult;
// on success it is followed by the information events documented for the
// command kind.
func (a *Applier) Apply(cmd Command) []Event {
	events, err := a.apply(cmd)
	result := CommandResult{Command: cmd.Name()}
	if err != nil {
		result.Error = err.Error()
		return []Event{result}
	}
	return append([]Event{result}, events...)
}

func (a *Applier) apply(cmd Command) ([]Event, error) {
	switch c := cmd.(type) {
	case AddNode:
		n, err := a.Support.CreateNode(c.NodeType)
		if err != nil {
			return nil, err
		}
		if err := a.Tree.AddNode(c.ID, n); err != nil {
			return nil, err
		}
		return []Event{a.nodeInfo(c.ID)}, nil

	case RemoveNode:
		if err := a.Tree.RemoveNode(c.ID); err != nil {
			return nil, err
		}
		return []Event{a.treeState()}, nil

	case SetChildren:
		if err := a.Tree.SetChildren(c.Parent, c.Children); err != nil {
			return nil, err
		}
		return []Event{a.treeState()}, nil

	case AddBlackboard:
		if err := a.Tree.AddBlackboard(blackboard.New(c.ID)); err != nil {
			return nil, err
		}
		return []Event{a.blackboardInfo(c.ID)}, nil

	case RemoveBlackboard:
		if err := a.Tree.RemoveBlackboard(c.ID); err != nil {
			return nil, err
		}
		return []Event{a.treeState()}, nil

	case SetConfig:
		n, err := a.Tree.Node(c.ID)
		if err != nil {
			return nil, err
		}
		cfg, err := a.Support.DeserializeConfig(c.Config)
		if err != nil {
			return nil, err
		}
		if err := n.SetConfig(cfg); err != nil {
			return nil, err
		}
		return []Event{a.nodeInfo(c.ID)}, nil

	case PortDisconnectConnect:
		if c.Target == nil {
			// Pure disconnect: report the blackboard the port was attached
			// to, if any.
			var previous *domain.BlackboardID
			for _, conn := range a.Tree.Connections() {
				if conn.Node == c.Port {
					id := conn.Blackboard.Blackboard
					previous = &id
					break
				}
			}
			if err := a.Tree.DisconnectPort(c.Port); err != nil {
				return nil, err
			}
			if previous == nil {
				return nil, nil
			}
			return []Event{a.blackboardInfo(*previous)}, nil
		}
		if err := a.Tree.ConnectPortToBlackboard(c.Port, *c.Target); err != nil {
			return nil, err
		}
		return []Event{a.blackboardInfo(c.Target.Blackboard)}, nil

	case SetRoots:
		if err := a.Tree.SetRoots(c.Roots); err != nil {
			return nil, err
		}
		return []Event{TreeRoots{Roots: a.Tree.Roots()}}, nil

	case RunSettings:
		a.Settings.Interval = c.Interval
		a.Settings.RunRoots = c.RunRoots
		return nil, nil

	case Clear:
		a.Tree.Clear()
		return []Event{a.treeState()}, nil

	case RequestTreeConfig:
		doc, err := a.Support.SerializeTree(a.Tree)
		if err != nil {
			return nil, err
		}
		return []Event{TreeConfig{Config: doc}}, nil

	case LoadTreeConfig:
		if c.Config == nil {
			return nil, fmt.Errorf("load_tree_config: missing document")
		}
		loaded, err := a.Support.DeserializeTree(c.Config)
		if err != nil {
			return nil, err
		}
		*a.Tree = *loaded
		doc, err := a.Support.SerializeTree(a.Tree)
		if err != nil {
			return nil, err
		}
		return []Event{TreeConfig{Config: doc}, a.treeState()}, nil

	case Callback:
		if c.Fn == nil {
			return nil, fmt.Errorf("callback: missing function")
		}
		return nil, c.Fn(a.Tree)

	default:
		return nil, fmt.Errorf("unknown command %T", cmd)
	}
}

func (a *Applier) nodeInfo(id domain.NodeID) Event {
	info := NodeInformation{ID: id}
	n, err := a.Tree.Node(id)
	if err != nil {
		return info
	}
	info.NodeType = n.NodeType()
	if cfg := n.Config(); cfg != nil {
		if sc, err := a.Support.SerializeConfig(n.NodeType(), cfg); err == nil {
			info.Config = sc
		}
	}
	return info
}

func (a *Applier) blackboardInfo(id domain.BlackboardID) Event {
	info := BlackboardInformation{ID: id, Values: make(map[string]domain.SerializedValue)}
	bb, err := a.Tree.Blackboard(id)
	if err != nil {
		return info
	}
	for name, value := range bb.Snapshot() {
		if sv, err := a.Support.SerializeValue(value); err == nil {
			info.Values[name] = *sv
		}
	}
	info.Connections = a.Tree.ConnectionsFor(id)
	return info
}

func (a *Applier) treeState() Event {
	state := TreeState{Roots: a.Tree.Roots()}
	for _, id := range a.Tree.NodeIDs() {
		n, err := a.Tree.Node(id)
		if err != nil {
			continue
		}
		state.Nodes = append(state.Nodes, NodeSummary{
			ID:       id,
			NodeType: n.NodeType(),
			Children: a.Tree.Children(id),
		})
	}
	return state
}
