package control

import (
	"encoding/json"
	"fmt"
)

// envelope is the transport-agnostic tagged form of a command or event.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalCommand encodes a command as a tagged JSON envelope. Callback has
// no wire form.
func MarshalCommand(cmd Command) ([]byte, error) {
	if _, ok := cmd.(Callback); ok {
		return nil, fmt.Errorf("command %q is not wire-serializable", cmd.Name())
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: cmd.Name(), Data: data})
}

// UnmarshalCommand decodes a tagged JSON envelope into a command.
func UnmarshalCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode command envelope: %w", err)
	}

	var cmd Command
	switch env.Type {
	case "add_node":
		cmd = &AddNode{}
	case "remove_node":
		cmd = &RemoveNode{}
	case "set_children":
		cmd = &SetChildren{}
	case "add_blackboard":
		cmd = &AddBlackboard{}
	case "remove_blackboard":
		cmd = &RemoveBlackboard{}
	case "set_config":
		cmd = &SetConfig{}
	case "port_disconnect_connect":
		cmd = &PortDisconnectConnect{}
	case "set_roots":
		cmd = &SetRoots{}
	case "run_settings":
		cmd = &RunSettings{}
	case "clear":
		return Clear{}, nil
	case "request_tree_config":
		return RequestTreeConfig{}, nil
	case "load_tree_config":
		cmd = &LoadTreeConfig{}
	default:
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, cmd); err != nil {
			return nil, fmt.Errorf("decode %q command: %w", env.Type, err)
		}
	}
	return deref(cmd), nil
}

// MarshalEvent encodes an event as a tagged JSON envelope.
func MarshalEvent(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: ev.Name(), Data: data})
}

// UnmarshalEvent decodes a tagged JSON envelope into an event.
func UnmarshalEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	var ev Event
	switch env.Type {
	case "command_result":
		ev = &CommandResult{}
	case "node_information":
		ev = &NodeInformation{}
	case "blackboard_information":
		ev = &BlackboardInformation{}
	case "tree_state":
		ev = &TreeState{}
	case "tree_config":
		ev = &TreeConfig{}
	case "tree_roots":
		ev = &TreeRoots{}
	case "execution_result":
		ev = &ExecutionResult{}
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, ev); err != nil {
			return nil, fmt.Errorf("decode %q event: %w", env.Type, err)
		}
	}
	return derefEvent(ev), nil
}

// deref flattens the pointer forms produced during decoding back to the
// value forms the rest of the package passes around.
func deref(cmd Command) Command {
	switch v := cmd.(type) {
	case *AddNode:
		return *v
	case *RemoveNode:
		return *v
	case *SetChildren:
		return *v
	case *AddBlackboard:
		return *v
	case *RemoveBlackboard:
		return *v
	case *SetConfig:
		return *v
	case *PortDisconnectConnect:
		return *v
	case *SetRoots:
		return *v
	case *RunSettings:
		return *v
	case *LoadTreeConfig:
		return *v
	default:
		return cmd
	}
}

func derefEvent(ev Event) Event {
	switch v := ev.(type) {
	case *CommandResult:
		return *v
	case *NodeInformation:
		return *v
	case *BlackboardInformation:
		return *v
	case *TreeState:
		return *v
	case *TreeConfig:
		return *v
	case *TreeRoots:
		return *v
	case *ExecutionResult:
		return *v
	default:
		return ev
	}
}
