package control

import "fmt"

// Client is the caller-side half of the protocol: non-blocking command sends
// and event polls. Safe for use from a single client goroutine.
type Client struct {
	commands chan<- Command
	events   <-chan Event
}

// Server is the loop-side half: command polls and event sends.
type Server struct {
	commands <-chan Command
	events   chan<- Event
}

// NewPair creates a connected client/server pair over two unidirectional
// queues of the given capacity.
func NewPair(buffer int) (*Client, *Server) {
	commands := make(chan Command, buffer)
	events := make(chan Event, buffer)
	client := &Client{commands: commands, events: events}
	server := &Server{commands: commands, events: events}
	return client, server
}

// Send queues a command without blocking; it fails when the queue is full.
func (c *Client) Send(cmd Command) error {
	select {
	case c.commands <- cmd:
		return nil
	default:
		return fmt.Errorf("command queue is full")
	}
}

// TryRecv returns the next pending event, if any.
func (c *Client) TryRecv() (Event, bool) {
	select {
	case ev := <-c.events:
		return ev, true
	default:
		return nil, false
	}
}

// TryRecv returns the next pending command, if any.
func (s *Server) TryRecv() (Command, bool) {
	select {
	case cmd := <-s.commands:
		return cmd, true
	default:
		return nil, false
	}
}

// Send queues an event without blocking; it fails when the queue is full.
// The loop treats a full event queue as a slow client and drops the event
// after logging.
func (s *Server) Send(ev Event) error {
	select {
	case s.events <- ev:
		return nil
	default:
		return fmt.Errorf("event queue is full")
	}
}
