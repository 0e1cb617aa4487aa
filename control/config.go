// File: control/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Validated run configuration for the server and client roles.

package control

import (
	"fmt"
	"strings"
	"time"

	"github.com/momentics/zerosend/api"
)

// ListenBacklog is the listen(2) backlog used by the server.
const ListenBacklog = 64

// ServerConfig parameterizes one transmitting server process.
type ServerConfig struct {
	Port        int
	MessageSize int
	Strategy    string
	LogLevel    string
}

// Validate checks ranges; strategy names are validated by strategy.New.
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", api.ErrInvalidArgument, c.Port)
	}
	if c.MessageSize <= 0 {
		return fmt.Errorf("%w: message size must be > 0", api.ErrInvalidArgument)
	}
	return nil
}

// String renders the configuration for startup logging.
func (c *ServerConfig) String() string {
	var sb strings.Builder
	addField(&sb, "Port", fmt.Sprintf("%d", c.Port))
	addField(&sb, "Message size", fmt.Sprintf("%d bytes", c.MessageSize))
	addField(&sb, "Strategy", c.Strategy)
	addField(&sb, "Log level", c.LogLevel)
	return sb.String()
}

// ClientConfig parameterizes one receiving client process.
type ClientConfig struct {
	Host        string
	Port        int
	MessageSize int
	Connections int
	Duration    time.Duration
	LogLevel    string
}

// Validate checks ranges.
func (c *ClientConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: server host required", api.ErrInvalidArgument)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", api.ErrInvalidArgument, c.Port)
	}
	if c.MessageSize <= 0 {
		return fmt.Errorf("%w: message size must be > 0", api.ErrInvalidArgument)
	}
	if c.Connections <= 0 {
		return fmt.Errorf("%w: connection count must be > 0", api.ErrInvalidArgument)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be > 0", api.ErrInvalidArgument)
	}
	return nil
}

// String renders the configuration for startup logging.
func (c *ClientConfig) String() string {
	var sb strings.Builder
	addField(&sb, "Server", fmt.Sprintf("%s:%d", c.Host, c.Port))
	addField(&sb, "Message size", fmt.Sprintf("%d bytes", c.MessageSize))
	addField(&sb, "Connections", fmt.Sprintf("%d", c.Connections))
	addField(&sb, "Duration", c.Duration.String())
	addField(&sb, "Log level", c.LogLevel)
	return sb.String()
}

func addField(sb *strings.Builder, name, value string) {
	fmt.Fprintf(sb, "  %-14s: %s\n", name, value)
}
