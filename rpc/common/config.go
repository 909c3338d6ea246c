package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Framing configuration
// --------------------------------------------------------------------------

// FramingMode selects how messages are delimited on stream transports
type FramingMode string

const (
	// FramingLegacy infers the end of a message from a short read
	FramingLegacy FramingMode = "legacy"
	// FramingPrefixed sends a 4 byte big endian length before each message
	FramingPrefixed FramingMode = "prefixed"
)

const (
	DefaultChunkSize          = 4096
	DefaultMaxMessageSize     = 64 * 1024
	DefaultResponseBufferSize = 4096
)

// FramingConfig holds the parameters of the framer, shared by client and server
type FramingConfig struct {
	// Mode is the framing mode (legacy or prefixed)
	Mode FramingMode
	// ChunkSize is the size of a single read of the legacy framer
	ChunkSize int
	// MaxMessageSize is the largest message a server accepts
	MaxMessageSize int
	// ResponseBufferSize is the size of the single response read of a legacy client
	ResponseBufferSize int
}

// DefaultFramingConfig returns the framing settings of the legacy protocol
func DefaultFramingConfig() FramingConfig {
	return FramingConfig{
		Mode:               FramingLegacy,
		ChunkSize:          DefaultChunkSize,
		MaxMessageSize:     DefaultMaxMessageSize,
		ResponseBufferSize: DefaultResponseBufferSize,
	}
}

// ParseFramingMode validates a framing mode string
func ParseFramingMode(s string) (FramingMode, error) {
	switch FramingMode(strings.ToLower(s)) {
	case FramingLegacy:
		return FramingLegacy, nil
	case FramingPrefixed:
		return FramingPrefixed, nil
	default:
		return "", fmt.Errorf("invalid framing mode %s (expected legacy or prefixed)", s)
	}
}

// --------------------------------------------------------------------------
// Socket configuration
// --------------------------------------------------------------------------

// TCPConf holds tcp specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// StoreEngine selects the implementation of the remote owner store
type StoreEngine string

const (
	StoreEngineMemory StoreEngine = "memory"
	StoreEngineSQLite StoreEngine = "sqlite"
)

// ServerConfig holds all configuration parameters of the server.
type ServerConfig struct {
	// Endpoint is the address the transport listens on (host:port or socket path)
	Endpoint string

	// Framing of stream transports
	Framing FramingConfig

	// Socket options (tcp only)
	TCPConf TCPConf

	// TimeoutSecond is the read/write deadline per connection, 0 disables deadlines
	TimeoutSecond int64

	// Remote store parameters
	StoreEngine StoreEngine
	StoreDSN    string
	Catalogs    map[Catalog][]string

	// MetricsEndpoint is the address of the prometheus endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	if c.TimeoutSecond > 0 {
		addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	} else {
		addField("Timeout", "none")
	}
	addField("Metrics Endpoint", valueOr(c.MetricsEndpoint, "disabled"))

	// Framing
	addSection("Framing")
	addField("Mode", string(c.Framing.Mode))
	addField("Chunk Size", fmt.Sprintf("%d bytes", c.Framing.ChunkSize))
	addField("Max Message Size", fmt.Sprintf("%d bytes", c.Framing.MaxMessageSize))

	// Store
	addSection("Store")
	addField("Engine", string(c.StoreEngine))
	if c.StoreEngine == StoreEngineSQLite {
		addField("DSN", c.StoreDSN)
	}
	for _, catalog := range []Catalog{CatalogFruits, CatalogSuppliers} {
		addField(catalog.String(), strings.Join(c.Catalogs[catalog], ", "))
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the configuration of the client request helper
type ClientConfig struct {
	// Endpoint is the single well known address of the server
	Endpoint string
	// TimeoutSecond bounds every request, 0 disables the timeout
	TimeoutSecond int
	// Framing must match the framing of the server
	Framing FramingConfig
	// Socket options (tcp only)
	TCPConf TCPConf
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Framing", string(c.Framing.Mode))
	addField("Response Buffer", fmt.Sprintf("%d bytes", c.Framing.ResponseBufferSize))

	return sb.String()
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
