package util

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/lib/db"
	"github.com/ValentinKolb/dTodo/lib/db/engines/leveldb"
	"github.com/ValentinKolb/dTodo/lib/db/engines/sqlite"
	"github.com/ValentinKolb/dTodo/rpc/client"
	"github.com/ValentinKolb/dTodo/rpc/codec"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/transport"
	"github.com/ValentinKolb/dTodo/rpc/transport/http"
	"github.com/ValentinKolb/dTodo/rpc/transport/tcp"
	"github.com/ValentinKolb/dTodo/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Flags
// --------------------------------------------------------------------------

// SetupFramingFlags adds the framing size flags shared by client and server
func SetupFramingFlags(cmd *cobra.Command) {
	key := "chunk-size"
	cmd.PersistentFlags().Int(key, common.DefaultChunkSize, WrapString("Size of a single read of the legacy framing (in bytes)"))

	key = "max-message-size"
	cmd.PersistentFlags().Int(key, common.DefaultMaxMessageSize, WrapString("Largest request the server accepts, larger requests are answered with 'buffer capacity exceeded' (in bytes)"))

	key = "response-buffer"
	cmd.PersistentFlags().Int(key, common.DefaultResponseBufferSize, WrapString("Size of the single response read of a legacy client (in bytes)"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, 0, WrapString("The linger time on close (in seconds, only for tcp)"))
}

// SetupRPCClientFlags adds common RPC connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "timeout"
	cmd.PersistentFlags().Int(key, 10, WrapString("The timeout in seconds of a single request, 0 disables the timeout"))

	key = "endpoint"
	cmd.PersistentFlags().String(key, "localhost:8080", WrapString("The address of the dTodo server (e.g. localhost:8080, /tmp/dtodo.sock, http://localhost:8080)"))

	key = "stats"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print request statistics before exiting"))

	SetupFramingFlags(cmd)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// InitConfig loads the .env files and sets up viper to read DTODO_ environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dtodo")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetFramingConfig reads the framing configuration from viper
func GetFramingConfig() (common.FramingConfig, error) {
	mode, err := common.ParseFramingMode(viper.GetString("framing"))
	if err != nil {
		return common.FramingConfig{}, err
	}

	return common.FramingConfig{
		Mode:               mode,
		ChunkSize:          viper.GetInt("chunk-size"),
		MaxMessageSize:     viper.GetInt("max-message-size"),
		ResponseBufferSize: viper.GetInt("response-buffer"),
	}, nil
}

// GetTCPConf reads the socket options from viper
func GetTCPConf() common.TCPConf {
	return common.TCPConf{
		TCPNoDelay:      viper.GetBool("tcp-nodelay"),
		TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
		TCPLingerSec:    viper.GetInt("tcp-linger"),
	}
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() (*common.ClientConfig, error) {
	framing, err := GetFramingConfig()
	if err != nil {
		return nil, err
	}

	return &common.ClientConfig{
		Endpoint:      viper.GetString("endpoint"),
		TimeoutSecond: viper.GetInt("timeout"),
		Framing:       framing,
		TCPConf:       GetTCPConf(),
	}, nil
}

// --------------------------------------------------------------------------
// Factories
// --------------------------------------------------------------------------

// GetCodec creates a codec based on configuration
func GetCodec() (codec.ICodec, error) {
	return codec.New(viper.GetString("codec"))
}

// GetClientTransport creates a client transport based on configuration
func GetClientTransport() (transport.IRPCClientTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpClientTransport(), nil
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// GetServerTransport creates a server transport based on configuration
func GetServerTransport() (transport.IRPCServerTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpServerTransport(), nil
	case "tcp":
		return tcp.NewTCPServerTransport(), nil
	case "unix":
		return unix.NewUnixServerTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// NewClient creates a client from the configuration
func NewClient() (client.ITodoClient, error) {
	config, err := GetClientConfig()
	if err != nil {
		return nil, err
	}

	c, err := GetCodec()
	if err != nil {
		return nil, err
	}

	t, err := GetClientTransport()
	if err != nil {
		return nil, err
	}

	return client.NewClient(*config, t, c)
}

// GetDBFactory creates the factory of the local record database
func GetDBFactory() (db.Factory, error) {
	impl, err := db.ParseImplementation(viper.GetString("db"))
	if err != nil {
		return nil, err
	}

	path := viper.GetString("db-path")
	switch impl {
	case db.ImplLevelDB:
		return leveldb.NewFactory(path), nil
	default:
		return sqlite.NewFactory(path), nil
	}
}
