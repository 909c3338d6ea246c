package serve

import (
	"fmt"
	cmdUtil "github.com/ValentinKolb/dTodo/cmd/util"
	"github.com/ValentinKolb/dTodo/lib/store"
	"github.com/ValentinKolb/dTodo/lib/store/memstore"
	"github.com/ValentinKolb/dTodo/lib/store/sqlstore"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/ValentinKolb/dTodo/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dTodo server",
		Long:    `Start the dTodo server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DTODO_<flag> (e.g. DTODO_STORE_ENGINE=sqlite)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the server will listen (e.g. 0.0.0.0:8080, /tmp/dtodo.sock, ...)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Read/write deadline of a connection in seconds, 0 disables the deadline"))

	key = "store-engine"
	ServeCmd.PersistentFlags().String(key, string(common.StoreEngineMemory), cmdUtil.WrapString("The owner store to use (memory, sqlite)"))

	key = "store-dsn"
	ServeCmd.PersistentFlags().String(key, "dtodo.db", cmdUtil.WrapString("The data source of the sqlite store (file path or :memory:)"))

	key = "catalog-fruits"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Comma-separated names replacing the fruits catalog, empty keeps the stored catalog (defaults for a new store)"))

	key = "catalog-suppliers"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Comma-separated names replacing the suppliers catalog, empty keeps the stored catalog (defaults for a new store)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the prometheus /metrics endpoint (e.g. localhost:9090), empty disables it"))

	cmdUtil.SetupFramingFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	framing, err := cmdUtil.GetFramingConfig()
	if err != nil {
		return err
	}

	// parse the store engine
	engine := common.StoreEngine(viper.GetString("store-engine"))
	switch engine {
	case common.StoreEngineMemory, common.StoreEngineSQLite:
	default:
		return fmt.Errorf("invalid store engine %s (expected memory or sqlite)", engine)
	}

	// parse catalogs
	serveCmdConfig.Catalogs = map[common.Catalog][]string{}
	for catalog, key := range map[common.Catalog]string{
		common.CatalogFruits:    "catalog-fruits",
		common.CatalogSuppliers: "catalog-suppliers",
	} {
		if names := parseList(viper.GetString(key)); len(names) > 0 {
			serveCmdConfig.Catalogs[catalog] = names
		}
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.StoreEngine = engine
	serveCmdConfig.StoreDSN = viper.GetString("store-dsn")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Framing = framing
	serveCmdConfig.TCPConf = cmdUtil.GetTCPConf()

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the dTodo server
func run(_ *cobra.Command, _ []string) error {
	c, err := cmdUtil.GetCodec()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	var factory store.Factory
	switch serveCmdConfig.StoreEngine {
	case common.StoreEngineSQLite:
		factory = sqlstore.NewFactory(serveCmdConfig.StoreDSN)
	default:
		factory = memstore.Factory
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		c,
		factory,
	)

	// close the store cleanly on interrupt
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		server.Logger.Infof("Shutting down")
		_ = serv.Close()
	}()

	return serv.Serve()
}

// parseList splits a comma-separated list and drops empty entries
func parseList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
