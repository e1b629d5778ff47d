package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/metrics"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/api"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/network/api/resource"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"

	cmdcommon "github.com/devoter-xyz/devoter-contracts-sub000/cmd/devoter/common"
)

const defaultBind string = "0.0.0.0:12345"
const defaultLogLevel logging.Lvl = logging.LvlInfo

var (
	flagBind                string = common.GetENVValue("DEVOTER_BIND", defaultBind)
	flagNetworkID           string = common.GetENVValue("DEVOTER_NETWORK_ID", "")
	flagLogLevel            string = common.GetENVValue("DEVOTER_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput           string = common.GetENVValue("DEVOTER_LOG_OUTPUT", "")
	flagStorageConfigString string
	flagNoMetrics           bool
)

var (
	apiCmd *cobra.Command

	storageConfig *storage.Config
	logLevel      logging.Lvl
	log           logging.Logger
)

func init() {
	apiCmd = &cobra.Command{
		Use:   "api",
		Short: "Run the devoter query API",
		Run: func(c *cobra.Command, args []string) {
			parseFlagsAPI()

			runAPI()
		},
	}

	var currentDirectory string
	currentDirectory, err := os.Getwd()
	if err != nil {
		cmdcommon.PrintFlagsError(apiCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(apiCmd, "--storage", err)
	}
	flagStorageConfigString = common.GetENVValue("DEVOTER_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	apiCmd.Flags().StringVar(&flagBind, "bind", flagBind, "address to listen on")
	apiCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	apiCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	apiCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	apiCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	apiCmd.Flags().BoolVar(&flagNoMetrics, "no-metrics", flagNoMetrics, "disable prometheus metrics")

	rootCmd.AddCommand(apiCmd)
}

func parseFlagsAPI() {
	var err error

	if len(flagNetworkID) < 1 {
		cmdcommon.PrintFlagsError(apiCmd, "--network-id", fmt.Errorf("--network-id must be given"))
	}

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(apiCmd, "--storage", err)
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(apiCmd, "--log-level", err)
	}

	var logHandler logging.Handler
	if len(flagLogOutput) < 1 {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			logHandler = logging.StreamHandler(os.Stdout, logging.TerminalFormat())
		} else {
			logHandler = logging.StreamHandler(os.Stdout, common.JsonFormatEx(false, true))
		}
	} else {
		if logHandler, err = logging.FileHandler(flagLogOutput, common.JsonFormatEx(false, true)); err != nil {
			cmdcommon.PrintFlagsError(apiCmd, "--log-output", err)
		}
	}
	logHandler = logging.CallerFileHandler(logHandler)

	log = logging.New("module", "main")
	log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))
	common.SetLogging(logLevel, logHandler)

	log.Info("Starting devoter",
		"\n\tbind", flagBind,
		"\n\tnetwork-id", flagNetworkID,
		"\n\tstorage", flagStorageConfigString,
	)
}

func runAPI() {
	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)

		os.Exit(1)
	}
	defer st.Close()

	auth := common.NewRoleAuthorizer()
	clock := common.LocalClock{}
	period := voting.NewPeriod(clock, auth)

	if !flagNoMetrics {
		metrics.InitPrometheusMetrics()
	}

	router := mux.NewRouter()
	apiHandler := api.NewNetworkHandlerAPI(st, period)
	apiSubRouter := router.PathPrefix(resource.APIPrefix + resource.APIVersionV1).Subrouter()
	apiSubRouter.Use(api.MeasureAPIRequests)
	apiHandler.AddAPIHandlers(apiSubRouter)

	if !flagNoMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	server := &http.Server{
		Addr:    flagBind,
		Handler: handlers.CombinedLoggingHandler(os.Stdout, handlers.CORS()(router)),
	}

	var g run.Group
	{
		g.Add(func() error {
			log.Info("listening", "bind", flagBind)
			return server.ListenAndServe()
		}, func(error) {
			server.Close()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	if err := g.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
