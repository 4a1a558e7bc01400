package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quantara/tradestream/src/cmd/streamwatch/run"
	"github.com/quantara/tradestream/src/eventconsumers"
	"github.com/quantara/tradestream/src/eventmodels"
	"github.com/quantara/tradestream/src/eventpubsub"
	"github.com/quantara/tradestream/src/eventstream"
	"github.com/quantara/tradestream/src/utils"
)

type RunArgs struct {
	Streams    []string
	ConfigFile string
	CsvOutDir  string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/streamwatch/main.go --streams trade_updates,account_updates",
	Short: "Watch broker account and trade events in real time",
	Run: func(cmd *cobra.Command, args []string) {
		streams, err := cmd.Flags().GetStringSlice("streams")
		if err != nil {
			log.Fatalf("error getting streams: %v", err)
		}

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		csvOutDir, err := cmd.Flags().GetString("csv-out")
		if err != nil {
			log.Fatalf("error getting csv-out: %v", err)
		}

		if err := Run(RunArgs{
			Streams:    streams,
			ConfigFile: configFile,
			CsvOutDir:  csvOutDir,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	// Flags take precedence over the config file.
	config := eventmodels.StreamWatchConfigYAML{
		Streams:   args.Streams,
		CsvOutDir: args.CsvOutDir,
	}

	if args.ConfigFile != "" {
		data, err := os.ReadFile(args.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read streamwatch config: %w", err)
		}

		var fileConfig eventmodels.StreamWatchConfigYAML
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return fmt.Errorf("failed to unmarshal streamwatch config: %w", err)
		}

		if len(config.Streams) == 0 {
			config.Streams = fileConfig.Streams
		}

		if config.CsvOutDir == "" {
			config.CsvOutDir = fileConfig.CsvOutDir
		}

		if fileConfig.LogLevel != "" {
			level, err := log.ParseLevel(fileConfig.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log_level in streamwatch config: %w", err)
			}

			log.SetLevel(level)
		}
	}

	if len(config.Streams) == 0 {
		config.Streams = []string{
			string(eventmodels.StreamTypeAccountUpdates),
			string(eventmodels.StreamTypeTradeUpdates),
		}
	}

	streamTypes, err := config.GetStreamTypes()
	if err != nil {
		return fmt.Errorf("invalid streams: %w", err)
	}

	apiInfo, err := eventmodels.NewApiInfoFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load broker credentials: %w", err)
	}

	eventpubsub.Init()

	wg := sync.WaitGroup{}

	recorder := run.NewTradeRecorder()
	tracker := eventconsumers.NewOrderTrackerClient(&wg)

	if err := eventpubsub.Subscribe(eventpubsub.TradeUpdateEvent, run.LogTradeUpdate); err != nil {
		return fmt.Errorf("failed to register trade update log sink: %w", err)
	}

	if err := eventpubsub.Subscribe(eventpubsub.AccountUpdateEvent, run.RenderAccountUpdate); err != nil {
		return fmt.Errorf("failed to register account update sink: %w", err)
	}

	if err := eventpubsub.Subscribe(eventpubsub.OrderStatusChangeEvent, run.LogOrderStatusChange); err != nil {
		return fmt.Errorf("failed to register order status sink: %w", err)
	}

	if err := eventpubsub.Subscribe(eventpubsub.StreamErrorEvent, run.LogStreamError); err != nil {
		return fmt.Errorf("failed to register stream error sink: %w", err)
	}

	if config.CsvOutDir != "" {
		if err := eventpubsub.Subscribe(eventpubsub.TradeUpdateEvent, recorder.OnTradeUpdate); err != nil {
			return fmt.Errorf("failed to register trade update recorder: %w", err)
		}
	}

	tracker.Start(ctx)

	conn, err := eventstream.Connect(ctx, apiInfo)
	if err != nil {
		return fmt.Errorf("failed to connect to broker event stream: %w", err)
	}

	for _, stream := range streamTypes {
		switch stream {
		case eventmodels.StreamTypeAccountUpdates:
			sub, err := eventstream.SubscribeAccountUpdates(ctx, conn)
			if err != nil {
				conn.Close()
				return fmt.Errorf("failed to subscribe to %s: %w", stream, err)
			}

			wg.Add(1)
			go run.PumpAccountUpdates(&wg, sub)
		case eventmodels.StreamTypeTradeUpdates:
			sub, err := eventstream.SubscribeTradeUpdates(ctx, conn)
			if err != nil {
				conn.Close()
				return fmt.Errorf("failed to subscribe to %s: %w", stream, err)
			}

			wg.Add(1)
			go run.PumpTradeUpdates(&wg, sub)
		}
	}

	// Create channel for shutdown signals.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	log.Infof("Main: watching %v", config.Streams)

	// Block here until program is shut down or the stream drops
	select {
	case <-stop:
		log.Info("Main: shutdown signal received")
	case <-conn.Done():
		if err := conn.Err(); err != nil {
			log.Errorf("Main: stream terminated: %v", err)
		} else {
			log.Info("Main: stream closed by server")
		}
	}

	cancel()
	conn.Close()

	// Wait for the stream pumps and consumers to drain
	wg.Wait()
	eventpubsub.WaitAsync()

	total, open := tracker.Summary()
	log.Infof("Main: tracked %d orders, %d still open", total, open)

	if config.CsvOutDir != "" {
		csvPath, err := recorder.ExportToCsv(config.CsvOutDir, "trade_updates")
		if err != nil {
			log.Errorf("Main: failed to export trade updates: %v", err)
		} else {
			log.Infof("Main: %d trade updates written to %s", recorder.Len(), csvPath)
		}
	}

	log.Info("Main: gracefully stopped!")

	return nil
}

func main() {
	runCmd.PersistentFlags().StringSlice("streams", []string{}, "The streams to subscribe to.")
	runCmd.PersistentFlags().String("config", "", "Path to a streamwatch YAML config file.")
	runCmd.PersistentFlags().String("csv-out", "", "The directory to write recorded trade updates to.")

	runCmd.Execute()
}
