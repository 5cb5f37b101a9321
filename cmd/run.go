package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/matt-g-everett/ledchart/api"
	"github.com/matt-g-everett/ledchart/chart"
	"github.com/matt-g-everett/ledchart/scene"
	"github.com/matt-g-everett/ledchart/stream"
	"github.com/spf13/cobra"
)

var configFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stream a scene to an ledrx device",
	RunE:  runStream,
}

func init() {
	runCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "YAML config file")
	rootCmd.AddCommand(runCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	config, err := stream.LoadConfig(configFile)
	if err != nil {
		return err
	}
	logger := newLogger(verbose || config.Verbose)
	mqtt.ERROR = log.New(os.Stderr, "mqtt: ", 0)

	engine := chart.NewEngine(chart.WithLogger(logger), chart.WithVerbose(verbose || config.Verbose))
	ring := stream.NewRing(config.Frame.Pixels, config.BackgroundColour())

	// Each run gets its own client ID so a restarted process does not fight
	// a session the broker still holds for the previous one.
	clientID := fmt.Sprintf("%s-%s", config.Mqtt.ClientID, uuid.NewString()[:8])
	var subscriber *stream.CommandSubscriber
	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(clientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(client mqtt.Client) {
			logger.Info("Connected", "broker", config.Mqtt.URL, "clientID", clientID)
			if err := subscriber.Subscribe(); err != nil {
				logger.Error("Failed to subscribe", "topic", config.Mqtt.Topics.Events, "error", err)
			}
		})
	client := mqtt.NewClient(options)
	publisher := stream.NewMqttPublisher(client, config.Mqtt.QoS)

	controller := stream.NewController(engine, ring,
		stream.WithControllerLogger(logger),
		stream.WithCompletions(publisher, config.Mqtt.Topics.Completions),
		stream.WithTransition(config.Frame.TransitionMs))
	subscriber = stream.NewCommandSubscriber(client, config.Mqtt.Topics.Events, controller, logger)

	if config.Scene != "" {
		s, err := scene.Load(config.Scene)
		if err != nil {
			return err
		}
		if err := controller.LoadScene(s); err != nil {
			return fmt.Errorf("failed to load scene %s: %w", config.Scene, err)
		}
	}

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to %s: %w", config.Mqtt.URL, token.Error())
	}
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewApi(config.API.Listen, controller, logger)
	go func() {
		if err := server.Serve(ctx); err != nil {
			logger.Error("API stopped", "error", err)
		}
	}()

	streamer := stream.NewStreamer(config, publisher, controller, logger)
	if err := streamer.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
