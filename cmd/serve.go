package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	reuseport "github.com/kavu/go_reuseport"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/doip/client"
	"github.com/luma/doip/internal/env"
	"github.com/luma/doip/storage"
	"github.com/luma/doip/transport"
)

var (
	// The central unit to connect to
	unitHost string

	// The port the central unit listens on
	unitPort int

	// The host/port to serve the HTTP state mirror on
	httpHost string
	httpPort string
)

func init() {
	flags := ServeCmd.PersistentFlags()

	flags.StringVarP(&unitHost, "unit", "u", "", "The host of the central unit")
	flags.IntVarP(&unitPort, "port", "p", transport.DefaultPort, "The port of the central unit")
	flags.StringVar(&httpHost, "http-host", "0.0.0.0", "The host to serve HTTP on")
	flags.StringVar(&httpPort, "http-port", "7381", "The port to serve HTTP on")
}

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the DoIP bridge daemon",
	Long: `Run the DoIP bridge daemon

Connects to the central unit, subscribes to state-change notifications for
every function type, and mirrors the last known state of the installation
over HTTP.

Usage
	doip serve --unit 192.168.1.10

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		log, err := env.MakeLogger()
		if err != nil {
			return err
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		if unitHost == "" {
			unitHost = conf.Host
		}

		if !cmd.Flags().Changed("port") && conf.Port != 0 {
			unitPort = conf.Port
		}

		store := storage.NewInmemoryStore()

		bridge := newBridge(store, log.Named("bridge"))

		doip := client.New(client.Options{
			QueryTimeout: conf.QueryTimeout,
			Log:          log.Named("client"),
		})

		tcp := transport.NewTCP(transport.Options{
			Host:    unitHost,
			Port:    unitPort,
			Handler: doip,
			Log:     log.Named("transport"),
		})
		doip.Attach(tcp)

		if err := tcp.Connect(ctx); err != nil {
			return err
		}

		if err := bridge.watch(doip); err != nil {
			return err
		}

		router := setupRouter(conf.DebugHTTP, log)

		router.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		router.GET("/state", func(c *gin.Context) {
			state, err := store.Backup()
			if err != nil {
				c.String(http.StatusInternalServerError, err.Error())
				return
			}

			c.Data(http.StatusOK, "application/json", state)
		})

		// Streams every state change as a server-sent event. /state stays
		// the authoritative snapshot; a consumer that falls behind misses
		// events rather than backing up the bridge.
		router.GET("/updates", func(c *gin.Context) {
			updates, stopListening := store.ListenToUpdates()
			defer stopListening()

			clientGone := c.Writer.CloseNotify()

			c.Stream(func(w io.Writer) bool {
				select {
				case update, ok := <-updates:
					if !ok {
						return false
					}

					c.SSEvent("update", gin.H{
						"key":   string(update.Key),
						"value": json.RawMessage(update.Value),
					})
					return true

				case <-clientGone:
					return false
				}
			})
		})

		s := &http.Server{Handler: router}

		listener, err := reuseport.Listen("tcp", net.JoinHostPort(httpHost, httpPort))
		if err != nil {
			return err
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		log.Info("Bridge running",
			zap.String("unit", unitHost),
			zap.Int("unitPort", unitPort),
			zap.String("httpHost", httpHost),
			zap.String("httpPort", httpPort))

		// Listen for the interrupt signal.
		<-ctx.Done()

		// Restore default behavior on the interrupt signal and notify user of shutdown.
		signalStop()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		if err := doip.Close(); err != nil {
			log.Error("Client did not close cleanly", zap.Error(err))
		}

		if err := tcp.Close(); err != nil {
			log.Error("Transport did not close cleanly", zap.Error(err))
		}

		if err := store.Close(); err != nil {
			log.Error("Store did not close cleanly", zap.Error(err))
		}

		log.Info("Exiting")
		return nil
	},
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))

	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}
