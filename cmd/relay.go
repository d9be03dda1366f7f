package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/luma/doip/client"
	"github.com/luma/doip/internal/env"
	"github.com/luma/doip/transport"
)

var (
	relayUnit        string
	relayPort        int
	relayCentralUnit int
	relayItem        int
)

func init() {
	flags := RelayCmd.PersistentFlags()

	flags.StringVarP(&relayUnit, "unit", "u", "", "The host of the central unit")
	flags.IntVarP(&relayPort, "port", "p", transport.DefaultPort, "The port of the central unit")
	flags.IntVarP(&relayCentralUnit, "central-unit", "c", 1, "The central unit number [1-10]")
	flags.IntVarP(&relayItem, "item", "i", 0, "The relay's item number")
}

var RelayCmd = &cobra.Command{
	Use:       "relay [on|off|toggle]",
	Short:     "Switch a relay output and report its state",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"on", "off", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer signalStop()

		log, err := env.MakeLogger()
		if err != nil {
			return err
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		if relayUnit == "" {
			relayUnit = conf.Host
		}

		if !cmd.Flags().Changed("port") && conf.Port != 0 {
			relayPort = conf.Port
		}

		doip := client.New(client.Options{
			QueryTimeout: conf.QueryTimeout,
			Log:          log.Named("client"),
		})

		tcp := transport.NewTCP(transport.Options{
			Host:    relayUnit,
			Port:    relayPort,
			Handler: doip,
			Log:     log.Named("transport"),
		})
		doip.Attach(tcp)

		if err := tcp.Connect(ctx); err != nil {
			return err
		}

		defer func() {
			doip.Close()
			tcp.Close()
		}()

		switch args[0] {
		case "on":
			err = doip.SwitchRelay(relayCentralUnit, relayItem, true)
		case "off":
			err = doip.SwitchRelay(relayCentralUnit, relayItem, false)
		case "toggle":
			err = doip.ToggleRelay(relayCentralUnit, relayItem)
		}

		if err != nil {
			return err
		}

		state, err := doip.QueryRelay(ctx, relayCentralUnit, relayItem)
		if err != nil {
			return err
		}

		if state.On {
			fmt.Println("on")
		} else {
			fmt.Println("off")
		}

		return nil
	},
}
