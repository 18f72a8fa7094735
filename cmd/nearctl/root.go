// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Olovorr/near-api-js-ext/internal/config"
	"github.com/Olovorr/near-api-js-ext/internal/logging"
	"github.com/Olovorr/near-api-js-ext/pkg/api/jsonrpc"
	"github.com/Olovorr/near-api-js-ext/pkg/client"
	"github.com/Olovorr/near-api-js-ext/pkg/client/signing"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/fatih/color"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by the commands. Every flag can also be set with
// a NEARCTL_ environment variable, such as NEARCTL_PRIVATE_KEY.
type app struct {
	v      *viper.Viper
	flags  settings
	cfg    *config.Config
	client *jsonrpc.Client
	keys   *signing.MemoryKeyProvider

	metrics *http.Server
}

// settings are the flag and environment values after viper has merged them.
type settings struct {
	Config      string        `mapstructure:"config"`
	Network     string        `mapstructure:"network"`
	Node        []string      `mapstructure:"node"`
	Account     string        `mapstructure:"account"`
	PrivateKey  string        `mapstructure:"private-key"`
	Log         string        `mapstructure:"log"`
	WaitTimeout time.Duration `mapstructure:"wait-timeout"`
	JSON        bool          `mapstructure:"json"`
	NoColor     bool          `mapstructure:"no-color"`
}

// decodeSettings decodes the merged values. Environment variables arrive as
// strings, so decoding is weakly typed.
func (a *app) decodeSettings() error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &a.flags,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.InternalError.Wrap(err)
	}
	err = dec.Decode(a.v.AllSettings())
	if err != nil {
		return errors.BadRequest.WithFormat("flags: %w", err)
	}
	return nil
}

func newCmdMain() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("nearctl")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "nearctl",
		Short:         "Send transactions and query a NEAR network",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file (toml, yaml, or json)")
	flags.String("network", "", "Network ID, such as testnet or mainnet")
	flags.StringSlice("node", nil, "RPC endpoint (repeatable)")
	flags.StringP("account", "a", "", "Signer account")
	flags.String("private-key", "", "Secret key of the signer, as <type>:<base58>")
	flags.String("log", "", "Log levels, such as info;submit=debug")
	flags.Duration("wait-timeout", 0, "How long to wait for a transaction to execute")
	flags.BoolP("json", "j", false, "Print JSON")
	flags.Bool("no-color", false, "Disable color")

	cmd.AddCommand(
		a.cmdSendMoney(),
		a.cmdCall(),
		a.cmdAccessKey(),
		a.cmdTxStatus(),
		a.cmdKeys(),
	)
	return cmd
}

// setup loads the configuration and connects to the network.
func (a *app) setup(cmd *cobra.Command) error {
	err := a.v.BindPFlags(cmd.Flags())
	if err != nil {
		return errors.InternalError.Wrap(err)
	}
	err = a.decodeSettings()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if file := a.flags.Config; file != "" {
		cfg = new(config.Config)
		err = cfg.LoadFrom(file)
		if err != nil {
			return err
		}
	}

	if a.v.IsSet("network") {
		cfg.NetworkID = a.flags.Network
	}
	if a.v.IsSet("node") {
		cfg.Endpoints = a.flags.Node
	}
	if a.v.IsSet("log") {
		cfg.Logging.Rules = a.flags.Log
	}
	if a.flags.NoColor {
		cfg.Logging.NoColor = true
		color.NoColor = true
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}

	opts, err := cfg.LoggingOptions(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	handler, err := logging.NewHandler(opts)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))

	a.client, err = jsonrpc.New(cfg.ClientOptions())
	if err != nil {
		return err
	}

	a.keys = signing.NewMemoryKeyProvider()
	if s := a.flags.PrivateKey; s != "" {
		key, err := signing.ParseKeyPair(s)
		if err != nil {
			return err
		}
		a.keys.SetKey(cfg.NetworkID, a.flags.Account, key)
	}

	a.cfg = cfg
	return nil
}

// account returns the signer account.
func (a *app) account() (*client.Account, error) {
	id := a.flags.Account
	if id == "" {
		return nil, errors.BadRequest.With("--account is required")
	}
	return client.New(client.Config{
		AccountID: id,
		NetworkID: a.cfg.NetworkID,
		Client:    a.client,
		Keys:      a.keys,
		Submit:    a.cfg.SubmitOptions(),
		Finality:  a.cfg.Finality,
	})
}

func (a *app) sendOptions() []client.Option {
	var opts []client.Option
	if d := a.flags.WaitTimeout; d > 0 {
		opts = append(opts, client.WithWaitTimeout(d))
	}
	return opts
}

// run wraps a command body with setup.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(cmd); err != nil {
			return err
		}
		if err := a.startMetrics(); err != nil {
			return err
		}
		defer a.stopMetrics()
		return fn(cmd, args)
	}
}
