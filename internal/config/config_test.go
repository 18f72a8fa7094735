// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Olovorr/near-api-js-ext/pkg/api"
	"github.com/Olovorr/near-api-js-ext/pkg/errors"
	"github.com/stretchr/testify/require"
)

func mkfs(files map[string]string) fstest.MapFS {
	fs := fstest.MapFS{}
	for name, data := range files {
		fs[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fs
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"client.toml": `
			network-id = "testnet"
			endpoints = ["https://rpc.testnet.near.org"]
			finality = "near-final"

			[submit]
			max-attempts = 7
			base-delay = "250ms"
			wait-timeout = "1m"

			[rpc]
			rate-limit = 2.5
			breaker-failures = 3`,

		"client.yaml": `
network-id: testnet
endpoints: [https://rpc.testnet.near.org]
finality: near-final
submit:
  max-attempts: 7
  base-delay: 250ms
  wait-timeout: 1m
rpc:
  rate-limit: 2.5
  breaker-failures: 3`,

		"client.json": `{
			"network-id": "testnet",
			"endpoints": ["https://rpc.testnet.near.org"],
			"finality": "near-final",
			"submit": {"max-attempts": 7, "base-delay": "250ms", "wait-timeout": "1m"},
			"rpc": {"rate-limit": 2.5, "breaker-failures": 3}
		}`,
	}

	for name := range files {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			cfg := new(Config)
			require.NoError(t, cfg.LoadFromFS(mkfs(files), name))
			require.NoError(t, cfg.Validate())

			require.Equal(t, "testnet", cfg.NetworkID)
			require.Equal(t, []string{"https://rpc.testnet.near.org"}, cfg.Endpoints)
			require.Equal(t, api.FinalityNearFinal, cfg.Finality)
			require.Equal(t, 7, cfg.Submit.MaxAttempts)
			require.Equal(t, 250*time.Millisecond, cfg.Submit.BaseDelay.Get())
			require.Equal(t, time.Minute, cfg.Submit.WaitTimeout.Get())
			require.Equal(t, 2.5, cfg.RPC.RateLimit)
			require.Equal(t, uint32(3), cfg.RPC.BreakerFailures)
		})
	}
}

func TestUnknownFileType(t *testing.T) {
	err := new(Config).LoadFromFS(mkfs(map[string]string{"client.ini.bak": ""}), "client.ini.bak")
	require.Equal(t, errors.BadRequest, errors.Code(err))
}

func TestDotenv(t *testing.T) {
	// When dot-env is set, ${KEY} is resolved
	t.Run("Set", func(t *testing.T) {
		fs := mkfs(map[string]string{
			".env": `
				RPC_URL=https://rpc.mainnet.near.org`,
			"client.toml": `
				dot-env = true
				network-id = "mainnet"
				endpoints = ["${RPC_URL}"]`,
		})

		cfg := new(Config)
		require.NoError(t, cfg.LoadFromFS(fs, "client.toml"))
		require.Equal(t, []string{"https://rpc.mainnet.near.org"}, cfg.Endpoints)
	})

	// When dot-env is unset, ${KEY} is left as is
	t.Run("Unset", func(t *testing.T) {
		fs := mkfs(map[string]string{
			".env": `
				RPC_URL=https://rpc.mainnet.near.org`,
			"client.toml": `
				network-id = "${RPC_URL}"`,
		})

		cfg := new(Config)
		require.NoError(t, cfg.LoadFromFS(fs, "client.toml"))
		require.Equal(t, "${RPC_URL}", cfg.NetworkID)
	})

	t.Run("Wrong var", func(t *testing.T) {
		fs := mkfs(map[string]string{
			".env": `
				RPC_URL=https://rpc.mainnet.near.org`,
			"client.toml": `
				dot-env = true
				network-id = "${NETWORK}"`,
		})

		cfg := new(Config)
		err := cfg.LoadFromFS(fs, "client.toml")
		require.EqualError(t, err, `"NETWORK" is not defined`)
	})

	t.Run("Missing file", func(t *testing.T) {
		fs := mkfs(map[string]string{
			"client.toml": `
				dot-env = true
				network-id = "${NETWORK}"`,
		})

		cfg := new(Config)
		err := cfg.LoadFromFS(fs, "client.toml")
		require.ErrorContains(t, err, "file does not exist")
	})

	t.Run("Nested dir", func(t *testing.T) {
		fs := mkfs(map[string]string{
			"conf/.env": `
				NETWORK=testnet`,
			"conf/client.yaml": `
dot-env: true
network-id: ${NETWORK}`,
		})

		cfg := new(Config)
		require.NoError(t, cfg.LoadFromFS(fs, "conf/client.yaml"))
		require.Equal(t, "testnet", cfg.NetworkID)
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"Network":   func(c *Config) { c.NetworkID = "" },
		"Endpoints": func(c *Config) { c.Endpoints = nil },
		"URL":       func(c *Config) { c.Endpoints = []string{"not a url"} },
		"Finality":  func(c *Config) { c.Finality = "eventually" },
		"Jitter":    func(c *Config) { c.Submit.JitterPercent = 150 },
		"Format":    func(c *Config) { c.Logging.Format = "xml" },
		"Rules":     func(c *Config) { c.Logging.Rules = "submit=loud" },
		"Metrics":   func(c *Config) { c.Metrics.Enabled = true },
		"Delays": func(c *Config) {
			c.Submit.BaseDelay = Duration(time.Second)
			c.Submit.MaxDelay = Duration(time.Millisecond)
		},
	}

	require.NoError(t, Default().Validate())
	for name, modify := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Equal(t, errors.BadRequest, errors.Code(err))
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	cfg := Default()
	cfg.Submit.MaxAttempts = 3
	cfg.Submit.PollInterval = Duration(750 * time.Millisecond)
	cfg.Logging.Rules = "info;submit=debug"

	for _, ext := range []string{".toml", ".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "client"+ext)
			require.NoError(t, cfg.SaveTo(file))

			loaded := new(Config)
			require.NoError(t, loaded.LoadFrom(file))
			require.Equal(t, cfg.Endpoints, loaded.Endpoints)
			require.Equal(t, 3, loaded.Submit.MaxAttempts)
			require.Equal(t, 750*time.Millisecond, loaded.Submit.PollInterval.Get())
			require.Equal(t, "info;submit=debug", loaded.Logging.Rules)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.RPC.Timeout = Duration(5 * time.Second)
	cfg.Submit.MaxAttempts = 9
	cfg.Logging.Rules = "warn;nonce=debug"

	require.Equal(t, 5*time.Second, cfg.ClientOptions().Timeout)
	require.Equal(t, cfg.Endpoints, cfg.ClientOptions().Endpoints)
	require.Equal(t, 9, cfg.SubmitOptions().MaxAttempts)

	opts, err := cfg.LoggingOptions(io.Discard)
	require.NoError(t, err)
	require.Equal(t, "text", opts.Format)
	require.Len(t, opts.Rules, 2)
	require.Equal(t, "nonce", opts.Rules[1].Module)
}
