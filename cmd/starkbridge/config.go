package main

import (
	"strings"
	"time"

	"github.com/NethermindEth/starkbridge/utils"
	"github.com/NethermindEth/starkbridge/validator"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "STARKBRIDGE"

type Config struct {
	LogLevel utils.LogLevel `mapstructure:"log-level"`
	Colour   bool           `mapstructure:"colour"`
}

type JournalConfig struct {
	Config `mapstructure:",squash"`
	DBPath string `mapstructure:"db-path" validate:"required"`
}

type RelayConfig struct {
	Config        `mapstructure:",squash"`
	DBPath        string        `mapstructure:"db-path"`
	EthNode       string        `mapstructure:"eth-node" validate:"required,url"`
	StarknetNode  string        `mapstructure:"starknet-node" validate:"required,url"`
	Sender        string        `mapstructure:"sender" validate:"required,felt"`
	ClaimContract string        `mapstructure:"claim-contract" validate:"required,eth_addr"`
	Target        string        `mapstructure:"target" validate:"required,eth_addr"`
	PrivateKey    string        `mapstructure:"private-key"`
	ChainID       uint64        `mapstructure:"chain-id" validate:"required"`
	Workers       int           `mapstructure:"workers" validate:"min=1"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MetricsFile   string        `mapstructure:"metrics-file"`
}

// loadConfig fills cfg from, in decreasing priority, flags, STARKBRIDGE_* environment
// variables and the yaml file named by --config, then validates it.
func loadConfig(cmd *cobra.Command, cfg any) error {
	v := viper.New()
	cfgFile, err := cmd.Flags().GetString(configF)
	if err != nil {
		return err
	}
	if cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return err
	}
	return validator.Validator().Struct(cfg)
}

func newLogger(cfg *Config) (*utils.ZapLogger, error) {
	return utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
}
