package config

import (
	"fmt"
	"time"

	"github.com/deusex/market-services/auctiongateway/pkg/auctionstore"
	"github.com/deusex/market-services/auctiongateway/pkg/pay"
	"github.com/spf13/viper"
)

type Config struct {
	API          API                 `mapstructure:"api"`
	AuctionStore auctionstore.Config `mapstructure:"auction_store"`
	Pay          pay.Config          `mapstructure:"pay"`
	Polling      Polling             `mapstructure:"polling"`
	Settlement   Settlement          `mapstructure:"settlement"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Polling struct {
	// ListInterval drives the background auction-list refresh. Detail views
	// recompute remaining time every DetailTick without any network call.
	ListInterval time.Duration `mapstructure:"list_interval"`
	DetailTick   time.Duration `mapstructure:"detail_tick"`
	Disabled     bool          `mapstructure:"disabled"`
}

type Settlement struct {
	// TxScanLimit bounds the transaction-history scan used for the paid check.
	TxScanLimit int `mapstructure:"tx_scan_limit"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	viper.SetDefault("api.port", ":8080")
	viper.SetDefault("polling.list_interval", "50s")
	viper.SetDefault("polling.detail_tick", "1s")
	viper.SetDefault("settlement.tx_scan_limit", 50)

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
