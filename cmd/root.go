package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ProjectsTask/EasySwapMarket/config"
)

const defaultConfigPath = "./config/config.toml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "easyswap-market",
	Short: "nft marketplace fee, royalty and settlement engine.",
	Long:  "nft marketplace fee, royalty and settlement engine with bids, offers, collection bids, auctions and master key dividends.",
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.easyswap-market/config.toml or "+defaultConfigPath+")")
}

// initConfig 确定配置文件路径, 环境变量 EASYSWAP_* 覆盖文件中的值
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		path := filepath.Join(home, ".easyswap-market", "config.toml")
		if _, err := os.Stat(path); err != nil {
			path = defaultConfigPath
		}
		viper.SetConfigFile(path)
	}
	viper.SetConfigType("toml")
	config.SetupCmdEnv()
}
