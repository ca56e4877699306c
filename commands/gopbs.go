// Package commands implements the gopbs command line interface built on
// Cobra, with configuration binding handled by Viper.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prisms-center/gopbs/config"
	"github.com/prisms-center/gopbs/log"
)

// RootCmd is the root of gopbs commands tree
var RootCmd = &cobra.Command{
	Use:   "gopbs",
	Short: "A PBS batch job toolkit",
	Long: `gopbs renders structured job specifications as qsub submit scripts,
parses submit scripts back, submits them to a local or remote qsub and
records submitted jobs in a Consul-backed job database.
`,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			fmt.Print(err)
		}
	},
}

var cfgFile string
var noColor bool

func init() {
	setConfig()
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugln("Using config file:", viper.ConfigFileUsed())
	} else {
		log.Debugln("Config not found... ")
	}
	if viper.GetBool("debug") {
		log.SetDebug(true)
	}
}

func setConfig() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is /etc/gopbs/config.gopbs.json)")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloring output")
	RootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	RootCmd.PersistentFlags().StringP("working_directory", "w", "", "Directory submit scripts are written to and submitted from")
	RootCmd.PersistentFlags().String("qsub_path", config.DefaultQsubPath, "Path to the qsub submission binary")

	// Flags definition for the remote scheduler front-end
	RootCmd.PersistentFlags().StringP("ssh_user_name", "u", "", "The username to authenticate on the cluster front-end")
	RootCmd.PersistentFlags().String("ssh_url", "", "Address of the cluster front-end, submit locally if unset")
	RootCmd.PersistentFlags().Int("ssh_port", config.DefaultSSHPort, "Port of the SSH server on the cluster front-end")
	RootCmd.PersistentFlags().String("ssh_private_key", "", "Path to or content of the private key used to authenticate")
	RootCmd.PersistentFlags().String("ssh_password", "", "Password used to authenticate when no private key is given")

	// Flags definition for Consul
	RootCmd.PersistentFlags().String("consul_address", "", "Address of the HTTP interface for Consul (format: <host>:<port>)")
	RootCmd.PersistentFlags().StringP("consul_token", "t", "", "The token by default")
	RootCmd.PersistentFlags().StringP("consul_datacenter", "d", "", "The datacenter of Consul node")

	viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("working_directory", RootCmd.PersistentFlags().Lookup("working_directory"))
	viper.BindPFlag("qsub_path", RootCmd.PersistentFlags().Lookup("qsub_path"))
	viper.BindPFlag("ssh_user_name", RootCmd.PersistentFlags().Lookup("ssh_user_name"))
	viper.BindPFlag("ssh_url", RootCmd.PersistentFlags().Lookup("ssh_url"))
	viper.BindPFlag("ssh_port", RootCmd.PersistentFlags().Lookup("ssh_port"))
	viper.BindPFlag("ssh_private_key", RootCmd.PersistentFlags().Lookup("ssh_private_key"))
	viper.BindPFlag("ssh_password", RootCmd.PersistentFlags().Lookup("ssh_password"))
	viper.BindPFlag("consul_address", RootCmd.PersistentFlags().Lookup("consul_address"))
	viper.BindPFlag("consul_token", RootCmd.PersistentFlags().Lookup("consul_token"))
	viper.BindPFlag("consul_datacenter", RootCmd.PersistentFlags().Lookup("consul_datacenter"))

	// Environment Variables
	viper.SetEnvPrefix("gopbs") // will be uppercased automatically - Become "GOPBS_"
	viper.AutomaticEnv()        // read in environment variables that match

	// Setting Defaults
	viper.SetDefault("working_directory", "")
	viper.SetDefault("qsub_path", config.DefaultQsubPath)
	viper.SetDefault("ssh_port", config.DefaultSSHPort)
	viper.SetDefault("consul_address", "") // Use consul api default
	viper.SetDefault("consul_datacenter", config.DefaultConsulDatacenter)

	// Configuration file directories
	viper.SetConfigName("config.gopbs") // name of config file (without extension)
	viper.AddConfigPath("/etc/gopbs/")
	viper.AddConfigPath(".")
}

// GetConfig assembles the configuration from the resolved flags, environment
// variables and config file
func GetConfig() config.Configuration {
	configuration := config.Configuration{}
	configuration.WorkingDirectory = viper.GetString("working_directory")
	configuration.QsubPath = viper.GetString("qsub_path")
	configuration.ConsulAddress = viper.GetString("consul_address")
	configuration.ConsulDatacenter = viper.GetString("consul_datacenter")
	configuration.ConsulToken = viper.GetString("consul_token")
	configuration.Scheduler = config.DynamicMap{
		"user_name":   viper.GetString("ssh_user_name"),
		"url":         viper.GetString("ssh_url"),
		"port":        viper.GetInt("ssh_port"),
		"private_key": viper.GetString("ssh_private_key"),
		"password":    viper.GetString("ssh_password"),
	}
	return configuration
}

func errExit(msg interface{}) {
	fmt.Println(msg)
	os.Exit(1)
}
