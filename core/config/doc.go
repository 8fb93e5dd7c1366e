// Package config provides configuration management for family-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file. Defaults come from the `default` struct tags of the
// per-package Config structs.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
