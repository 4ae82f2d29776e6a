package main

import (
	"flag"
	"fmt"

	"github.com/astaxie/beego/config"
	"github.com/sains1/flashapi/app/lib/http"
)

type ServerConfig struct {
	Port          int
	ConfigFile    string
	Debug         bool
	StrictMethods bool
	Sequential    bool
	Store         string
	RedisAddr     string
	RedisPoolSize int
}

// parseArgs reads the flags and, when -config names an ini file, fills in every
// flag that was not given on the command line from that file.
func parseArgs(args []string) (ServerConfig, error) {
	var conf ServerConfig

	fs := flag.NewFlagSet("flashapi", flag.ContinueOnError)
	fs.IntVar(&conf.Port, "port", http.DefaultPort, "port to listen on")
	fs.StringVar(&conf.ConfigFile, "config", "", "optional ini file with the same keys as the flags")
	fs.BoolVar(&conf.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&conf.StrictMethods, "strict-methods", false, "answer unknown request methods with 405 instead of treating them as GET")
	fs.BoolVar(&conf.Sequential, "sequential", false, "serve one connection at a time")
	fs.StringVar(&conf.Store, "store", "memory", "user store: memory or redis")
	fs.StringVar(&conf.RedisAddr, "redis-addr", "127.0.0.1:6379", "redis address for -store redis")
	fs.IntVar(&conf.RedisPoolSize, "redis-pool-size", 8, "maximum idle redis connections")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	if conf.ConfigFile != "" {
		if err := applyConfigFile(&conf, fs); err != nil {
			return ServerConfig{}, err
		}
	}

	if conf.Store != "memory" && conf.Store != "redis" {
		return ServerConfig{}, fmt.Errorf("unknown store %q, expected memory or redis", conf.Store)
	}

	return conf, nil
}

func applyConfigFile(conf *ServerConfig, fs *flag.FlagSet) error {
	ac, err := config.NewConfig("ini", conf.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", conf.ConfigFile, err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if !set["port"] {
		conf.Port = ac.DefaultInt("port", conf.Port)
	}
	if !set["debug"] {
		conf.Debug = ac.DefaultBool("debug", conf.Debug)
	}
	if !set["strict-methods"] {
		conf.StrictMethods = ac.DefaultBool("strict_methods", conf.StrictMethods)
	}
	if !set["sequential"] {
		conf.Sequential = ac.DefaultBool("sequential", conf.Sequential)
	}
	if !set["store"] {
		conf.Store = ac.DefaultString("store", conf.Store)
	}
	if !set["redis-addr"] {
		conf.RedisAddr = ac.DefaultString("redis_addr", conf.RedisAddr)
	}
	if !set["redis-pool-size"] {
		conf.RedisPoolSize = ac.DefaultInt("redis_pool_size", conf.RedisPoolSize)
	}

	return nil
}

func (c ServerConfig) methodPolicy() http.MethodPolicy {
	if c.StrictMethods {
		return http.MethodStrict
	}
	return http.MethodFallbackGet
}

func (c ServerConfig) serveMode() http.ServeMode {
	if c.Sequential {
		return http.ServeSequential
	}
	return http.ServeConcurrent
}
