package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/joestump/rwdb/internal/driver"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver  string
		Charset string
		SSLMode string
	}
	// Servers lists the primary first, then the read replicas.
	Servers []driver.Server
	Verbose bool
}

// Load reads config from environment (RWDB_ prefix) and optional rwdb.yaml.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory for rwdb.yaml and tolerates its absence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RWDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("rwdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // optional config file
	}

	v.SetDefault("http.addr", ":9187")
	v.SetDefault("db.charset", "utf8")
	v.SetDefault("db.sslmode", "disable")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.Charset = v.GetString("db.charset")
	cfg.DB.SSLMode = v.GetString("db.sslmode")
	cfg.Verbose = v.GetBool("verbose")

	if err := v.UnmarshalKey("servers", &cfg.Servers); err != nil {
		return nil, fmt.Errorf("invalid servers: %w", err)
	}
	if len(cfg.Servers) == 0 {
		servers, err := serversFromEnv(v)
		if err != nil {
			return nil, err
		}
		cfg.Servers = servers
	}

	for i := range cfg.Servers {
		if cfg.Servers[i].Charset == "" {
			cfg.Servers[i].Charset = cfg.DB.Charset
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serversFromEnv builds the server list from primary.* keys and the
// comma-separated replicas key. Replicas inherit the primary's credentials.
func serversFromEnv(v *viper.Viper) ([]driver.Server, error) {
	primary := driver.Server{
		Host:     v.GetString("primary.host"),
		User:     v.GetString("primary.user"),
		Password: v.GetString("primary.password"),
		Name:     v.GetString("primary.name"),
		Port:     v.GetInt("primary.port"),
		Charset:  v.GetString("primary.charset"),
	}
	if primary.Host == "" && primary.Name == "" {
		return nil, nil
	}

	servers := []driver.Server{primary}
	for _, addr := range strings.Split(v.GetString("replicas"), ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		replica := primary
		replica.Host, replica.Port = addr, primary.Port
		if host, port, err := net.SplitHostPort(addr); err == nil {
			p, err := strconv.Atoi(port)
			if err != nil {
				return nil, fmt.Errorf("invalid RWDB_REPLICAS entry %q: %w", addr, err)
			}
			replica.Host, replica.Port = host, p
		}
		servers = append(servers, replica)
	}
	return servers, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	case "":
		return fmt.Errorf("RWDB_DB_DRIVER is required (sqlite3, mysql, postgres)")
	default:
		return fmt.Errorf("invalid RWDB_DB_DRIVER %q: must be sqlite3, mysql, or postgres", c.DB.Driver)
	}
	if len(c.Servers) == 0 {
		return fmt.Errorf("at least one server is required (servers list or RWDB_PRIMARY_HOST)")
	}
	for i, s := range c.Servers {
		if c.DB.Driver == "sqlite3" {
			if s.Name == "" {
				return fmt.Errorf("servers[%d].name is required for sqlite3", i)
			}
			continue
		}
		if s.Host == "" {
			return fmt.Errorf("servers[%d].host is required", i)
		}
	}
	return nil
}
