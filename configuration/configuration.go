package configuration

import (
	"time"
)

type Configuration struct {
	HttpAddr          string        `usage:"HTTP address"`
	TickInterval      time.Duration `usage:"period of the pool update routine, zero disables it"`
	DefaultCapacity   int           `usage:"capacity for pools created without one"`
	DefaultTTL        time.Duration `usage:"ttl for pools created without one, zero means slots never expire"`
	EnableCompression bool          `usage:"gzip responses when the client accepts it"`
	ApiKey            string        `usage:"value expected in X-Api-Key, empty disables authentication"`
	ApiSecret         string        `usage:"value expected in X-Api-Secret"`
	Version           bool          `usage:"show version and exit"`
	ShowBanner        bool          `usage:"show big banner"`
	ShowConfig        bool          `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:          "127.0.0.1:8080",
		TickInterval:      100 * time.Millisecond,
		DefaultCapacity:   1024,
		DefaultTTL:        0,
		EnableCompression: true,
		ApiKey:            "",
		ApiSecret:         "",
		Version:           false,
		ShowBanner:        true,
		ShowConfig:        false,
	}
}
