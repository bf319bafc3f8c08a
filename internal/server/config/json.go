package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/contactgain/contactgain/internal/flagx"
	"github.com/contactgain/contactgain/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which parses both
// string values such as "5h" and integer nanoseconds. After unmarshalling,
// its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	RetentionWindow  timex.Duration `json:"retention_window"`
	GCInterval       timex.Duration `json:"gc_interval"`
	VCFBaseLabel     string         `json:"vcf_base_label"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RetentionWindow = time.Duration(c.RetentionWindow.Duration)
	config.GCInterval = time.Duration(c.GCInterval.Duration)
	config.VCFBaseLabel = c.VCFBaseLabel
}
