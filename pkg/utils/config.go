// Package utils contains various common utils separate by utility types
package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron"
)

// PersisterType is the type of persister to use.
type PersisterType int

const (
	// PersisterTypeInvalid is an invalid persister value
	PersisterTypeInvalid PersisterType = iota

	// PersisterTypeNone is a persister that does nothing but return default values
	PersisterTypeNone

	// PersisterTypePostgresql is a persister that uses PostgreSQL as the backend
	PersisterTypePostgresql
)

var (
	// PersisterNameToType maps valid persister names to the types above
	PersisterNameToType = map[string]PersisterType{
		"none":       PersisterTypeNone,
		"postgresql": PersisterTypePostgresql,
	}
)

const (
	envVarPrefix = "mailer"

	usageListFormat = `The mailer node is configured via environment vars only. The following environment variables can be used:
{{range .}}
{{usage_key .}}
  description: {{usage_description .}}
  type:        {{usage_type .}}
  default:     {{usage_default .}}
  required:    {{usage_required .}}
{{end}}
`
)

// NOTE: After envconfig populates NodeConfig with the environment vars,
// there is nothing preventing the NodeConfig fields from being mutated.

// NodeConfig is the master config for the mailer node derived from environment
// variables.
type NodeConfig struct {
	CronConfig      string `envconfig:"cron_config" required:"true" desc:"Cron config string * * * * *"`
	ChainID         int64  `split_words:"true" required:"true" desc:"Chain id bound into signed payloads"`
	ContractAddress string `split_words:"true" required:"true" desc:"Protocol (diamond) address"`
	OwnerAddress    string `split_words:"true" required:"true" desc:"Contract owner address"`
	EthAPIURL       string `envconfig:"eth_api_url" desc:"Ethereum API address, when token transfers go to a real chain"`
	EthPrivateKey   string `split_words:"true" desc:"Hex private key signing token transfers when an eth API is set"`

	PersisterType            PersisterType `ignored:"true"`
	PersisterTypeName        string        `split_words:"true" required:"true" desc:"Sets the persister type to use"`
	PersisterPostgresAddress string        `split_words:"true" desc:"If persister type is Postgresql, sets the address"`
	PersisterPostgresPort    int           `split_words:"true" desc:"If persister type is Postgresql, sets the port"`
	PersisterPostgresDbname  string        `split_words:"true" desc:"If persister type is Postgresql, sets the database name"`
	PersisterPostgresUser    string        `split_words:"true" desc:"If persister type is Postgresql, sets the database user"`
	PersisterPostgresPw      string        `split_words:"true" desc:"If persister type is Postgresql, sets the database password"`
}

// OutputUsage prints the usage string to os.Stdout
func (c *NodeConfig) OutputUsage() {
	tabs := tabwriter.NewWriter(os.Stdout, 1, 0, 4, ' ', 0)
	_ = envconfig.Usagef(envVarPrefix, c, tabs, usageListFormat) // nolint: gosec
	_ = tabs.Flush()                                             // nolint: gosec
}

// PopulateFromEnv processes the environment vars, populates NodeConfig
// with the respective values, and validates the values.
func (c *NodeConfig) PopulateFromEnv() error {
	err := envconfig.Process(envVarPrefix, c)
	if err != nil {
		return err
	}

	err = c.validateCronConfig()
	if err != nil {
		return err
	}

	err = c.validateAPIURL()
	if err != nil {
		return err
	}

	err = c.populatePersisterType()
	if err != nil {
		return err
	}

	return c.validatePersister()
}

func (c *NodeConfig) validateCronConfig() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(c.CronConfig)
	if err != nil {
		return fmt.Errorf("Invalid cron config: '%v'", c.CronConfig)
	}
	return nil
}

func (c *NodeConfig) validateAPIURL() error {
	if c.EthAPIURL == "" {
		return nil
	}
	if !IsValidEthAPIURL(c.EthAPIURL) {
		return fmt.Errorf("Invalid eth API URL: '%v'", c.EthAPIURL)
	}
	if c.EthPrivateKey == "" {
		return errors.New("Eth private key required with an eth API URL")
	}
	return nil
}

func (c *NodeConfig) validatePersister() error {
	var err error
	if c.PersisterType == PersisterTypePostgresql {
		err = c.validatePostgresqlPersister()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *NodeConfig) validatePostgresqlPersister() error {
	if c.PersisterPostgresAddress == "" {
		return errors.New("Postgresql address required")
	}
	if c.PersisterPostgresPort == 0 {
		return errors.New("Postgresql port required")
	}
	if c.PersisterPostgresDbname == "" {
		return errors.New("Postgresql db name required")
	}
	return nil
}

func (c *NodeConfig) populatePersisterType() error {
	var err error
	c.PersisterType, err = PersisterTypeFromName(c.PersisterTypeName)
	return err
}

// PersisterTypeFromName returns the correct persisterType from the string name
func PersisterTypeFromName(typeStr string) (PersisterType, error) {
	pType, ok := PersisterNameToType[typeStr]
	if !ok {
		validNames := make([]string, len(PersisterNameToType))
		index := 0
		for name := range PersisterNameToType {
			validNames[index] = name
			index++
		}
		return PersisterTypeInvalid,
			fmt.Errorf("Invalid persister value: %v; valid types %v", typeStr, validNames)
	}
	return pType, nil
}

// IsValidEthAPIURL returns true if the given string is a well-formed http(s)
// or ws(s) endpoint URL
func IsValidEthAPIURL(url string) bool {
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(url, prefix) && len(url) > len(prefix) {
			return true
		}
	}
	return false
}
