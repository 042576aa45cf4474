package frm

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var DefaultConfigFilePath = filepath.Join(getUserHomeDir(), ".config/frm-miner/config.yaml")

// DefaultOptions are the mining parameters used when a config file or flag
// does not override them.
var DefaultOptions = Options{
	MinSup:     0.5,
	SegLen:     1,
	Alphabet:   5,
	MinLen:     DefaultMinLen,
	MaxOverlap: DefaultMaxOverlap,
}

// Config holds mining options read from a yaml file
type Config struct {
	Options Options `yaml:"options"`
}

// NewConfig reads config from file
func NewConfig(filePath string) (*Config, error) {
	bin, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err = yaml.Unmarshal(bin, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GenerateSample creates a sample yaml file with default values
func GenerateSample(filePath string) error {
	cfg := Config{
		Options: DefaultOptions,
	}
	bin, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0644)
}

func getUserHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}
