package runner

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/gologger"
	fileutil "github.com/projectdiscovery/utils/file"

	frm "github.com/steenrotsman/frm-miner"
)

func getUserHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}

func init() {
	defaultCfg := frm.DefaultConfigFilePath
	// create default config.yaml if it does not exist
	if fileutil.FileExists(defaultCfg) {
		// if it exists use that data as defaults
		if bin, err := os.ReadFile(defaultCfg); err == nil {
			var cfg frm.Config
			if errx := yaml.Unmarshal(bin, &cfg); errx == nil {
				frm.DefaultOptions = cfg.Options
				return
			} else {
				gologger.Error().Msgf("frm-miner yaml configuration syntax error.\n %v\n.", yaml.FormatError(errx, true, true))
				os.Exit(1)
			}
		}
	}
	if err := validateDir(filepath.Join(getUserHomeDir(), ".config/frm-miner")); err != nil {
		gologger.Error().Msgf("frm-miner config dir not found and failed to create got: %v", err)
		return
	}
	if err := frm.GenerateSample(defaultCfg); err != nil {
		gologger.Error().Msgf("failed to save default config to %v got: %v", defaultCfg, err)
	}
}

// validateDir checks if dir exists if not creates it
func validateDir(dirPath string) error {
	if fileutil.FolderExists(dirPath) {
		return nil
	}
	return fileutil.CreateFolder(dirPath)
}
