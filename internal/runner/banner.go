package runner

import (
	"github.com/projectdiscovery/gologger"
	updateutils "github.com/projectdiscovery/utils/update"
)

var banner = (`
   ___                        _
  / _/_____ _    ___  __ _  (_)__  ___ ____
 / _/ __/  ' \  / _ \/  ' \/ / _ \/ -_) __/
/_/ /_/ /_/_/_//_//_/_/_/_/_/_//_/\__/_/
`)

var version = "v0.0.1"

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tfrequent representative motifs\n\n")
}

// GetUpdateCallback returns a callback function that updates frm-miner
func GetUpdateCallback() func() {
	return func() {
		showBanner()
		updateutils.GetUpdateToolCallback("frm-miner", version)()
	}
}
