package main

import (
	"github.com/projectdiscovery/gologger"

	"github.com/steenrotsman/frm-miner/internal/runner"
)

func main() {
	opts := runner.ParseFlags()

	r, err := runner.New(opts)
	if err != nil {
		gologger.Fatal().Msgf("failed to create runner got %v", err)
	}
	if err := r.Run(); err != nil {
		gologger.Fatal().Msgf("failed to mine motifs got %v", err)
	}
}
