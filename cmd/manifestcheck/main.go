package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AspirinCode/ODesign/config"
	"github.com/AspirinCode/ODesign/manifest"
	"github.com/AspirinCode/ODesign/transport"
)

// Standalone manifest inspection utility. Resolves assets exactly the way
// the provisioning binary does and prints one line per asset, optionally
// probing which transport would serve each locator. Nothing is downloaded.
func main() {
	manifestPath := flag.String("manifest", "", "Path to a YAML manifest file (built-in set when empty)")
	mode := flag.String("mode", config.ModeInferenceOnly, "Mode string to resolve, compared verbatim")
	probe := flag.Bool("probe", false, "Probe transport availability for each asset")
	flag.Parse()

	set := manifest.DefaultSet()
	if *manifestPath != "" {
		var err error
		set, err = manifest.Load(*manifestPath)
		if err != nil {
			log.Fatalf("Failed to load manifest: %v", err)
		}
	}

	assets := manifest.Resolve(set, *mode)
	if len(assets) == 0 {
		fmt.Println("No assets resolved")
		return
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	chain := transport.Chain(&cfg.Transport)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	unserved := 0
	for _, asset := range assets {
		if !*probe {
			fmt.Printf("%s\t%s\n", asset.Name, asset.URL)
			continue
		}
		tr, err := transport.Select(ctx, chain, asset.URL)
		if err != nil {
			fmt.Printf("%s\t%s\tNO TRANSPORT\n", asset.Name, asset.URL)
			unserved++
			continue
		}
		fmt.Printf("%s\t%s\tvia %s\n", asset.Name, asset.URL, tr.Name())
	}

	if *probe {
		fmt.Printf("Probed %d asset(s) in %s, %d without a transport\n", len(assets), time.Since(start), unserved)
	}
	if unserved > 0 {
		os.Exit(1)
	}
}
