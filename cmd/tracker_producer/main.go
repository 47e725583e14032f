// Copyright (c) 2026 Barsense Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/barsense-tech/vbt_computer/internal/app"
	"github.com/barsense-tech/vbt_computer/internal/config"
)

func main() {
	configPath := flag.String("config", "./vbt_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting vbt-computer tracker producer (encoder → MQTT)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunTrackerProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
