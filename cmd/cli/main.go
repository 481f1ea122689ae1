package main

import (
	"context"
	"log"
	"os"

	"github.com/R3yz0n/beyond-pad/internal/buildinfo"
	"github.com/R3yz0n/beyond-pad/internal/client/cli"
	"github.com/R3yz0n/beyond-pad/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
