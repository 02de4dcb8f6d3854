package main

import (
	"context"
	"log"

	"github.com/hzh666kevin-hue/spc/internal/cli"
	"github.com/hzh666kevin-hue/spc/internal/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
