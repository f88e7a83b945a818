package main

import (
	"github.com/eeinoeyes/shopmax-api/internal/app"
	"github.com/eeinoeyes/shopmax-api/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
