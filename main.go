package main

import (
	"context"
	"log"

	"github.com/albt6x/rent-a-camera/app"
	"github.com/albt6x/rent-a-camera/config"
	"github.com/albt6x/rent-a-camera/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	if err := app.BootstrapFirstAdmin(context.Background(), application.Config, application.Repo); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	// Email delivery runs off a queue so lifecycle transitions never
	// wait on SMTP.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go application.Mailer.Start(ctx)

	routes.RegisterRoutes(application.Router, application)

	log.Printf("listening on :%s", application.Config.Port)
	_ = application.Router.Run(":" + application.Config.Port)
}
