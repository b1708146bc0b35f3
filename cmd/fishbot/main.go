// Command fishbot runs the Telegram shop bot.
package main

import (
	"log"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/fishbot/core/bootstrap"
	corecmd "github.com/m3rciful/fishbot/core/cmd"
	coreconfig "github.com/m3rciful/fishbot/core/config"
	coretelegram "github.com/m3rciful/fishbot/core/telegram"
	"github.com/m3rciful/fishbot/shop/bot"
	"github.com/m3rciful/fishbot/shop/moltin"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		Build: func(cfg *coreconfig.Config, infra *bootstrap.Result) (coretelegram.RunOptions, error) {
			client := moltin.NewClient(moltin.Config{
				BaseURL:      cfg.Moltin.BaseURL,
				ClientID:     cfg.Moltin.ClientID,
				ClientSecret: cfg.Moltin.ClientSecret,
				MediaDir:     cfg.Moltin.MediaDir,
			}, nil)

			return coretelegram.RunOptions{
				Config:      cfg,
				Middlewares: coretelegram.DefaultMiddlewares(),
				Setup: func(tb *tele.Bot) error {
					shop := bot.New(client, infra.Sessions, bot.NewTelebotTransport(tb))
					handler := shop.Handler()
					tb.Handle("/start", handler)
					tb.Handle(tele.OnText, handler)
					tb.Handle(tele.OnCallback, handler)
					return nil
				},
			}, nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
