package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nooriai/noori"
	"github.com/nooriai/noori/channels/telegram"
	"github.com/nooriai/noori/config"
)

func newTelegramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "telegram",
		Short: "Run the assistant as a Telegram bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Telegram.Token == "" {
				return fmt.Errorf("telegram token not configured (NOORI_TELEGRAM_TOKEN)")
			}

			rt, err := noori.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			channel, err := telegram.New(cfg.Telegram.Token, rt.Assistant, func(o *telegram.Options) {
				o.Logger = rt.Logger.WithComponent("telegram")
			})
			if err != nil {
				return err
			}
			return channel.Run(cmd.Context())
		},
	}
}
