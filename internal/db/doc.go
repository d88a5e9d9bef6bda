// Package db is the persistence layer shared by the bot and the web panel.
//
// Every configuration domain (general login, bot settings, one per media
// integration) lives in its own single-row table keyed by SentinelID. A
// Database owns the connection and hands out one cached Model per domain via
// GetSettings; callers mutate the returned model and call Save to persist it.
//
//	database := db.New("WebSettings", db.WithDataDirectory("data"))
//	if err := database.Open(ctx); err != nil {
//		return err
//	}
//	defer database.Close()
//
//	bot, err := database.GetSettings(ctx, models.DomainBot)
//	if err != nil {
//		return err
//	}
//	prefix := bot.GetOrDefault("commandprefix", "!")
package db
