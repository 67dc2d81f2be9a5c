package redis

import "fmt"

// Redis key patterns for the application
// Following the pattern: entity:id or entity:id:attribute

// Bot state keys

func BotTradesKey(botID string) string {
	return fmt.Sprintf("bot:%s:trades", botID)
}

func BotMetricsKey(botID string) string {
	return fmt.Sprintf("bot:%s:metrics", botID)
}

func AllBotsKey() string {
	return "bots:all"
}

// Rate limit keys

func RateLimitKey(identifier, scope string) string {
	return fmt.Sprintf("rate_limit:%s:%s", scope, identifier)
}

// WebSocket pub/sub channels

func WSBroadcastChannel() string {
	return "ws:broadcast"
}
