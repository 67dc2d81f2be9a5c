package repository

import (
	"context"

	"atb/backend/internal/model"
	"atb/backend/pkg/redis"

	redislib "github.com/redis/go-redis/v9"
)

// BotStateRepository stores the per-bot trade log and metrics in Redis
type BotStateRepository struct {
	redis *redis.Client
}

func NewBotStateRepository(redisClient *redis.Client) *BotStateRepository {
	return &BotStateRepository{
		redis: redisClient,
	}
}

// Load reads the full persisted state. A bot id with no stored data is
// simply absent from the result; a missing index yields an empty state.
func (r *BotStateRepository) Load(ctx context.Context) (*model.BotState, error) {
	state := model.NewBotState()

	botIDs, err := r.redis.SMembers(ctx, redis.AllBotsKey())
	if err != nil {
		return nil, err
	}

	for _, id := range botIDs {
		var trades []model.TradeRecord
		if err := r.redis.GetJSON(ctx, redis.BotTradesKey(id), &trades); err == nil {
			state.BotTrades[id] = trades
		} else if err != redislib.Nil {
			return nil, err
		}

		var stats model.BotStats
		if err := r.redis.GetJSON(ctx, redis.BotMetricsKey(id), &stats); err == nil {
			state.BotMetrics[id] = stats
		} else if err != redislib.Nil {
			return nil, err
		}
	}

	return state, nil
}

// Save writes the full state, one trade-log and metrics key per bot
func (r *BotStateRepository) Save(ctx context.Context, state *model.BotState) error {
	for id, trades := range state.BotTrades {
		if err := r.redis.SetJSON(ctx, redis.BotTradesKey(id), trades, 0); err != nil {
			return err
		}
		if err := r.redis.SAdd(ctx, redis.AllBotsKey(), id); err != nil {
			return err
		}
	}
	for id, stats := range state.BotMetrics {
		if err := r.redis.SetJSON(ctx, redis.BotMetricsKey(id), stats, 0); err != nil {
			return err
		}
		if err := r.redis.SAdd(ctx, redis.AllBotsKey(), id); err != nil {
			return err
		}
	}
	return nil
}
