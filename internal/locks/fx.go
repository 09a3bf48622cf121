package locks

import (
	"strings"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/picksmart/storesync/internal/config"
)

func NewKeyedLocker(cfg config.Config, log *zap.Logger) KeyedLocker {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Named("locks").Info("no redis address configured, using in-process keyed locker")
		return NewLocalLocker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisLocker(client)
}

var Module = fx.Module("locks",
	fx.Provide(NewKeyedLocker),
)
