// Package redis connects to the optional Redis instance backing the
// distributed idempotency guard and the shared response cache.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
package redis
