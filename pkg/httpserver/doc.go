// Package httpserver runs an http.Handler with sane timeouts and graceful
// shutdown, and provides liveness/readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns when ctx is cancelled, SIGINT/SIGTERM is received or Shutdown is
// called; in-flight requests get ShutdownTimeout to finish.
package httpserver
