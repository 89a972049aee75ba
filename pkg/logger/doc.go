// Package logger builds *slog.Logger instances for the signup service.
//
// New wires a text or JSON handler, static attributes, a decorator that pulls
// request-scoped values (request id) out of context.Context, and a ReplaceAttr
// hook that masks credentials. Attributes named password, stripeToken,
// payment_token or token are always written as "[HIDDEN]".
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Parse(cfg.AppEnv), cfg.AppName),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "signup requested",
//		logger.Email(req.Email),
//		logger.Plan(req.Plan),
//		slog.String("password", req.Password), // rendered as [HIDDEN]
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
package logger
