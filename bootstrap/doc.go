// Package bootstrap orchestrates the lifecycle of resultkit services.
//
// App is the generic lifecycle: typed config, logger, DI container,
// component registry and startup/shutdown hooks. On start it installs the
// process-wide result message provider, preferring one registered in the
// container under di.Names.Messages, then the messages section of the
// config, then the defaults.
//
// Service builds the standard infrastructure on top of App from an
// AppConfig:
//
//	cfg, err := bootstrap.LoadAppConfig("resultd")
//	svc, err := bootstrap.NewService(cfg)
//	svc.Database.WithAutoMigrate(&users.User{})
//	svc.OnConfigure(func(ctx context.Context, a *bootstrap.App[*bootstrap.AppConfig]) error {
//	    users.Register(svc.Server.GinEngine(), ...)
//	    return nil
//	})
//	err = svc.Run(ctx)
package bootstrap
