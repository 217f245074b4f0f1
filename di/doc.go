// Package di provides a small keyed dependency injection container.
//
// Components are registered lazily (Register), eagerly (RegisterEager) or as
// ready instances (RegisterSingleton), and read back with type-safe helpers:
//
//	c := di.NewContainer()
//	_ = c.RegisterSingleton(di.Names.Messages, result.StaticMessages{Success: "Done."})
//	msgs, err := di.ResolveAs[result.Messages](c, di.Names.Messages)
//
// bootstrap uses the container to find an application-supplied message
// provider before falling back to configuration.
package di
