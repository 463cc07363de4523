// Package host provides an in-process container tree that emits the
// lifecycle events defined in package event.
//
// The tree is Server > Service > Engine > Host > Context. Starting a
// container emits BeforeStart, starts its children in insertion order,
// emits Start and then AfterStart. Stopping mirrors this with children in
// reverse order. Adding a child to a running container starts the child.
//
//	srv := host.NewServer("main")
//	svc := host.NewService("Catalina")
//	eng := host.NewEngine("Catalina", logger)
//	vh := host.NewHost("localhost")
//	app := host.NewContext("/app", "/srv/app", classpath.StaticLoader{"file:/srv/app/"})
//	_ = srv.AddChild(ctx, svc)
//	_ = svc.AddChild(ctx, eng)
//	_ = eng.AddChild(ctx, vh)
//	_ = vh.AddChild(ctx, app)
//	err := srv.Start(ctx)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package host
