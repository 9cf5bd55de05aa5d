// dispatchcheck loads a route file, compiles it, and reports whether a
// given host/path resolves — useful for validating a route file before it
// ships, without standing up the service that would otherwise load it.
//
// Usage:
//
//	dispatchcheck -routes routes.yaml -host api.example.com -path /users/42
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tallyhub/dispatch"
	"github.com/tallyhub/dispatch/config"
)

func main() {
	var (
		routesPath = flag.String("routes", "", "path to a YAML route file (required)")
		host       = flag.String("host", "", "host to resolve")
		path       = flag.String("path", "/", "path to resolve")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *routesPath == "" {
		fmt.Fprintln(os.Stderr, "dispatchcheck: -routes is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*routesPath, *host, *path); err != nil {
		slog.Error("dispatchcheck failed", "error", err)
		os.Exit(1)
	}
}

func run(routesPath, host, path string) error {
	f, err := os.Open(routesPath)
	if err != nil {
		return fmt.Errorf("open route file: %w", err)
	}
	defer f.Close()

	doc, err := config.Load(f)
	if err != nil {
		return fmt.Errorf("load route file: %w", err)
	}

	handlers := stubHandlers(doc)
	routes, err := config.Resolve(doc, handlers)
	if err != nil {
		return fmt.Errorf("resolve route file: %w", err)
	}

	table, err := dispatch.Compile(routes)
	if err != nil {
		return fmt.Errorf("compile routes: %w", err)
	}
	slog.Debug("compiled route table", "hosts", len(table.Hosts()))

	match, err := dispatch.Execute(table, dispatch.HostString(host), dispatch.PathString(path))
	if err != nil {
		var kind string
		switch {
		case dispatch.IsHostNotFound(err):
			kind = "HostNotFound"
		case dispatch.IsPathNotFound(err):
			kind = "PathNotFound"
		case dispatch.IsPathBadRequest(err):
			kind = "PathBadRequest"
		}
		var statusCode int
		if me, ok := err.(*dispatch.MatchError); ok {
			statusCode = me.StatusCode()
		}
		fmt.Printf("no match: %s (status %d)\n", kind, statusCode)
		return nil
	}

	fmt.Printf("matched: handler=%v\n", match.Handler)
	for _, b := range match.Bindings {
		fmt.Printf("  binding %s = %v\n", b.Name, b.Value)
	}
	if match.HostRest != nil {
		fmt.Printf("  host rest = %v\n", match.HostRest)
	}
	if match.PathRest != nil {
		fmt.Printf("  path rest = %v\n", match.PathRest)
	}
	return nil
}

// stubHandlers builds a handler table whose values are the handler name
// strings themselves, since dispatchcheck never invokes a handler, only
// reports which one would have been selected.
func stubHandlers(doc *config.Document) map[string]dispatch.Handler {
	handlers := map[string]dispatch.Handler{}
	for _, h := range doc.Routes {
		for _, p := range h.Paths {
			handlers[p.Handler] = p.Handler
		}
	}
	return handlers
}
