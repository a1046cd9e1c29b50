// Relay CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/relay/internal/dagger"
)

// Relay is the main module for the Relay CI/CD pipeline
type Relay struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Relay CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Relay {
	return &Relay{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with the Go
// caches mounted and the project source in place.
//
// It is the shared foundation for tests, builds, and linting.
func (t *Relay) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", t.Source)
}

// Test runs the relay unit tests via "go test"
func (t *Relay) Test(ctx context.Context) (string, error) {
	return t.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
