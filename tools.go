//go:build tools

package tools

// Pins build tooling so `go run`/`go tool` versions stay in sync across machines.
import (
	_ "github.com/go-task/task/v3/cmd/task"
	_ "github.com/golangci/golangci-lint/v2/cmd/golangci-lint"
)
