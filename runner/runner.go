// Package runner abstracts the synchronous external tool invocations the
// pipeline depends on (viewer helper scripts, link/compress/index tools).
// All invocations block until the tool exits; a non-zero exit is an error
// and the caller treats it as fatal for the track being processed.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Runner runs one external command to completion.  dir is the working
// directory; when stdout is non-nil the command's standard output is
// streamed to it, otherwise it is discarded.
type Runner interface {
	Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) error
}

// Exec is the os/exec-backed Runner used in production.
type Exec struct{}

// Run implements Runner.
func (Exec) Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) error {
	log.Debug.Printf("cd %s && %s %s", dir, name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.E(err, fmt.Sprintf("%s %s", name, strings.Join(args, " ")))
	}
	return nil
}
