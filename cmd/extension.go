package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment passed to extensions, so they operate on the same session.
const (
	EnvSessionID    = "AKKA_SESSION_ID"
	EnvSessionDir   = "AKKA_SESSION_DIR"
	EnvRedisURL     = "AKKA_REDIS_URL"
	EnvBaseCurrency = "AKKA_BASE_CURRENCY"
	EnvVerbose      = "AKKA_VERBOSE"
)

// RunExtension attempts to find and execute an external akka-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "akka-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cfg, err := settings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvSessionID+"="+cfg.SessionID,
		EnvSessionDir+"="+cfg.SessionDir,
		EnvRedisURL+"="+cfg.RedisURL,
		EnvBaseCurrency+"="+cfg.BaseCurrency,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
