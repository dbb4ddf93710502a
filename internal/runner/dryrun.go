package runner

import (
	"context"
	"io"
	"strings"
)

// mutatingGit lists git subcommands that change the repository or
// working tree. Anything else is assumed read-only and allowed to run
// in dry-run mode so the wizard can still show real facts.
var mutatingGit = map[string]bool{
	"add":         true,
	"am":          true,
	"checkout":    true,
	"cherry-pick": true,
	"clean":       true,
	"commit":      true,
	"fetch":       true,
	"merge":       true,
	"pull":        true,
	"push":        true,
	"rebase":      true,
	"reset":       true,
	"restore":     true,
	"revert":      true,
	"rm":          true,
	"stash":       true,
	"switch":      true,
	"tag":         true,
}

// IsMutatingGit reports whether a git invocation would modify the repo.
// `git branch` mutates with a delete/move/copy flag or with positional
// arguments (the creation form); flag-only invocations are listings.
func IsMutatingGit(args []string) bool {
	if len(args) == 0 {
		return false
	}
	if args[0] == "branch" {
		for _, a := range args[1:] {
			switch a {
			case "-d", "-D", "-m", "-M", "-c", "-C", "--delete", "--move", "--copy":
				return true
			}
		}
		for _, a := range args[1:] {
			if !strings.HasPrefix(a, "-") {
				return true
			}
		}
		return false
	}
	return mutatingGit[args[0]]
}

// DryRunner wraps a real Runner. Mutating git commands are logged and
// simulated as successful no-ops; everything else passes through.
type DryRunner struct {
	Real Runner
	Logf func(format string, a ...any)
}

// NewDryRunner returns a Runner for --dry-run mode.
func NewDryRunner(real Runner, logf func(format string, a ...any)) *DryRunner {
	return &DryRunner{Real: real, Logf: logf}
}

func (d *DryRunner) Run(dir, name string, args ...string) (string, error) {
	if name == "git" && IsMutatingGit(args) {
		d.log(name, args)
		return "", nil
	}
	return d.Real.Run(dir, name, args...)
}

func (d *DryRunner) RunStream(ctx context.Context, w io.Writer, dir, name string, args ...string) error {
	if name == "git" && IsMutatingGit(args) {
		d.log(name, args)
		return nil
	}
	return d.Real.RunStream(ctx, w, dir, name, args...)
}

func (d *DryRunner) log(name string, args []string) {
	if d.Logf != nil {
		d.Logf("Would run: %s %s", name, strings.Join(args, " "))
	}
}
