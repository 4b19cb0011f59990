package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-shellwords"
)

var errShellExit = errors.New("kong exit inside shell")

type ShellCmd struct{}

// Run reads one command per line. Every line runs against the same cache, so
// a list fetched once is served from memory until a mutation invalidates it.
// After each line the entries it changed or removed are printed.
func (c *ShellCmd) Run(ctx context.Context, con *console) error {
	interactive := false
	if f, ok := con.stdin.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd())
	}

	scanner := bufio.NewScanner(con.stdin)
	for {
		if interactive {
			fmt.Fprint(con.stdout, "clubadmin> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		args, err := splitArgs(line)
		if err != nil {
			con.out.Error(err)
			continue
		}

		before := con.cache.Store().Entries()
		if err := runLine(ctx, con, args); err != nil {
			con.out.Error(err)
		}
		printChanges(con, before, con.cache.Store().Entries())

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runLine(ctx context.Context, con *console, args []string) (err error) {
	var commands Commands
	parser, err := kong.New(&commands,
		kong.Name("clubadmin"),
		cliVars(),
		kong.Writers(con.stdout, con.stdout),
		// Help and usage errors must not end the shell
		kong.Exit(func(int) { panic(errShellExit) }),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(con),
	)
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if r != errShellExit {
				panic(r)
			}
			err = nil
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run()
}

// printChanges reports the entries that were cached before a command and that
// the command changed or removed.
func printChanges(con *console, before, after []cache.Entry) {
	current := make(map[string]cache.Entry, len(after))
	for _, entry := range after {
		current[entry.Key.String()] = entry
	}

	for _, old := range before {
		key := old.Key.String()
		entry, ok := current[key]
		switch {
		case !ok:
			con.out.Update(key, "removed", false, false, old.Version, nil)
		case entry.Version != old.Version:
			con.out.Update(key, entry.Status.String(), entry.Stale, entry.Fetching, entry.Version, entry.Err)
		}
	}
}

// splitArgs splits a shell line into arguments. Quotes group words and a
// backslash escapes the next character. Operators such as | and ; are
// rejected since the shell runs exactly one command per line.
func splitArgs(line string) ([]string, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("could not split %q: %w", line, err)
	}
	if parser.Position >= 0 {
		return nil, fmt.Errorf("unsupported shell operator in %q", line)
	}
	return args, nil
}
