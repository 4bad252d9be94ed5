package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Execute implements the go-flags Commander interface for ResetCommand.
func (c *ResetCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("reset requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL stored eventspot data.")
		fmt.Println("  - Favorites")
		fmt.Println("  - Search history")
		fmt.Println("  - Selected region")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Print(`Type "RESET" to confirm: `)

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "RESET" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

func (c *ResetCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	keys, err := env.backend.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	if err := env.backend.PurgeAll(ctx); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	env.audit(ctx, "reset", fmt.Sprintf("removed %d keys: %s", len(keys), strings.Join(keys, ",")))

	// Output
	if wantJSON(c.globals) {
		return printJSON(map[string]any{
			"reset":        true,
			"keys_removed": len(keys),
		})
	}

	fmt.Printf("Removed %d keys. eventspot is back to its defaults.\n", len(keys))
	return nil
}
