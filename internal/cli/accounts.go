package cli

import (
	"context"
	"fmt"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
)

func (a *App) runAccounts(ctx context.Context, pos []string) error {
	if len(pos) != 1 || pos[0] != "list" {
		return fmt.Errorf("usage: accounts list: %w", common.ErrBadConfig)
	}

	accounts, err := a.b.ListAccounts(ctx)
	if err != nil {
		return err
	}
	if a.cfg.JSON {
		return printJSON(a.out, accounts)
	}
	lines := make([]string, 0, len(accounts))
	for _, acct := range accounts {
		lines = append(lines, acct.Name)
	}
	printLines(a.out, lines)
	return nil
}
