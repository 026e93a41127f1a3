package notesdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/dbx"
)

type folderRow struct {
	pk       int64
	name     string
	parentPK *int64
}

func folderRows(ctx context.Context, q dbx.DBTX, accountPK int64) (map[int64]folderRow, error) {
	rows, err := q.QueryContext(ctx, `
SELECT Z_PK, COALESCE(ZNAME, ZTITLE2, 'Untitled'), ZPARENT
FROM ZICCLOUDSYNCINGOBJECT
WHERE Z_ENT = ?
  AND ZACCOUNT8 = ?
`, entFolder, accountPK)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	byPK := make(map[int64]folderRow)
	for rows.Next() {
		var (
			r      folderRow
			parent sql.NullInt64
		)
		if err := rows.Scan(&r.pk, &r.name, &parent); err != nil {
			return nil, err
		}
		if parent.Valid {
			r.parentPK = &parent.Int64
		}
		byPK[r.pk] = r
	}
	return byPK, rows.Err()
}

// folderPath walks parent pointers from pk toward the root, iteratively,
// carrying a visited set keyed by pk. Revisiting a pk before reaching a
// null parent is a cycle and fails; a parent pointing at a pk absent from
// the table is treated as the root, truncating the path there rather than
// failing the whole listing for one dangling link.
func folderPath(byPK map[int64]folderRow, pk int64) ([]string, error) {
	var parts []string
	seen := make(map[int64]struct{})
	current := pk
	for {
		if _, ok := seen[current]; ok {
			return nil, fmt.Errorf("%w at pk %d", common.ErrFolderCycle, current)
		}
		seen[current] = struct{}{}

		row, ok := byPK[current]
		if !ok {
			return nil, fmt.Errorf("unknown folder pk %d: %w", current, common.ErrNotFound)
		}
		parts = append(parts, row.name)

		if row.parentPK == nil {
			break
		}
		if _, ok := byPK[*row.parentPK]; !ok {
			// Dangling parent pointer: treat this folder as a root.
			break
		}
		current = *row.parentPK
	}

	// Accumulated leaf-first; flip to root-first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts, nil
}
