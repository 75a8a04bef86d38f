package contextdir

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresDirectory reads the context-to-course mapping mirrored from the
// host into the integrity_contexts table.
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory.
func NewPostgres(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) ContextIDsForCourses(ctx context.Context, courseIDs []int64) ([]int64, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT context_id FROM integrity_contexts
		 WHERE course_id = ANY($1)
		 ORDER BY context_id`,
		pq.Array(courseIDs))
	if err != nil {
		return nil, fmt.Errorf("list contexts for courses: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan context id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contexts: %w", err)
	}
	return out, nil
}
