package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // sqlite driver
)

type sqlLoader struct{}

func (sqlLoader) Type() string { return "sql" }

func (sqlLoader) Detect(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "sqlite:") ||
		strings.HasPrefix(s, "postgres:") ||
		strings.HasPrefix(s, "postgresql:")
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

func (sqlLoader) Load(ctx context.Context, d Descriptor) (*dataset.Dataset, error) {
	driver, dsn, err := splitConn(d.Source)
	if err != nil {
		return nil, err
	}
	query := d.Query
	if query == "" {
		if d.Table == "" {
			return nil, fmt.Errorf("sql source needs data.query or data.table")
		}
		if !identRe.MatchString(d.Table) {
			return nil, fmt.Errorf("invalid table name %q", d.Table)
		}
		query = "SELECT * FROM " + d.Table
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	ds, err := dataset.New(cols)
	if err != nil {
		return nil, fmt.Errorf("result columns: %w", err)
	}
	names := ds.Columns()
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(dataset.Row, len(names))
		for i, col := range names {
			row[col] = sqlValue(values[i])
		}
		ds.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ds, nil
}

// splitConn maps a connection string to a database/sql driver and DSN.
// "sqlite:///sales.db" and "sqlite://sales.db" both address the file;
// postgres URLs pass through intact for pgx.
func splitConn(source string) (driver, dsn string, err error) {
	s := strings.ToLower(source)
	switch {
	case strings.HasPrefix(s, "sqlite:"):
		path := strings.TrimPrefix(source[len("sqlite:"):], "//")
		if path == "" {
			return "", "", fmt.Errorf("sqlite connection string %q has no path", source)
		}
		return "sqlite", path, nil
	case strings.HasPrefix(s, "postgres:"), strings.HasPrefix(s, "postgresql:"):
		return "pgx", source, nil
	default:
		return "", "", fmt.Errorf("unsupported connection string %q", source)
	}
}

func sqlValue(v any) dataset.Value {
	switch t := v.(type) {
	case nil:
		return dataset.Null()
	case int64:
		return dataset.Number(float64(t))
	case float64:
		return dataset.Number(t)
	case bool:
		if t {
			return dataset.Text("true")
		}
		return dataset.Text("false")
	case time.Time:
		return dataset.Time(t)
	case []byte:
		return dataset.ParseCell(string(t))
	case string:
		return dataset.ParseCell(t)
	default:
		return dataset.Text(fmt.Sprintf("%v", t))
	}
}
