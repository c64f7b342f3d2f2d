package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/notium/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the local credential database",
	Long: `Inspect the schema and contents of the local credential database.

Stored values are redacted: only their length and first characters are shown.

Examples:
  notium inspect                            # Inspect the configured database
  notium inspect /path/to/notium.db         # Inspect a specific database
  notium inspect --format json              # JSON output`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := storagePath
		if len(args) > 0 {
			dbPath = args[0]
		}
		if dbPath == "" {
			cfg, err := internal.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if dbPath, err = cfg.StoragePath(); err != nil {
				return err
			}
		}

		report, err := inspectDatabase(dbPath)
		if err != nil {
			return err
		}

		switch inspectFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "text":
			printInspectReport(cmd.OutOrStdout(), report)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}
	},
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// TableReport is the inspected shape of one table
type TableReport struct {
	Name    string       `json:"name"`
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// EntryReport is one redacted key/value entry
type EntryReport struct {
	Key    string `json:"key"`
	Length int    `json:"length"`
	Prefix string `json:"prefix"`
}

// InspectReport is the result of inspecting a credential database
type InspectReport struct {
	Path    string        `json:"path"`
	Tables  []TableReport `json:"tables"`
	Entries []EntryReport `json:"entries"`
}

func inspectDatabase(dbPath string) (*InspectReport, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, &internal.StorageError{Path: dbPath, Op: "open", Err: err}
	}

	db, err := internal.OpenDatabase(dbPath)
	if err != nil {
		return nil, &internal.StorageError{Path: dbPath, Op: "open", Err: err}
	}
	defer func() { _ = db.Close() }()

	tables, err := getTables(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}

	report := &InspectReport{Path: dbPath}
	for _, name := range tables {
		t := TableReport{Name: name}
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&t.Rows); err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", name, err)
		}
		if t.Columns, err = getTableSchema(db, name); err != nil {
			return nil, fmt.Errorf("failed to get schema of %s: %w", name, err)
		}
		report.Tables = append(report.Tables, t)
	}

	if report.Entries, err = getEntries(db); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return report, nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func getEntries(db *sql.DB) ([]EntryReport, error) {
	rows, err := db.Query("SELECT key, value FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []EntryReport
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries = append(entries, EntryReport{Key: key, Length: len(value), Prefix: redact(value)})
	}
	return entries, rows.Err()
}

// redact keeps at most the first 6 characters of secrets longer than 12
func redact(value string) string {
	if len(value) <= 12 {
		return "…"
	}
	return value[:6] + "…"
}

func printInspectReport(w io.Writer, r *InspectReport) {
	fmt.Fprintf(w, "Database: %s\n", r.Path)
	fmt.Fprintf(w, "Found %d table(s)\n\n", len(r.Tables))

	for _, t := range r.Tables {
		fmt.Fprintln(w, headerStyle.Render("Table: "+t.Name))
		fmt.Fprintf(w, "Rows: %d\n", t.Rows)
		fmt.Fprintln(w, "Schema:")
		for _, col := range t.Columns {
			pk := ""
			if col.PrimaryKey {
				pk = " [PRIMARY KEY]"
			}
			notNull := ""
			if col.NotNull {
				notNull = " NOT NULL"
			}
			fmt.Fprintf(w, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
		}
		fmt.Fprintln(w)
	}

	if len(r.Entries) == 0 {
		fmt.Fprintln(w, idStyle.Render("No stored entries"))
		return
	}
	fmt.Fprintln(w, "Entries:")
	for _, e := range r.Entries {
		fmt.Fprintf(w, "  • %s: %s (%d chars)\n", e.Key, e.Prefix, e.Length)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
}
