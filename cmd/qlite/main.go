package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/qlite/qlite"
	"github.com/qlite/qlite/internal/log"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "qlite",
		Usage:   "inspect and modify SQLite database files",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "path to the database file",
				Required: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "exec",
				Usage:     "run statements without printing result rows",
				ArgsUsage: "SQL",
				Action:    execAction,
			},
			{
				Name:      "query",
				Usage:     "run a query and print the result rows",
				ArgsUsage: "SQL",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "stop after N rows (0 = all)"},
				},
				Action: queryAction,
			},
			{
				Name:   "shell",
				Usage:  "interactive shell",
				Action: shellAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func openDB(c *cli.Context) (*qlite.Database, error) {
	return qlite.Open(c.String("db"), qlite.WithLogger(log.Console()))
}

func execAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("exec takes exactly one SQL argument", 2)
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if !db.Exec(c.Args().First()) {
		return cli.Exit("exec failed", 1)
	}
	color.Green("ok")
	return nil
}

func queryAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("query takes exactly one SQL argument", 2)
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	names, rows, ok := runQuery(db, c.Args().First(), c.Int("limit"))
	if !ok {
		return cli.Exit("query failed", 1)
	}
	fmt.Println(renderRows(names, rows))
	fmt.Printf("%d row(s)\n", len(rows))
	return nil
}

// runQuery fetches up to limit rows (0 means all) and returns the column
// names in declaration order.
func runQuery(db *qlite.Database, sql string, limit int) (names []string, rows []qlite.Row, ok bool) {
	stmt := db.Prepare(sql)
	if !stmt.Valid() {
		return nil, nil, false
	}
	defer stmt.Close()

	for i := 0; i < stmt.ColCount(); i++ {
		names = append(names, stmt.ColName(i))
	}
	for {
		if limit > 0 && len(rows) == limit {
			break
		}
		row := qlite.Row{}
		if !stmt.Fetch(row) {
			break
		}
		rows = append(rows, row)
	}
	return names, rows, true
}
