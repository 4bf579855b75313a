package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/qlite/qlite"
)

func shellAction(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	historyPath := filepath.Join(os.TempDir(), ".qlite_history")

	fmt.Printf("Connected to %s\n", db.Path())
	fmt.Println(`Enter ".help" for usage hints and ".quit" or CTRL+C to quit`)

	for {
		input := prompt(db, historyPath)

		switch {
		case input == "":
			continue
		case input == ".quit" || input == ".exit" || input == "exit":
			return nil
		case input == ".help":
			printHelp()
			continue
		case input == ".tables":
			listTables(db)
			continue
		case input == ".lastid":
			fmt.Println(db.LastInsertID())
			continue
		case strings.HasPrefix(input, "."):
			fmt.Println("Unknown command, type .help for usage hints")
			continue
		}

		runInput(db, input)
	}
}

// runInput routes result-producing statements through fetch+render and
// everything else through Exec.
func runInput(db *qlite.Database, input string) {
	stmt := db.Prepare(input)
	if !stmt.Valid() {
		color.Red("error: statement did not compile")
		return
	}
	defer stmt.Close()

	if stmt.ColCount() == 0 {
		stmt.Close()
		if db.Exec(input) {
			color.Green("ok")
		} else {
			color.Red("error")
		}
		return
	}

	names := make([]string, 0, stmt.ColCount())
	for i := 0; i < stmt.ColCount(); i++ {
		names = append(names, stmt.ColName(i))
	}
	rows := stmt.FetchAll()
	fmt.Println(renderRows(names, rows))
	fmt.Printf("%d row(s)\n", len(rows))
}

func listTables(db *qlite.Database) {
	found := false
	db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`, func(row qlite.Row) bool {
		fmt.Println(row["name"].Text())
		found = true
		return true
	})
	if !found {
		fmt.Println("no tables")
	}
}

func printHelp() {
	fmt.Println(`.help     show this help
.tables   list table names
.lastid   print the last auto-generated row id
.quit     exit the shell

Anything else is run as SQL. Statements with result columns print a
table; everything else reports ok or error.`)
}

// prompt reads one line with history, in the manner of the sqlite3 shell.
func prompt(db *qlite.Database, historyPath string) string {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if file, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	input, err := line.Prompt(filepath.Base(db.Path()) + "> ")
	if err != nil {
		// CTRL+C or EOF both end the session.
		return ".quit"
	}

	line.AppendHistory(input)
	if file, err := os.Create(historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(input)
}
