// Command partsadmin is an interactive maintenance console for the
// parts inventory database. It drives the same store operations as the
// HTTP API, directly against the SQLite file.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meowmeowahr/partsinventory/internal/db"
	"github.com/meowmeowahr/partsinventory/internal/model"
	"github.com/meowmeowahr/partsinventory/internal/store"
)

func main() {
	fs := flag.NewFlagSet("partsadmin", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "partsdb.sqlite", "")
	fs.StringVar(&dbPath, "d", "partsdb.sqlite", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: partsadmin [flags]

Flags:
  -d, -db <path>   SQLite database path (default: partsdb.sqlite)
  -h, -help        show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	console := &console{in: bufio.NewScanner(os.Stdin), db: database}
	console.run()
}

type console struct {
	in *bufio.Scanner
	db *sql.DB
}

func (c *console) run() {
	ctx := context.Background()
	fmt.Println("Parts inventory database console")

	for {
		fmt.Print(`
What would you like to do?
 1) Create location     5) Create sorter     9) Create part
 2) Delete location     6) Delete sorter    10) Delete part
 3) List locations      7) List sorters     11) List parts
 4) Update location     8) Update sorter    12) Quit
`)
		var err error
		switch c.ask(">>>") {
		case "1":
			err = store.CreateLocation(ctx, c.db, model.Location{
				ID:    c.askID("ID for location"),
				Name:  c.ask("Name for location"),
				Icon:  c.ask("Icon for location"),
				Tags:  c.ask("Comma-separated tags for location"),
				Attrs: c.askAttrs(),
			})
		case "2":
			id := c.ask("ID for location")
			if !c.confirm() {
				continue
			}
			err = store.DeleteLocation(ctx, c.db, id)
		case "3":
			c.dump(store.ListLocations(ctx, c.db))
		case "4":
			id := c.ask("ID for location")
			upd := model.LocationUpdate{
				Name: c.askOptional("New name (empty keeps current)"),
				Icon: c.askOptional("New icon (empty keeps current)"),
				Tags: c.askOptional("New tags (empty keeps current)"),
			}
			if c.ask("Replace attributes? (YES)") == "YES" {
				attrs := c.askAttrs()
				upd.Attrs = &attrs
			}
			err = store.UpdateLocation(ctx, c.db, id, upd)
		case "5":
			err = store.CreateSorter(ctx, c.db, model.Sorter{
				ID:       c.askID("ID for sorter"),
				Location: c.ask("Location ID for sorter"),
				Name:     c.ask("Name for sorter"),
				Icon:     c.ask("Icon for sorter"),
				Tags:     c.ask("Comma-separated tags for sorter"),
				Attrs:    c.askAttrs(),
			})
		case "6":
			id := c.ask("ID for sorter")
			if !c.confirm() {
				continue
			}
			err = store.DeleteSorter(ctx, c.db, id)
		case "7":
			c.dump(store.ListSorters(ctx, c.db))
		case "8":
			id := c.ask("ID for sorter")
			upd := model.SorterUpdate{
				Location: c.askOptional("New location ID (empty keeps current)"),
				Name:     c.askOptional("New name (empty keeps current)"),
				Icon:     c.askOptional("New icon (empty keeps current)"),
				Tags:     c.askOptional("New tags (empty keeps current)"),
			}
			if c.ask("Replace attributes? (YES)") == "YES" {
				attrs := c.askAttrs()
				upd.Attrs = &attrs
			}
			err = store.UpdateSorter(ctx, c.db, id, upd)
		case "9":
			part, perr := c.askPart()
			if perr != nil {
				err = perr
				break
			}
			err = store.CreatePart(ctx, c.db, part)
		case "10":
			id := c.ask("ID for part")
			if !c.confirm() {
				continue
			}
			err = store.DeletePart(ctx, c.db, id)
		case "11":
			parts := store.ListParts(ctx, c.db)
			for i := range parts {
				parts[i].Image = nil
			}
			c.dump(parts)
		case "12", "q", "quit":
			return
		default:
			fmt.Println("Unknown option")
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func (c *console) askPart() (model.Part, error) {
	part := model.Part{
		ID:           c.askID("ID for part"),
		Sorter:       c.ask("Sorter ID for part"),
		Name:         c.ask("Name for part"),
		Location:     c.ask("Location ID for part"),
		Tags:         c.ask("Comma-separated tags for part"),
		QuantityType: c.ask("Quantity type (empty for pcs)"),
		Notes:        c.ask("Notes for part"),
	}

	quantity, err := strconv.Atoi(c.ask("Quantity"))
	if err != nil {
		return part, fmt.Errorf("invalid quantity: %w", err)
	}
	part.Quantity = quantity
	part.EnableQuantity = c.ask("Track quantity? (YES/no)") != "no"

	if raw := c.ask("Price (empty for 0.00)"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return part, fmt.Errorf("invalid price: %w", err)
		}
		part.Price = price
	}

	part.Attrs = c.askAttrs()
	return part, nil
}

// ask prompts for a line of input and returns it trimmed.
func (c *console) ask(label string) string {
	fmt.Printf("%s >>> ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

// askID prompts for an id, generating a random one on empty input.
func (c *console) askID(label string) string {
	id := c.ask(label + " (empty for random)")
	if id == "" {
		id = uuid.NewString()
		fmt.Println("Generated id:", id)
	}
	return id
}

// askOptional returns nil on empty input so the field keeps its
// current value.
func (c *console) askOptional(label string) *string {
	if value := c.ask(label); value != "" {
		return &value
	}
	return nil
}

// askAttrs collects key/value attributes until an empty key.
func (c *console) askAttrs() model.Attrs {
	attrs := model.Attrs{}
	for {
		key := c.ask("Attribute key (empty to finish)")
		if key == "" {
			return attrs
		}
		attrs[key] = c.ask(fmt.Sprintf("Value for %q", key))
	}
}

func (c *console) confirm() bool {
	if c.ask("Are you sure (YES)") != "YES" {
		fmt.Println("Aborted")
		return false
	}
	return true
}

func (c *console) dump(records any) {
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
