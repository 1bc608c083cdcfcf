// Command cli is a small operator tool for the car-inventory API. It
// keeps its session in a local JSON slot so an authenticated session
// survives between invocations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/carhub/car-inventory/internal/client/api"
	"github.com/carhub/car-inventory/internal/client/session"
	"github.com/carhub/car-inventory/internal/client/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fatal(err)
	}
	slot := session.NewFileSlot(filepath.Join(home, ".car-inventory", "session.json"))
	sess := session.NewSession(slot)

	baseURL := os.Getenv("CAR_INVENTORY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := api.NewClient(baseURL, sess)
	cars := store.NewStore(client)
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(os.Args[2:])
		p, err := client.Login(ctx, *email, *password)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("logged in as %s <%s>\n", p.Name, p.Email)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(os.Args[2:])
		p, err := client.Register(ctx, *name, *email, *password)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("registered as %s <%s>\n", p.Name, p.Email)

	case "logout":
		if err := client.Logout(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("logged out")

	case "whoami":
		p, err := client.Profile(ctx)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s <%s>\n", p.Name, p.Email)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		filter := fs.String("filter", "", "local substring filter over the fetched set")
		fs.Parse(os.Args[2:])
		if err := cars.Refresh(ctx); err != nil {
			fatal(err)
		}
		printCars(cars.Filter(*filter))

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		query := fs.String("q", "", "indexed search query")
		fs.Parse(os.Args[2:])
		results, err := cars.Search(ctx, *query)
		if err != nil {
			fatal(err)
		}
		printCars(results)

	case "create":
		fs := flag.NewFlagSet("create", flag.ExitOnError)
		file := fs.String("file", "", "path to a JSON car draft")
		fs.Parse(os.Args[2:])
		data, err := os.ReadFile(*file)
		if err != nil {
			fatal(err)
		}
		var draft domain.CarDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			fatal(err)
		}
		created, err := cars.Create(ctx, draft)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("created %s (%s)\n", created.Title, created.ID)

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ExitOnError)
		id := fs.String("id", "", "car id")
		fs.Parse(os.Args[2:])
		if err := cars.Delete(ctx, *id); err != nil {
			fatal(err)
		}
		fmt.Println("deleted")

	default:
		usage()
		os.Exit(2)
	}
}

func printCars(cars []*domain.Car) {
	for _, c := range cars {
		fmt.Printf("%s  %-30s  %s / %s / %s\n", c.ID, c.Title, c.Tags.CarType, c.Tags.Company, c.Tags.Dealer)
	}
	fmt.Printf("%d car(s)\n", len(cars))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cli <login|register|logout|whoami|list|search|create|delete> [flags]")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
