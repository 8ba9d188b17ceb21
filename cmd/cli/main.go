// The CLI is a thin terminal client over the REST backend. It keeps its
// bearer token in ~/.bucketeer/token, refreshes the full state container
// before read commands (which also materializes due recurring
// transactions), and prints plain-text tables.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"bucketeer/internal/appstate"
	"bucketeer/internal/backup"
	"bucketeer/internal/client"
	"bucketeer/internal/logger"
	"bucketeer/internal/models"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() error {
	return fmt.Errorf(`usage: bucketeer <command> [args]

  register <email> <name>     create an account (password prompted via BUCKETEER_PASSWORD)
  login <email>               authenticate (password via BUCKETEER_PASSWORD)
  logout                      forget the stored token
  overview                    monthly totals and recurring status
  buckets                     list buckets
  transactions                list transactions, newest first
  recurring                   list recurring definitions
  budgets                     list budgets
  export <file>               write a JSON archive of all data
  import <file>               validate and re-create data from an archive`)
}

func run(args []string) error {
	if len(args) == 0 {
		return usage()
	}

	baseURL := os.Getenv("BUCKETEER_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	token, _ := loadToken()
	c := client.New(baseURL,
		client.WithToken(token),
		client.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "Session expired, please log in again.")
			_ = clearToken()
		}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch args[0] {
	case "register":
		if len(args) < 3 {
			return fmt.Errorf("usage: register <email> <name>")
		}
		session, err := c.Register(ctx, args[1], os.Getenv("BUCKETEER_PASSWORD"), args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s\n", session.User.Email)
		return saveToken(session.Token)

	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: login <email>")
		}
		session, err := c.Login(ctx, args[1], os.Getenv("BUCKETEER_PASSWORD"))
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", session.User.Email)
		return saveToken(session.Token)

	case "logout":
		return clearToken()

	case "overview":
		return withState(ctx, c, printOverview)
	case "buckets":
		return withState(ctx, c, printBuckets)
	case "transactions":
		return withState(ctx, c, printTransactions)
	case "recurring":
		return withState(ctx, c, printRecurring)
	case "budgets":
		return withState(ctx, c, printBudgets)

	case "export":
		if len(args) < 2 {
			return fmt.Errorf("usage: export <file>")
		}
		return exportArchive(ctx, c, args[1])

	case "import":
		if len(args) < 2 {
			return fmt.Errorf("usage: import <file>")
		}
		return importArchive(ctx, c, args[1])

	default:
		return usage()
	}
}

// withState refreshes the container (materializing due recurring
// transactions as a side effect) and hands the result to the printer.
func withState(ctx context.Context, c *client.Client, print func(*appstate.Container) error) error {
	container := appstate.New(c)
	if err := container.Refresh(ctx); err != nil {
		return err
	}
	return print(container)
}

func printOverview(container *appstate.Container) error {
	snap := container.Snapshot()
	now := time.Now()

	var income, expense int64
	for _, tx := range snap.Transactions {
		if tx.Date.Year() != now.Year() || tx.Date.Month() != now.Month() {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			income += tx.Amount
		case models.TransactionTypeExpense:
			expense += tx.Amount
		}
	}

	fmt.Printf("%s: income %s, expenses %s, net %s\n",
		now.Format("January 2006"), money(income), money(expense), money(income-expense))

	active := 0
	for _, def := range snap.RecurringDefinitions {
		if container.RecurringStatus(def) == models.RecurringStatusActive {
			active++
		}
	}
	fmt.Printf("%d recurring definition(s), %d active\n", len(snap.RecurringDefinitions), active)
	return nil
}

func printBuckets(container *appstate.Container) error {
	snap := container.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR")
	for _, b := range snap.Buckets {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, b.Color)
	}
	return w.Flush()
}

func printTransactions(container *appstate.Container) error {
	snap := container.Snapshot()
	bucketNames := make(map[string]string, len(snap.Buckets))
	for _, b := range snap.Buckets {
		bucketNames[b.ID] = b.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tBUCKET\tDESCRIPTION")
	for _, tx := range snap.Transactions {
		bucket := ""
		if tx.BucketID != nil {
			bucket = bucketNames[*tx.BucketID]
			if bucket == "" {
				bucket = "Unknown"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tx.Date.Format("2006-01-02"), tx.Type, money(tx.Amount), bucket, tx.Description)
	}
	return w.Flush()
}

func printRecurring(container *appstate.Container) error {
	snap := container.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DESCRIPTION\tFREQUENCY\tAMOUNT\tSTATUS\tLAST APPLIED")
	for _, def := range snap.RecurringDefinitions {
		lastApplied := "-"
		if def.LastApplied != nil {
			lastApplied = def.LastApplied.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			def.Description, def.Frequency, money(def.Amount),
			container.RecurringStatus(def), lastApplied)
	}
	return w.Flush()
}

func printBudgets(container *appstate.Container) error {
	snap := container.Snapshot()
	bucketNames := make(map[string]string, len(snap.Buckets))
	for _, b := range snap.Buckets {
		bucketNames[b.ID] = b.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BUCKET\tPERIOD\tAMOUNT")
	for _, budget := range snap.Budgets {
		period := fmt.Sprintf("%d", budget.Year)
		if budget.Month != nil {
			period = fmt.Sprintf("%d-%02d", budget.Year, *budget.Month)
		}
		name := bucketNames[budget.BucketID]
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, period, money(budget.Amount))
	}
	return w.Flush()
}

func exportArchive(ctx context.Context, c *client.Client, path string) error {
	container := appstate.New(c)
	if err := container.Refresh(ctx); err != nil {
		return err
	}
	snap := container.Snapshot()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := backup.Export(f, time.Now().UTC(), snap.Buckets, snap.Transactions, snap.RecurringDefinitions, snap.Budgets); err != nil {
		return err
	}
	fmt.Printf("Exported %d bucket(s), %d transaction(s), %d recurring, %d budget(s) to %s\n",
		len(snap.Buckets), len(snap.Transactions), len(snap.RecurringDefinitions), len(snap.Budgets), path)
	return nil
}

// importArchive re-creates archive contents through the API. Buckets are
// created first so transactions and budgets can be remapped to the new
// server-assigned IDs.
func importArchive(ctx context.Context, c *client.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	archive, err := backup.Import(f)
	if err != nil {
		return err
	}

	bucketIDs := make(map[string]string, len(archive.Buckets))
	for _, b := range archive.Buckets {
		created, err := c.CreateBucket(ctx, b.Name, b.Color)
		if err != nil {
			return err
		}
		bucketIDs[b.ID] = created.ID
	}

	remap := func(old *string) *string {
		if old == nil {
			return nil
		}
		if mapped, ok := bucketIDs[*old]; ok {
			return &mapped
		}
		return nil
	}

	for i := range archive.Transactions {
		tx := archive.Transactions[i]
		tx.BucketID = remap(tx.BucketID)
		// Recurring back-references point at old definition IDs; the
		// restored rows are plain transactions.
		tx.RecurringID = nil
		tx.IsRecurring = false
		if _, err := c.CreateTransaction(ctx, &tx); err != nil {
			return err
		}
	}

	for _, def := range archive.RecurringDefinitions {
		params := client.RecurringParams{
			Type:        def.Type,
			Amount:      def.Amount,
			Description: def.Description,
			BucketID:    remap(def.BucketID),
			Frequency:   def.Frequency,
			StartDate:   def.StartDate,
			EndDate:     def.EndDate,
		}
		created, err := c.CreateRecurring(ctx, params)
		if err != nil {
			return err
		}
		if def.LastApplied != nil {
			if err := c.AdvanceCheckpoint(ctx, created.ID, *def.LastApplied); err != nil {
				return err
			}
		}
	}

	for _, budget := range archive.Budgets {
		mapped, ok := bucketIDs[budget.BucketID]
		if !ok {
			continue
		}
		params := client.BudgetParams{
			BucketID: mapped,
			Amount:   budget.Amount,
			Period:   budget.Period,
			Year:     budget.Year,
			Month:    budget.Month,
		}
		if _, err := c.CreateBudget(ctx, params); err != nil {
			return err
		}
	}

	fmt.Printf("Imported archive from %s (exported %s)\n", path, archive.ExportDate.Format("2006-01-02"))
	return nil
}

func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".bucketeer", "token"), nil
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func clearToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
