// Command backup operates on the site's named-record data through the
// datastore facade: export it, import it, snapshot it to a file, restore
// a snapshot, or inspect what is stored.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chiaview/backend/internal/datastore"
	"github.com/chiaview/backend/internal/logging"
	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: backup <command> [args]

Commands:
  export                 print all records as JSON
  import <file>          upsert records from a JSON file
  backup <file>          write a pretty-printed snapshot to a file
  restore <file>         import a snapshot file
  stats                  print backend statistics
  validate <key>         check that a record exists
  clear                  delete every record (asks for confirmation)

The backend comes from DATA_PROVIDER (memory|api, default api here) and
DATA_API_URL (default http://localhost:8080).`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	if os.Getenv("LOG_FORMAT") == "" {
		os.Setenv("LOG_FORMAT", "text")
	}
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
	}

	provider := os.Getenv("DATA_PROVIDER")
	if provider == "" {
		// A memory backend would be empty in a fresh process, so the CLI
		// defaults to the running server.
		provider = "api"
	}
	apiURL := os.Getenv("DATA_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	store := datastore.New(provider, apiURL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "export":
		runExport(ctx, store)
	case "import":
		runImport(ctx, store, fileArg())
	case "backup":
		runBackup(ctx, store, fileArg())
	case "restore":
		runRestore(ctx, store, fileArg())
	case "stats":
		runStats(ctx, store)
	case "validate":
		runValidate(ctx, store, fileArg())
	case "clear":
		runClear(ctx, store)
	default:
		usage()
	}
}

func fileArg() string {
	if len(os.Args) < 3 {
		usage()
	}
	return os.Args[2]
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func runExport(ctx context.Context, store datastore.Store) {
	data := store.Export(ctx)
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fail("export: " + err.Error())
	}
	fmt.Println(string(out))
}

func runImport(ctx context.Context, store datastore.Store, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fail("import: " + err.Error())
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		fail("import: " + err.Error())
	}
	if !store.Import(ctx, data) {
		fail("import failed")
	}
	fmt.Printf("imported %d records\n", len(data))
}

func runBackup(ctx context.Context, store datastore.Store, path string) {
	snapshot := store.Backup(ctx)
	if snapshot == nil {
		fail("backup failed")
	}
	if err := os.WriteFile(path, snapshot, 0o644); err != nil {
		fail("backup: " + err.Error())
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(snapshot))
}

func runRestore(ctx context.Context, store datastore.Store, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fail("restore: " + err.Error())
	}
	if !store.Restore(ctx, raw) {
		fail("restore failed")
	}
	fmt.Printf("restored from %s\n", path)
}

func runStats(ctx context.Context, store datastore.Store) {
	stats := store.Statistics(ctx)
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		fail("stats: " + err.Error())
	}
	fmt.Println(string(out))
}

func runValidate(ctx context.Context, store datastore.Store, key string) {
	v := store.Validate(ctx, key)
	if v.IsValid {
		fmt.Printf("%s: ok\n", key)
		return
	}
	for _, e := range v.Errors {
		fmt.Printf("%s: %s\n", key, e)
	}
	os.Exit(1)
}

func runClear(ctx context.Context, store datastore.Store) {
	fmt.Print("This deletes every record. Type 'yes' to continue: ")
	var answer string
	_, _ = fmt.Scanln(&answer)
	if answer != "yes" {
		fmt.Println("aborted")
		return
	}
	if !store.Clear(ctx) {
		fail("clear failed")
	}
	fmt.Println("cleared")
}
