// Command mirror_drift compares the local document store against the
// Postgres mirror tables and reports per-collection drift. The local
// store is the source of truth, so any difference means the mirror has
// fallen behind and a flush (or schema fix) is needed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type collection struct {
	Name  string
	Table string
}

var collections = []collection{
	{Name: "mentors", Table: "mirror_mentors"},
	{Name: "interns", Table: "mirror_interns"},
	{Name: "gallery", Table: "mirror_gallery"},
}

type drift struct {
	Collection    collection
	LocalCount    int
	MirrorCount   int
	MissingMirror []string
	StaleMirror   []string
	Error         error
}

func (d drift) clean() bool {
	return d.Error == nil && len(d.MissingMirror) == 0 && len(d.StaleMirror) == 0
}

func main() {
	var (
		dataDir string
		prefix  string
		dsn     string
		timeout time.Duration
	)

	flag.StringVar(&dataDir, "data-dir", "./data", "Local store data directory")
	flag.StringVar(&prefix, "prefix", "pln", "Local store key prefix")
	flag.StringVar(&dsn, "dsn", "", "Postgres DSN of the mirror database")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Query timeout")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing -dsn")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to mirror: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var drifted int
	results := make([]drift, 0, len(collections))
	for _, col := range collections {
		res := compareCollection(ctx, db, dataDir, prefix, col)
		if !res.clean() {
			drifted++
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Drifted collections: %d of %d\n", drifted, len(collections))
	if drifted > 0 {
		os.Exit(1)
	}
}

func compareCollection(ctx context.Context, db *sqlx.DB, dataDir, prefix string, col collection) drift {
	res := drift{Collection: col}

	localIDs, err := loadLocalIDs(filepath.Join(dataDir, fmt.Sprintf("%s_%s.json", prefix, col.Name)))
	if err != nil {
		res.Error = fmt.Errorf("read local collection: %w", err)
		return res
	}

	var mirrorIDs []string
	if err := db.SelectContext(ctx, &mirrorIDs, fmt.Sprintf("SELECT id FROM %s", col.Table)); err != nil {
		res.Error = fmt.Errorf("query mirror table: %w", err)
		return res
	}

	res.LocalCount = len(localIDs)
	res.MirrorCount = len(mirrorIDs)
	res.MissingMirror = subtract(localIDs, mirrorIDs)
	res.StaleMirror = subtract(mirrorIDs, localIDs)
	return res
}

func loadLocalIDs(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func subtract(from, remove []string) []string {
	seen := make(map[string]struct{}, len(remove))
	for _, id := range remove {
		seen[id] = struct{}{}
	}
	var out []string
	for _, id := range from {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func printReport(results []drift) {
	fmt.Println("Mirror Drift Report")
	fmt.Println("===================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.clean() {
			status = "DRIFT"
		}
		fmt.Printf("[%s] %s (%s)\n", status, res.Collection.Name, res.Collection.Table)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Local: %d | Mirror: %d\n", res.LocalCount, res.MirrorCount)
		if len(res.MissingMirror) > 0 {
			fmt.Printf("  Missing in mirror: %v\n", res.MissingMirror)
		}
		if len(res.StaleMirror) > 0 {
			fmt.Printf("  Stale in mirror: %v\n", res.StaleMirror)
		}
	}
}
