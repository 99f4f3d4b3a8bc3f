// ABOUTME: Migration utility for moving the prospect collection between storage backends.
// ABOUTME: Provides dry-run and backup capabilities so the destination is never silently lost.

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harperreed/prospector/db"
	"github.com/harperreed/prospector/tracker"
)

type options struct {
	dryRun    bool
	backupDir string
	force     bool
	now       func() time.Time
}

func main() {
	from := flag.String("from", "sqlite", "Source backend: sqlite or badger")
	fromPath := flag.String("from-path", "", "Source storage path (required)")
	to := flag.String("to", "badger", "Destination backend: sqlite or badger")
	toPath := flag.String("to-path", "", "Destination storage path (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Back up existing destination data before overwriting")
	force := flag.Bool("force", false, "Overwrite a destination that already holds prospects")
	flag.Parse()

	if *fromPath == "" || *toPath == "" {
		log.Fatal("Error: -from-path and -to-path flags are required")
	}
	if *from == *to && *fromPath == *toPath {
		log.Fatal("Error: source and destination are the same store")
	}
	if _, err := os.Stat(*fromPath); os.IsNotExist(err) {
		log.Fatalf("Error: source does not exist: %s", *fromPath)
	}

	src, err := db.Open(*from, *fromPath)
	if err != nil {
		log.Fatalf("Failed to open source: %v", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := db.Open(*to, *toPath)
	if err != nil {
		log.Fatalf("Failed to open destination: %v", err)
	}
	defer func() { _ = dst.Close() }()

	opts := options{dryRun: *dryRun, force: *force, now: time.Now}
	if *backup {
		opts.backupDir = "."
	}

	if err := migrate(src, dst, opts); err != nil {
		_ = src.Close()
		_ = dst.Close()
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully")
}

// migrate copies the prospect slot from src to dst. The source is decoded
// first so a corrupt blob is never propagated.
func migrate(src, dst db.BlobStore, opts options) error {
	prospects, err := tracker.NewBlobPersister(src).Load()
	if errors.Is(err, tracker.ErrNoSavedData) {
		return fmt.Errorf("source has no saved prospects")
	}
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	log.Printf("Source holds %d prospects", len(prospects))

	existing, err := dst.Get(tracker.SlotKey)
	hasExisting := err == nil
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("failed to read destination: %w", err)
	}

	if hasExisting {
		log.Printf("Destination already holds a prospect collection")

		if !opts.force {
			log.Printf("WARNING: Migration will replace the destination collection")
			log.Printf("Use -force flag to proceed with migration")
			return fmt.Errorf("migration requires -force flag")
		}
	}

	if opts.dryRun {
		log.Printf("[DRY RUN] Would perform the following actions:")
		if hasExisting && opts.backupDir != "" {
			log.Printf("[DRY RUN] - Back up the destination collection")
		}
		log.Printf("[DRY RUN] - Write %d prospects to the destination", len(prospects))
		return nil
	}

	if hasExisting && opts.backupDir != "" {
		backupPath := fmt.Sprintf("%s/%s.backup.%s.json", opts.backupDir, tracker.SlotKey, opts.now().Format("20060102-150405"))
		log.Printf("Creating backup: %s", backupPath)

		if err := os.WriteFile(backupPath, existing, 0600); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Printf("Backup created successfully")
	}

	if err := tracker.NewBlobPersister(dst).Save(prospects); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}
	log.Printf("Wrote %d prospects", len(prospects))

	return nil
}
