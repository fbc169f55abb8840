package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilelab/internal/pushbox/levels"
	"github.com/vovakirdan/tilelab/internal/storage"
)

var flagCached bool

var levelsCmd = &cobra.Command{
	Use:   "levels [dir]",
	Short: "List level packs and cached levels",
	Long: `List the levels of a level pack directory (default: levels), or with
--cached the generated levels stored in the database.

Examples:
  tilelab levels
  tilelab levels ./my-pack
  tilelab levels --cached`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagCached, "cached", false, "List generated levels cached in the database")
	levelsCmd.Flags().IntVar(&flagScoresLimit, "limit", 20, "Number of cached levels to show")
}

func runLevels(_ *cobra.Command, args []string) error {
	if flagCached {
		return printCachedLevels()
	}

	dir := "levels"
	if len(args) > 0 {
		dir = args[0]
	}
	pack, err := levels.NewLoader(dir).LoadAll()
	if err != nil {
		return err
	}

	fmt.Printf("Levels in %s:\n", dir)
	fmt.Println()
	if len(pack) == 0 {
		fmt.Println("  (none)")
		return nil
	}
	for i, lvl := range pack {
		kind := "layout"
		if lvl.Layout == "" {
			kind = "generated"
		}
		name := lvl.Name
		if name == "" {
			name = lvl.ID
		}
		fmt.Printf("  %3d  %-24s  %-9s  %s\n", i+1, lvl.ID, kind, name)
	}
	fmt.Println()
	fmt.Printf("Play with: tilelab play --levels %s\n", dir)
	return nil
}

func printCachedLevels() error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening solves database: %w", err)
	}
	defer store.Close()

	entries, err := store.RecentLevels(flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Println("Cached levels:")
	fmt.Println()
	if len(entries) == 0 {
		fmt.Println("  (none)")
		fmt.Println()
		fmt.Println("Generate some with: tilelab generate --cache")
		return nil
	}
	for _, entry := range entries {
		s := entry.Settings
		fmt.Printf("  %-5d  %dx%d  boxes=%d  steps=%d  seed=%-10d  %s\n",
			entry.ID, s.Width, s.Height, s.NumBoxes, s.RoomSteps, s.Seed,
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
