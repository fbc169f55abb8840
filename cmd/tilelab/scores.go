package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilelab/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show best solves",
	Long: `Display the best solves of a level, ranked by moves then pushes.
Without a level, show the most recent solves of all levels.

Examples:
  tilelab scores
  tilelab scores gen-10x10-b2-s30-7
  tilelab scores --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening solves database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printRecentSolves(store)
	}
	return printLevelSolves(store, args[0])
}

func printRecentSolves(store *storage.Store) error {
	solves, err := store.RecentSolves(flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving solves: %w", err)
	}

	fmt.Println("Recent Solves")
	fmt.Println()
	if len(solves) == 0 {
		fmt.Println("No solves recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tilelab play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-28s  %-10s  %-6s  %-6s  %s\n", "Level", "Player", "Moves", "Pushes", "Date")
	fmt.Printf("  %-28s  %-10s  %-6s  %-6s  %s\n", "-----", "------", "-----", "------", "----")
	for _, entry := range solves {
		fmt.Printf("  %-28s  %-10s  %-6d  %-6d  %s\n",
			entry.LevelID, entry.Player, entry.Moves, entry.Pushes,
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printLevelSolves(store *storage.Store, levelID string) error {
	solves, err := store.TopSolves(levelID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving solves: %w", err)
	}

	fmt.Printf("Best Solves - %s\n", levelID)
	fmt.Println()
	if len(solves) == 0 {
		fmt.Println("No solves recorded for this level yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %s\n", "Rank", "Player", "Moves", "Pushes", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %s\n", "----", "------", "-----", "------", "----")
	for i, entry := range solves {
		fmt.Printf("  %-4d  %-10s  %-6d  %-6d  %s\n",
			i+1, entry.Player, entry.Moves, entry.Pushes,
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetLevelStats(levelID)
	if err == nil && stats != nil {
		fmt.Println()
		fmt.Printf("Solves: %d  Best: %d moves, %d pushes  Average: %.1f moves\n",
			stats.Solves, stats.BestMoves, stats.BestPushes, stats.AvgMoves)
	}
	return nil
}
