// tilelab generates, renders and plays box-pushing puzzle levels, and
// serves them to agents over websockets.
//
// Usage:
//
//	tilelab list                  - List available games
//	tilelab generate [key=value]  - Generate a level and print it
//	tilelab render [key=value]    - Render a level to PNG or BMP
//	tilelab play [game]           - Play in the terminal
//	tilelab menu                  - Pick games interactively
//	tilelab serve                 - Start SSH server for remote play
//	tilelab env-serve             - Serve environments over websockets
//	tilelab scores [level]        - Show best solves
//	tilelab levels [dir]          - List level packs and cached levels
//
// Global flags:
//
//	--fps <rate>              - Set tick rate (default: 30)
//	--seed <value>            - Set RNG seed for reproducible levels
//	--db <path>               - Set database path (default: ~/.tilelab/solves.db)
//	--render-config <path>    - Sprite and palette config YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/tilelab/internal/games/pushbox"
)

var (
	// Global flags
	flagFPS          int
	flagSeed         int64
	flagDBPath       string
	flagRenderConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilelab",
	Short: "tilelab - generate, render and play pushbox levels",
	Long: `tilelab builds box-pushing puzzle levels by reverse-solving random
rooms, renders them with a sprite tile set and lets you play them in the
terminal, over SSH or through a websocket environment API.

Available commands:
  list       - Show all available games
  generate   - Generate a level from settings
  render     - Render a level to an image
  play       - Play a game directly
  menu       - Interactive game picker menu
  serve      - Start SSH server for remote play
  env-serve  - Serve environments over websockets
  scores     - View best solves
  levels     - List level packs and cached levels

Examples:
  tilelab generate width=10 height=10 numBoxes=2 --seed 7
  tilelab render --seed 7 --out level.png
  tilelab play
  tilelab serve --ssh :2222
  tilelab env-serve --addr :8090`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilelab/solves.db", "Path to solves database")
	rootCmd.PersistentFlags().StringVar(&flagRenderConfig, "render-config", "", "Path to custom render config YAML")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(envServeCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
}
