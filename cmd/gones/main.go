// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gones/internal/app"
	"gones/internal/goneserr"
	"gones/internal/version"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to configuration file")
		scale      = flag.Int("scale", 0, "Integer window scale (0 keeps the config file's value)")
		debug      = flag.Bool("debug", false, "Enable debug mode")
		nogui      = flag.Bool("nogui", false, "Run without a window (headless)")
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}
	if *showVer {
		version.PrintBuildInfo()
		os.Exit(0)
	}

	// Accept both `gones <rom>` and `gones run <rom>`.
	args := flag.Args()
	if len(args) == 2 && args[0] == "run" {
		args = args[1:]
	}
	if len(args) != 1 {
		printUsage()
		os.Exit(1)
	}
	romPath := args[0]

	setupGracefulShutdown()

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	application, err := app.NewApplicationWithMode(configPath, *nogui)
	if err != nil {
		log.Printf("failed to create application: %v", err)
		os.Exit(goneserr.ExitCode(err))
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	if *nogui {
		application.GetConfig().Video.Backend = "headless"
	}
	if *scale > 0 {
		application.GetConfig().Window.Scale = *scale
	}
	if *debug {
		application.GetConfig().UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
	}

	if err := application.LoadROM(romPath); err != nil {
		log.Printf("failed to load ROM %s: %v", romPath, err)
		os.Exit(goneserr.ExitCode(err))
	}

	fmt.Printf("gones: running %s (window scale %dx)\n", romPath, application.GetConfig().Window.Scale)
	if err := application.Run(); err != nil {
		log.Printf("run failed: %v", err)
		os.Exit(goneserr.ExitCode(err))
	}

	fmt.Printf("gones: exited after %d frames (%.1f fps avg)\n", application.GetFrameCount(), application.GetFPS())
	os.Exit(0)
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\ngones: interrupt received, shutting down")
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Println("gones - a cycle-accurate NES emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options] [run] <rom-path>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXIT CODES:")
	fmt.Println("  0  normal close")
	fmt.Println("  1  ROM error (bad header, I/O failure)")
	fmt.Println("  2  unsupported mapper")
	fmt.Println()
	fmt.Println("CONTROLS (player 1, default bindings):")
	fmt.Println("  Arrow keys / WASD   D-pad")
	fmt.Println("  J                   A")
	fmt.Println("  K                   B")
	fmt.Println("  Enter               Start")
	fmt.Println("  Space               Select")
	fmt.Println("  F1-F10 / Shift+F1-F10   Save / load state")
	fmt.Println("  Escape (double-tap)     Quit")
}
