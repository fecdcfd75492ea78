// Command tessera runs a demo resolution pass and optionally serves the
// inspection endpoints, for poking at the engine without embedding it.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nextcore/tessera/pkg/component"
	"github.com/nextcore/tessera/pkg/config"
	"github.com/nextcore/tessera/pkg/debug"
	"github.com/nextcore/tessera/pkg/engine"
	"github.com/nextcore/tessera/pkg/flex"
	"github.com/nextcore/tessera/pkg/sizespec"
	"github.com/nextcore/tessera/pkg/text"
)

func main() {
	configDir := flag.String("config", ".", "directory containing tessera.yaml")
	addr := flag.String("addr", "", "debug server address (overrides tessera.yaml)")
	width := flag.Float64("width", 360, "viewport width in logical pixels")
	height := flag.Float64("height", 640, "viewport height in logical pixels")
	flag.Parse()

	if err := run(*configDir, *addr, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "tessera: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, addr string, width, height float64) error {
	cfg, err := config.LoadOptional(configDir)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Debug.Addr = addr
	}

	e := engine.New(cfg, flex.NewSolver())
	result := e.SetRoot(demoTree(), sizespec.MakeExact(width), sizespec.MakeExact(height))
	if result == nil {
		return fmt.Errorf("resolution produced no result")
	}

	snap := e.Stats().Snapshot()
	fmt.Printf("resolved %gx%g: %d components, %d measures\n",
		result.Width(), result.Height(), snap.Resolutions, snap.Measures)

	if cfg.Debug.Addr == "" {
		return nil
	}

	server := debug.NewServer(e)
	bound, err := server.Start(cfg.Debug.Addr)
	if err != nil {
		return err
	}
	defer server.Stop()
	fmt.Printf("debug server on http://%s (tree, stats, health, metrics)\n", bound)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func demoTree() component.Component {
	return &flex.Column{
		ID:    "app",
		Style: component.CommonProps{Padding: 16},
		Children: []component.Component{
			&text.Text{ID: "title", Value: "tessera inspector"},
			&flex.Row{ID: "body", Children: []component.Component{
				&text.Text{ID: "left", Value: "resolution", Style: component.CommonProps{FlexGrow: 1}},
				&text.Text{ID: "right", Value: "measurement", Style: component.CommonProps{FlexGrow: 1}},
			}},
			&text.Text{ID: "footer", Value: "state lives in the tree, not the components"},
		},
	}
}
