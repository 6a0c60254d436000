// Command backdrop shows the animated backdrop in a transparent window.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-backdrop/engine"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/backdrop"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/config"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML scene configuration (defaults are built in)")
		watch      = flag.Bool("watch", false, "reload the configuration when the file changes")
		profile    = flag.Bool("profile", false, "log FPS, heap and GPU resource counts every second")
		width      = flag.Int("width", 1280, "initial window width")
		height     = flag.Int("height", 720, "initial window height")
		software   = flag.Bool("software", false, "force the software (fallback) GPU adapter")
		msaa       = flag.Int("msaa", 0, "MSAA sample count, 1 or 4 (0 keeps the configured value)")
		fpsLimit   = flag.Float64("fps", 0, "frame rate cap on top of vsync (0 = none)")
		opaque     = flag.Bool("opaque", false, "draw on an opaque window instead of a transparent one")
		workers    = flag.Int("workers", 0, "mesh generation workers (0 = one per spare CPU)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath, *software, *msaa)
	if err != nil {
		log.Fatalf("[backdrop] %v", err)
	}

	win, err := window.NewWindow(
		window.WithTitle("oxy backdrop"),
		window.WithWidth(*width),
		window.WithHeight(*height),
		window.WithTransparent(!*opaque),
	)
	if err != nil {
		log.Fatalf("[backdrop] %v", err)
	}
	defer win.Close()

	backdropOptions := []backdrop.BackdropBuilderOption{backdrop.WithConfig(cfg)}
	if *workers > 0 {
		backdropOptions = append(backdropOptions, backdrop.WithSceneOptions(scene.WithComputeWorkers(*workers)))
	}

	eng, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithBackdrop(backdrop.NewBackdrop(backdropOptions...)),
		engine.WithProfiling(*profile),
		engine.WithRenderFrameLimit(*fpsLimit),
	)
	if err != nil {
		log.Fatalf("[backdrop] %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		eng.Quit()
	}()

	if *watch && *configPath != "" {
		if watcher, err := config.NewWatcher(*configPath); err != nil {
			log.Printf("[backdrop] not watching %s: %v", *configPath, err)
		} else {
			defer watcher.Close()
			go reloadOnChange(eng, watcher, *software, *msaa)
		}
	}

	if err := eng.Run(); err != nil {
		log.Printf("[backdrop] %v", err)
	}
}

// loadConfig reads path, or the built-in defaults when path is empty, and applies the flag overrides.
func loadConfig(path string, software bool, msaa int) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if software {
		cfg.Renderer.Software = true
	}
	if msaa != 0 {
		cfg.Renderer.MSAA = msaa
	}
	return cfg, cfg.Validate()
}

func reloadOnChange(eng engine.Engine, watcher *config.Watcher, software bool, msaa int) {
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			cfg, err := loadConfig(path, software, msaa)
			if err != nil {
				log.Printf("[backdrop] ignoring %s: %v", path, err)
				continue
			}
			eng.RequestReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[backdrop] watcher: %v", err)
		}
	}
}
