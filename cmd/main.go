package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManouchehrRasoulli/globwatcher/pkg"
	"github.com/ManouchehrRasoulli/globwatcher/pkg/loader"
	"github.com/ManouchehrRasoulli/globwatcher/pkg/logger"
	"github.com/ManouchehrRasoulli/globwatcher/pkg/watcher"
)

func main() {
	var config string
	var patternFlag string
	var root string
	var interval time.Duration
	var tick time.Duration
	var absolute bool
	var verbose bool

	flag.StringVar(&config, "config", "", "specify configuration file for service.")
	flag.StringVar(&config, "c", "", "specify configuration file for service.")
	flag.StringVar(&patternFlag, "pattern", "", "watch a single pattern instead of a configuration file.")
	flag.StringVar(&patternFlag, "p", "", "watch a single pattern instead of a configuration file.")
	flag.StringVar(&root, "root", ".", "data root for relative patterns and reported paths.")
	flag.DurationVar(&interval, "interval", pkg.DefaultInterval, "check interval of the single pattern.")
	flag.DurationVar(&tick, "tick", pkg.DefaultTick, "tick period.")
	flag.BoolVar(&absolute, "absolute", false, "report absolute paths.")
	flag.BoolVar(&verbose, "v", false, "log every check result.")
	flag.Parse()

	lg := log.New(os.Stdout, "globwatcher --> ", log.Ldate|log.Lmicroseconds)
	clg := logger.NewColorLogger(lg)

	var cfg *pkg.Config
	switch {
	case config != "":
		clg.Printcf(logger.ColorGreen, "start globwatcher : with config file %v", config)
		c, err := pkg.ReadConfig(config)
		if err != nil {
			clg.Printcf(logger.ColorRed, "error globwatcher : got error %v on reading configuration file %s", err, config)
			os.Exit(1)
		}
		cfg = c
	case patternFlag != "":
		cfg = &pkg.Config{
			Root: root,
			Tick: tick,
			Watches: []pkg.WatchConfig{{
				Pattern:  patternFlag,
				Interval: interval,
				Absolute: absolute,
			}},
		}
		if err := cfg.Validate(); err != nil {
			clg.Printcf(logger.ColorRed, "error globwatcher : %v", err)
			os.Exit(1)
		}
	default:
		clg.Printcf(logger.ColorRed, "error globwatcher : either -config or -pattern is required")
		flag.Usage()
		os.Exit(2)
	}

	var registryLogger *log.Logger
	if verbose {
		registryLogger = lg
	}
	registry := watcher.NewRegistry(watcher.WithRegistryRoot(cfg.Root), watcher.WithRegistryLogger(registryLogger))
	defer registry.Close()

	for _, wc := range cfg.Watches {
		options, err := wc.Options()
		if err != nil {
			clg.Printcf(logger.ColorRed, "error globwatcher : watch %s : %v", wc.Pattern, err)
			os.Exit(1)
		}

		if _, err := registry.Watch(wc.Pattern, callbackFor(clg, wc), options, true); err != nil {
			clg.Printcf(logger.ColorRed, "error globwatcher : got error %v on watching %s", err, wc.Pattern)
			os.Exit(1)
		}
		clg.Printcf(logger.ColorBlue, "config globwatcher : pattern: %s, interval: %s, loader: %s", wc.Pattern, wc.Interval, wc.Loader)
	}

	runner := watcher.NewRunner(registry, cfg.Tick)
	defer runner.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	clg.Printcf(logger.ColorYellow, "exit globwatcher : got signal %s", s)
}

func callbackFor(clg *logger.ColorLogger, wc pkg.WatchConfig) watcher.Callback {
	pattern := wc.Pattern
	switch wc.Loader {
	case pkg.LoaderBytes:
		return watcher.Load(loader.Bytes, func(b []byte, path string) {
			clg.Printcf(logger.ColorGreen, "%s :: %s (%d bytes)", pattern, path, len(b))
		})
	case pkg.LoaderText:
		return watcher.Load(loader.Text, func(s string, path string) {
			clg.Printcf(logger.ColorGreen, "%s :: %s\n%s", pattern, path, s)
		})
	case pkg.LoaderYAML:
		return watcher.Load(loader.YAML, func(doc map[string]any, path string) {
			clg.Printcf(logger.ColorGreen, "%s :: %s %v", pattern, path, doc)
		})
	case pkg.LoaderDigest:
		return watcher.Load(loader.Digest, func(sum string, path string) {
			clg.Printcf(logger.ColorGreen, "%s :: %s %s", pattern, path, sum)
		})
	}

	if wc.Removals {
		return watcher.OnEvent(func(e watcher.Event) {
			clg.Printcf(e.Color(), "%s :: %s", pattern, e)
		})
	}
	return watcher.OnPath(func(path string) {
		clg.Printcf(logger.ColorGreen, "%s :: %s", pattern, path)
	})
}
