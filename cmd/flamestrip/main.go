package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-flamestrip/internal/config"
	"github.com/coreman2200/funtimes-flamestrip/internal/flame"
	"github.com/coreman2200/funtimes-flamestrip/internal/led"
	"github.com/coreman2200/funtimes-flamestrip/internal/ws"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		width       = flag.Int("width", 8, "matrix width (LEDs per row)")
		numPixels   = flag.Int("pixels", 64, "total LED count")
		zigzag      = flag.Bool("zigzag", true, "serpentine wiring: odd rows reversed")
		origin      = flag.String("origin", "bl", "corner of logical (0,0): tl | tr | bl | br")
		mode        = flag.String("mode", "heat", "render mode: heat | columns")
		fps         = flag.Int("fps", 40, "target frames per second")
		brightness  = flag.Float64("brightness", 0.8, "global brightness 0..1")
		cooling     = flag.Int("cooling", 55, "heat loss per step")
		sparkChance = flag.Float64("spark-chance", 0.45, "per-column ignition probability")
		driver      = flag.String("driver", "sim", "driver: spi | nrz | term | sim")
		addr        = flag.String("addr", "", "preview server listen address (empty disables)")
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly     = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Effective config: flags are the baseline, yaml overrides ----
	cfg := config.Default()
	cfg.Width = *width
	cfg.NumPixels = *numPixels
	cfg.Zigzag = *zigzag
	cfg.Origin = *origin
	cfg.Mode = *mode
	cfg.FPS = *fps
	cfg.Brightness = *brightness
	cfg.Cooling = *cooling
	cfg.SparkChance = *sparkChance
	cfg.Driver = *driver
	cfg.Addr = *addr

	if file, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		merge(cfg, file)
	}
	if *simOnly {
		cfg.Driver = "sim"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// ---- Engine ----
	eng, err := flame.NewEngine(cfg.EngineOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("engine construction failed")
	}
	lay := cfg.Layout()
	log.Info().
		Int("width", lay.Width).Int("height", lay.Height).
		Bool("zigzag", lay.Zigzag).Str("origin", lay.Origin.String()).
		Str("mode", eng.Mode().String()).
		Msg("flame engine ready")

	// ---- Driver selection, falling back to sim on hardware failure ----
	drv := openDriver(cfg)

	// ---- Preview server (optional) ----
	var state *ws.State
	if cfg.Addr != "" {
		state = ws.NewState(lay, eng.Mode(), cfg.FPS, cfg.Driver)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", state.HandleFrames)
		mux.HandleFunc("/health", state.HandleHealth)
		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("preview server crashed")
			}
		}()
	}

	// ---- Frame loop ----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			eng.Step()
			frame := eng.Bytes()
			if err := drv.Write(frame); err != nil {
				log.Error().Err(err).Msg("frame write failed")
			}
			if state != nil {
				state.Broadcast(frame)
			}
		case s := <-stop:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			// blank the strip before releasing it
			_ = drv.Write(make([]byte, eng.Count()*3))
			if err := drv.Close(); err != nil {
				log.Warn().Err(err).Msg("driver close")
			}
			return
		}
	}
}

// openDriver builds the configured sink; hardware init failure warns
// and degrades to sim rather than aborting.
func openDriver(cfg *config.Config) led.Driver {
	count := cfg.NumPixels
	switch cfg.Driver {
	case "sim":
		return led.NewSim(count)

	case "term":
		d, err := led.NewTerm(count)
		if err != nil {
			log.Warn().Err(err).Msg("terminal driver init failed; falling back to sim")
			return led.NewSim(count)
		}
		return d

	case "nrz":
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed; falling back to sim")
			return led.NewSim(count)
		}
		d, err := led.NewNRZ(cfg.Port, count)
		if err != nil {
			log.Warn().Err(err).Str("port", cfg.Port).Msg("nrz init failed; falling back to sim")
			return led.NewSim(count)
		}
		return d

	case "spi":
		d, err := led.NewSPI(cfg.SPI.Dev, count, cfg.SPI.SpeedHz, cfg.SPI.ResetUs)
		if err != nil {
			log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("spi init failed; falling back to sim")
			return led.NewSim(count)
		}
		return d

	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using sim")
		return led.NewSim(count)
	}
}

// merge copies the fields the yaml file actually set over the flag
// baseline. Zero values mean "not set"; the booleans carry explicit
// presence from config.Load since false is also their zero value.
func merge(dst, src *config.Config) {
	if src.HasEnabled() {
		dst.Enabled = src.Enabled
	}
	if src.HasZigzag() {
		dst.Zigzag = src.Zigzag
	}
	if src.Driver != "" {
		dst.Driver = src.Driver
	}
	if src.Port != "" {
		dst.Port = src.Port
	}
	if src.Width > 0 {
		dst.Width = src.Width
	}
	if src.NumPixels > 0 {
		dst.NumPixels = src.NumPixels
	}
	if src.Origin != "" {
		dst.Origin = src.Origin
	}
	if src.Mode != "" {
		dst.Mode = src.Mode
	}
	if src.FPS > 0 {
		dst.FPS = src.FPS
	}
	if src.Brightness > 0 {
		dst.Brightness = src.Brightness
	}
	if src.Cooling > 0 {
		dst.Cooling = src.Cooling
	}
	if src.SparkChance > 0 {
		dst.SparkChance = src.SparkChance
	}
	if src.SparkMin > 0 {
		dst.SparkMin = src.SparkMin
	}
	if src.SparkMax > 0 {
		dst.SparkMax = src.SparkMax
	}
	if src.VirtualHeight > 0 {
		dst.VirtualHeight = src.VirtualHeight
	}
	if src.Shimmer != (config.Shimmer{}) {
		dst.Shimmer = src.Shimmer
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.SPI.Dev != "" {
		dst.SPI.Dev = src.SPI.Dev
	}
	if src.SPI.SpeedHz != 0 {
		dst.SPI.SpeedHz = src.SPI.SpeedHz
	}
	if src.SPI.ResetUs != 0 {
		dst.SPI.ResetUs = src.SPI.ResetUs
	}
}
