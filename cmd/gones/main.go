package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nescore/gones/pkg/audio"
	"github.com/nescore/gones/pkg/cartridge"
	"github.com/nescore/gones/pkg/console"
	"github.com/nescore/gones/pkg/display"
	"github.com/nescore/gones/pkg/logger"
	"github.com/nescore/gones/pkg/romscan"
)

const sampleRate = 44100

func main() {
	var (
		logLevel    = flag.String("log-level", "info", "Log level (off, error, warn, info, debug, trace)")
		logFile     = flag.String("log-file", "", "Log file path (empty for stdout)")
		cpuLog      = flag.Bool("cpu-log", false, "Enable CPU instruction logging")
		ppuLog      = flag.Bool("ppu-log", false, "Enable PPU logging")
		apuLog      = flag.Bool("apu-log", false, "Enable APU logging")
		mapperLog   = flag.Bool("mapper-log", false, "Enable mapper logging")
		headless    = flag.Bool("headless", false, "Run without a window for a fixed number of frames")
		testFrames  = flag.Int("test-frames", 600, "Number of frames to run in headless mode")
		audioOut    = flag.String("audio", "live", "Audio output: live (portaudio), wav:<path>, or off")
		screenshot  = flag.String("screenshot-dir", ".", "Directory screenshots (F12) are written to")
		scanPattern = flag.String("scan", "", "Glob pattern (supports **) of ROMs to smoke-test instead of running one ROM")
		scanFrames  = flag.Int("scan-frames", 120, "Frames to run each ROM during -scan")
	)

	flag.Usage = func() {
		fmt.Printf("Usage: %s [options] <rom_file>\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println("\nControls:")
		fmt.Println("  Z - A button")
		fmt.Println("  X - B button")
		fmt.Println("  A - Select")
		fmt.Println("  S - Start")
		fmt.Println("  Arrow keys - D-pad")
		fmt.Println("  F12 - Screenshot")
		fmt.Println("  ESC - Quit")
	}

	flag.Parse()

	level := logger.GetLogLevelFromString(*logLevel)
	if err := logger.Initialize(level, *logFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.SetCPULogging(*cpuLog)
	logger.SetPPULogging(*ppuLog)
	logger.SetAPULogging(*apuLog)
	logger.SetMapperLogging(*mapperLog)

	logger.LogInfo("GoNES emulator starting...")

	if *scanPattern != "" {
		runScan(*scanPattern, *scanFrames)
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	romFile := flag.Arg(0)

	if _, err := os.Stat(romFile); os.IsNotExist(err) {
		log.Fatalf("ROM file not found: %s", romFile)
	}

	file, err := os.Open(romFile)
	if err != nil {
		log.Fatalf("Failed to open ROM file: %v", err)
	}
	defer file.Close()

	cart, err := cartridge.LoadFromReader(file)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)
	logger.LogInfo("Loaded ROM: %s", filepath.Base(romFile))
	logger.LogInfo("Mapper: %d", mapperNumber)
	logger.LogInfo("PRG ROM: %d KB", len(cart.PRGROM)/1024)
	if len(cart.CHRROM) > 0 {
		logger.LogInfo("CHR ROM: %d KB", len(cart.CHRROM)/1024)
	} else {
		logger.LogInfo("CHR RAM: %d KB", len(cart.CHRRAM)/1024)
	}

	nes := console.New()
	nes.LoadCartridge(cart)
	nes.PowerOn()
	logger.LogInfo("NES system initialized")

	// Headless mode has no SDL window, so "live" audio there is a portaudio
	// monitor stream instead of SDL's device; the windowed path plays audio
	// through the same SDL device it renders to, matching the teacher's GUI.
	if *headless {
		sink, err := openAudioSink(*audioOut)
		if err != nil {
			logger.LogError("audio disabled: %v", err)
			sink = nil
		}
		if sink != nil {
			defer sink.Close()
		}
		runHeadless(nes, *testFrames, sink)
		return
	}

	windowSampleRate := 0
	if *audioOut != "off" {
		windowSampleRate = sampleRate
	}
	d, err := display.New(nes, windowSampleRate)
	if err != nil {
		log.Fatalf("Failed to create display: %v", err)
	}
	defer d.Close()
	d.SetScreenshotDir(*screenshot)

	logger.LogInfo("Starting emulator...")
	d.Run()
	logger.LogInfo("Emulator stopped")
}

func openAudioSink(mode string) (audio.Sink, error) {
	switch {
	case mode == "off" || mode == "":
		return nil, nil
	case mode == "live":
		return audio.NewPortAudioSink(sampleRate, true)
	case len(mode) > 4 && mode[:4] == "wav:":
		return audio.NewWAVSink(mode[4:], sampleRate)
	default:
		return nil, fmt.Errorf("unrecognized -audio mode %q", mode)
	}
}

func runHeadless(nes *console.Console, maxFrames int, sink audio.Sink) {
	logger.LogInfo("Starting headless mode for %d frames", maxFrames)
	startTime := time.Now()

	for frame := 0; frame < maxFrames; frame++ {
		nes.StepFrame(300000)
		nes.TakeFrame()
		if sink != nil {
			if err := sink.Write(nes.AudioSamples()); err != nil {
				logger.LogError("audio write failed: %v", err)
			}
		}
		if nes.CPU.Halted() {
			logger.LogInfo("CPU halted (JAM) at frame %d", frame)
			break
		}
	}

	logger.LogInfo("Headless execution completed in %v", time.Since(startTime))
}

func runScan(pattern string, frameCount int) {
	paths, err := romscan.Find(pattern)
	if err != nil {
		log.Fatalf("scan: %v", err)
	}
	if len(paths) == 0 {
		logger.LogInfo("no ROMs matched %q", pattern)
		return
	}

	results := romscan.Run(paths, frameCount)
	passed := 0
	for _, r := range results {
		if r.Passed() {
			passed++
			logger.LogInfo("OK   %s (%d frames)", romscan.Base(r.Path), r.Frames)
		} else {
			logger.LogInfo("FAIL %s: %v", romscan.Base(r.Path), r.Err)
		}
	}
	logger.LogInfo("scan complete: %d/%d passed", passed, len(results))
}
