package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MimeLyc/video-screenshot-pdf/internal/config"
	"github.com/MimeLyc/video-screenshot-pdf/internal/fetch"
	"github.com/MimeLyc/video-screenshot-pdf/internal/progress"
	"github.com/MimeLyc/video-screenshot-pdf/internal/service"
	"github.com/MimeLyc/video-screenshot-pdf/internal/timestamp"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/file"
	"github.com/MimeLyc/video-screenshot-pdf/pkg/log"
)

func main() {
	var (
		videoURL   = flag.String("url", "", "Video URL to fetch with yt-dlp")
		localFile  = flag.String("file", "", "Local video file to use instead of a URL")
		timestamps = flag.String("timestamps", "", "Comma-separated timestamps (seconds, MM:SS or HH:MM:SS)")
		interval   = flag.Int("interval", 0, "Take screenshots at regular intervals (in seconds)")
		output     = flag.String("output", "", "Output PDF path")
		pdfName    = flag.String("pdf-name", "", "Output PDF filename, placed in the configured PDF directory")
		download   = flag.Bool("download", false, "Download the video before processing (slower but more reliable)")
		stream     = flag.Bool("stream", false, "Process the direct stream URL without downloading (the default)")
	)
	flag.Parse()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	if cfg.System.LogFile != "" {
		fl, err := log.InitFileLogger(cfg.System.LogFile, log.ParseLevel(cfg.System.LogLevel))
		if err != nil {
			log.Fatal("Failed to open log file: %v", err)
		}
		defer fl.Close()
	} else {
		log.InitLogger(log.ParseLevel(cfg.System.LogLevel))
	}

	if *videoURL == "" && *localFile == "" {
		fmt.Fprintln(os.Stderr, "either --url or --file is required")
		flag.Usage()
		os.Exit(2)
	}
	if *download && *stream {
		fmt.Fprintln(os.Stderr, "--download and --stream are mutually exclusive")
		flag.Usage()
		os.Exit(2)
	}
	if *output != "" && *pdfName != "" {
		fmt.Fprintln(os.Stderr, "--output and --pdf-name are mutually exclusive")
		flag.Usage()
		os.Exit(2)
	}
	if *timestamps == "" && *interval <= 0 {
		fmt.Fprintln(os.Stderr, "either --timestamps or --interval is required")
		flag.Usage()
		os.Exit(2)
	}

	req := service.Request{
		Interval:   *interval,
		OutputPath: *output,
	}
	if *pdfName != "" {
		// A bare filename lands in the configured PDF directory.
		req.OutputPath = filepath.Base(*pdfName)
	}

	if *timestamps != "" {
		parsed, err := timestamp.ParseList(*timestamps)
		if err != nil {
			log.Fatal("Invalid timestamps: %v", err)
		}
		req.Timestamps = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remote acquisition happens out here; the pipeline only ever sees
	// a playable locator and a duration hint.
	if *videoURL != "" {
		fetcher := fetch.NewYtdlp(cfg.Fetch.YtdlpCmd, cfg.Fetch.MaxHeight)

		var resolved fetch.Resolved
		if *download {
			resolved, err = fetcher.Download(ctx, *videoURL, cfg.Dirs.TempDir)
		} else {
			resolved, err = fetcher.Resolve(ctx, *videoURL)
		}
		if err != nil {
			log.Fatal("Could not process video link: %v", err)
		}
		defer fetcher.Cleanup(resolved)

		req.Locator = resolved.Locator
		req.Title = resolved.Title
		req.DurationHint = resolved.Duration
	} else {
		req.Locator = *localFile
		req.Title = filepath.Base(*localFile)
	}

	if req.OutputPath == "" && req.Title != "" {
		req.OutputPath = file.SanitizeFilename(req.Title) + "_screenshots.pdf"
	}

	svc := service.New(*cfg)
	summary, err := svc.Run(ctx, req, consoleProgress)
	if err != nil {
		log.Fatal("Run failed: %v", err)
	}

	fmt.Printf("PDF created successfully: %s (%d/%d screenshots", summary.PDFPath, summary.Captured, summary.Requested)
	if summary.Dropped > 0 {
		fmt.Printf(", %d timestamps dropped", summary.Dropped)
	}
	fmt.Println(")")
}

func consoleProgress(e progress.Event) {
	fmt.Printf("[%s] %s (%.0f%%)\n", e.Phase, e.Detail, e.Percent)
}
