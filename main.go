package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/tkrajina/go-elevations/geoelevations"

	"github.com/dave/mapmerge/applog"
	"github.com/dave/mapmerge/drive"
	"github.com/dave/mapmerge/route"
	"github.com/dave/mapmerge/store"
)

const VERSION = "v0.1.0"

func main() {
	if err := Main(); err != nil {
		log.Fatalf("%v", err)
	}
}

func Main() error {

	output := flag.String("output", "combined_routes.kml", "output kml file")
	mergeStore := flag.String("merge-store", "", "path of the persisted route store; empty disables merging")
	upload := flag.Bool("upload", false, "upload the output kml to google drive")
	ele := flag.Bool("ele", false, "lookup elevations for routes without elevation data")
	logDir := flag.String("log-dir", "", "directory for rotated log files; empty logs to stderr")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	version := flag.Bool("version", false, "show version")
	flag.Parse()

	if *version {
		fmt.Println(VERSION)
		return nil
	}

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: mapmerge <input_directory> --output <path> [--merge-store <path>] [--upload]")
	}

	logger := applog.New(*logLevel, *logDir)

	return run(context.Background(), options{
		dir:        flag.Arg(0),
		output:     *output,
		mergeStore: *mergeStore,
		upload:     *upload,
		ele:        *ele,
		style:      DefaultStyle,
	}, logger)
}

type options struct {
	dir        string
	output     string
	mergeStore string
	upload     bool
	ele        bool
	style      Style

	// uploader is replaced in tests; nil means the real drive client.
	uploader func(ctx context.Context, fpath, name string) (string, error)
}

func run(ctx context.Context, opts options, logger *applog.Logger) error {

	var srtm *geoelevations.Srtm
	if opts.ele {
		var err error
		srtm, err = geoelevations.NewSrtm(http.DefaultClient)
		if err != nil {
			return fmt.Errorf("creating srtm client: %w", err)
		}
	}

	incoming, err := scanDir(opts.dir, logger)
	if err != nil {
		return err
	}
	if len(incoming) == 0 {
		return fmt.Errorf("no routes found in %q", opts.dir)
	}

	if srtm != nil {
		fillElevations(srtm, incoming, logger)
	}

	col := route.Collection{}
	for _, r := range incoming {
		col.Add(r)
	}

	if opts.mergeStore != "" {
		existing, err := store.Load(opts.mergeStore)
		if err != nil {
			return fmt.Errorf("loading merge store: %w", err)
		}
		col = store.Merge(existing, col)
	}

	if err := saveCombined(col, opts.style, opts.output); err != nil {
		return err
	}
	logger.Info("combined kml saved",
		slog.String("path", opts.output),
		slog.Int("routes", len(col)))

	// The store is only updated once the output has been written, so a
	// failed run never advances the persisted history.
	if opts.mergeStore != "" {
		if err := store.Save(col, opts.mergeStore); err != nil {
			return fmt.Errorf("saving merge store: %w", err)
		}
	}

	if opts.upload {
		up := opts.uploader
		if up == nil {
			up = driveUpload
		}
		id, err := up(ctx, opts.output, filepath.Base(opts.output))
		if err != nil {
			return fmt.Errorf("uploading %q: %w", opts.output, err)
		}
		logger.Info("uploaded to google drive", slog.String("id", id))
		fmt.Printf("Uploaded to Google Drive with ID: %s\n", id)
	}

	return nil
}

func driveUpload(ctx context.Context, fpath, name string) (string, error) {
	dir, err := drive.ConfigDir()
	if err != nil {
		return "", err
	}
	client, err := drive.New(ctx, dir)
	if err != nil {
		return "", err
	}
	return client.Upload(ctx, fpath, name)
}
