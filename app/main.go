package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vijaykumarpeta/yt-comments-extractor/app/processor"
	"github.com/vijaykumarpeta/yt-comments-extractor/lib/ytspam"
)

type options struct {
	Input  string `short:"i" long:"input" env:"INPUT" default:"-" description:"comments input, json lines, - for stdin"`
	Output string `short:"o" long:"output" env:"OUTPUT" default:"-" description:"results output, json lines, - for stdout"`

	Sensitivity string  `long:"sensitivity" env:"SENSITIVITY" default:"moderate" choice:"light" choice:"moderate" choice:"aggressive" description:"detection preset"`
	Threshold   float64 `long:"threshold" env:"THRESHOLD" default:"-1" description:"custom spam threshold in [0,1], overrides sensitivity"`
	MaxEmoji    int     `long:"max-emoji" env:"MAX_EMOJI" default:"6" description:"max emoji count in a comment, -1 to disable check"`
	KeepSpam    bool    `long:"keep-spam" env:"KEEP_SPAM" description:"keep flagged spam in the main output"`
	MinLikes    int     `long:"min-likes" env:"MIN_LIKES" default:"0" description:"drop comments with fewer likes"`
	FilterWords string  `long:"filter-words" env:"FILTER_WORDS" description:"comma-separated words, keep only comments matching any of them"`
	Workers     int     `long:"workers" env:"WORKERS" default:"8" description:"classification concurrency"`

	Files struct {
		Blacklist string `long:"blacklist" env:"BLACKLIST" description:"blacklist patterns file"`
		Whitelist string `long:"whitelist" env:"WHITELIST" description:"whitelist patterns file"`
		Watch     bool   `long:"watch" env:"WATCH" description:"reload pattern files on change"`
	} `group:"files" namespace:"files" env-namespace:"FILES"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated spam log"`
		FileName   string `long:"file" env:"FILE" default:"yt-spam.log" description:"location of spam log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("yt-comments-spam %s\n", revision)
	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg)
	log.Printf("[DEBUG] options: %+v", opts)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, opts options) error {
	detector, err := makeDetector(opts)
	if err != nil {
		return fmt.Errorf("can't make detector, %w", err)
	}

	if opts.Files.Blacklist != "" || opts.Files.Whitelist != "" {
		if err := processor.LoadPatterns(detector, opts.Files.Blacklist, opts.Files.Whitelist); err != nil {
			return fmt.Errorf("can't load patterns, %w", err)
		}
		if opts.Files.Watch {
			go processor.WatchPatterns(ctx, detector, opts.Files.Blacklist, opts.Files.Whitelist)
		}
	}

	// make spam log writer, rotated with lumberjack if enabled
	loggerWr, err := makeSpamLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make spam log writer, %w", err)
	}
	defer loggerWr.Close()

	input, err := openInput(opts.Input)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := openOutput(opts.Output)
	if err != nil {
		return err
	}
	defer output.Close()

	params := processor.Params{
		Filter:   processor.NewWordsFilter(opts.FilterWords),
		MinLikes: opts.MinLikes,
		KeepSpam: opts.KeepSpam,
		Workers:  opts.Workers,
	}
	log.Printf("[DEBUG] processor config: %+v, filter words: %v", params, params.Filter.Words())

	proc := processor.New(detector, loggerWr, params)
	stats, err := proc.Run(ctx, input, output)
	if err != nil {
		return fmt.Errorf("processing failed, %w", err)
	}
	log.Printf("[INFO] done, %s", stats.String())
	return nil
}

func makeDetector(opts options) (*ytspam.Detector, error) {
	threshold := opts.Threshold
	if threshold < 0 {
		preset, err := ytspam.PresetThreshold(opts.Sensitivity)
		if err != nil {
			return nil, err
		}
		threshold = preset
	}

	detectorConfig := ytspam.Config{
		Threshold: threshold,
		MaxEmoji:  opts.MaxEmoji,
		CacheSize: 5000,
	}
	log.Printf("[DEBUG] detector config: %+v", detectorConfig)
	return ytspam.NewDetector(detectorConfig)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path) //nolint gosec // path is controlled by the app
	if err != nil {
		return nil, fmt.Errorf("can't open input %s, %w", path, err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path) //nolint gosec // path is controlled by the app
	if err != nil {
		return nil, fmt.Errorf("can't create output %s, %w", path, err)
	}
	return f, nil
}

// makeSpamLogWriter creates spam log writer to keep reports about flagged comments
// it parses options and makes lumberjack logger with rotation
func makeSpamLogWriter(opts options) (spamLog io.WriteCloser, err error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{io.Discard}, nil
	}

	sizeParse := func(inp string) (uint64, error) {
		if inp == "" {
			return 0, errors.New("empty value")
		}
		for i, sfx := range []string{"k", "m", "g", "t"} {
			if strings.HasSuffix(inp, strings.ToUpper(sfx)) || strings.HasSuffix(inp, strings.ToLower(sfx)) {
				val, err := strconv.Atoi(inp[:len(inp)-1])
				if err != nil {
					return 0, fmt.Errorf("can't parse %s: %w", inp, err)
				}
				return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
			}
		}
		return strconv.ParseUint(inp, 10, 64)
	}

	maxSize, perr := sizeParse(opts.Logger.MaxSize)
	if perr != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", perr)
	}

	maxSize /= 1048576

	log.Printf("[INFO] spam log enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
