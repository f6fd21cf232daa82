package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/framegrab/pkg/config"
	"github.com/tauraamui/framegrab/pkg/configdef"
	"github.com/tauraamui/framegrab/pkg/extract"
	"github.com/tauraamui/framegrab/pkg/log"
	"github.com/tauraamui/framegrab/pkg/video/videobackend"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const (
	name        = "framegrab"
	description = "Extracts a single frame from a video as an image and a single frame video"
)

const (
	// Flags.
	flagVideoFile       = "video_file"
	flagFrameIndex      = "frame_index"
	flagOutputImage     = "output_image"
	flagOutputVideo     = "output_video"
	flagCodec           = "codec"
	flagVerifySeek      = "verify_seek"
	flagBackend         = "backend"
	flagDetections      = "detections"
	flagOutputAnnotated = "output_annotated"
	flagConfig          = "config"
	flagInitConfig      = "init_config"
	flagLogLevel        = "log_level"
	flagNoColor         = "no_color"
)

func newApp() *cli.App {
	defaults := config.Defaults()
	return &cli.App{
		Name:  name,
		Usage: description,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagVideoFile,
				Usage: "video `FILE` to extract from",
				Value: defaults.VideoFile,
			},
			&cli.IntFlag{
				Name:  flagFrameIndex,
				Usage: "zero based index of the frame to extract",
				Value: defaults.FrameIndex,
			},
			&cli.StringFlag{
				Name:  flagOutputImage,
				Usage: "still image output `FILE`, format inferred from extension",
				Value: defaults.OutputImage,
			},
			&cli.StringFlag{
				Name:  flagOutputVideo,
				Usage: "single frame video output `FILE`",
				Value: defaults.OutputVideo,
			},
			&cli.StringFlag{
				Name:  flagCodec,
				Usage: "four character code of the output video codec",
				Value: defaults.Codec,
			},
			&cli.BoolFlag{
				Name:  flagVerifySeek,
				Usage: "check the decoder landed on the requested frame after seeking",
				Value: defaults.VerifySeek,
			},
			&cli.StringFlag{
				Name:    flagBackend,
				Usage:   "video backend, opencv or mock",
				Value:   defaults.Backend,
				EnvVars: []string{"FRAMEGRAB_VIDEO_BACKEND"},
			},
			&cli.StringFlag{
				Name:  flagDetections,
				Usage: "optional detections JSON `FILE` to draw onto the frame",
			},
			&cli.StringFlag{
				Name:  flagOutputAnnotated,
				Usage: "annotated image output `FILE`, required with --detections",
			},
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "load defaults from config `FILE` instead of $FRAMEGRAB_CONFIG or the user config dir",
			},
			&cli.BoolFlag{
				Name:  flagInitConfig,
				Usage: "write a default config file and exit",
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "logging level, one of debug, info, warn or silent, each showing everything the next does",
				Value:   defaults.LogLevel,
				EnvVars: []string{"FRAMEGRAB_LOGGING_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  flagNoColor,
				Usage: "disable coloured log level labels",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagNoColor) || !isTerminal(c.App.ErrWriter) {
				color.NoColor = true
			}
			if c.IsSet(flagLogLevel) {
				return log.SetLevel(c.String(flagLogLevel))
			}
			return nil
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	if c.Bool(flagInitConfig) {
		return initConfig(c.App.Writer, c.String(flagConfig))
	}

	cfg, err := config.ResolverFor(c.String(flagConfig)).Resolve()
	if err != nil {
		return err
	}

	if !c.IsSet(flagLogLevel) {
		if err := log.SetLevel(cfg.LogLevel); err != nil {
			return err
		}
	}

	backend := videobackend.Resolve(resolveBackendName(c, cfg))
	opts := options(c, cfg)
	log.Debug("Extracting frame %d of %s", opts.FrameIndex, opts.VideoFile)

	result, err := extract.New(backend).Extract(opts)
	if err != nil {
		return err
	}

	log.Info(
		"%s: %d frames, %s at %.2f fps",
		opts.VideoFile, result.Metadata.FrameCount, result.Metadata.Dimensions, result.Metadata.FPS,
	)
	fmt.Fprintln(c.App.Writer, "Done.")
	return nil
}

func initConfig(w io.Writer, path string) error {
	written, err := config.CreatorFor(path).Create()
	if err != nil {
		if errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return fmt.Errorf("%w: %s", err, written)
		}
		return err
	}

	fmt.Fprintf(w, "Wrote default config to %s\n", written)
	return nil
}

type flagLookup interface {
	IsSet(string) bool
	String(string) string
	Int(string) int
	Bool(string) bool
}

// options merges explicitly given flags over config values.
func options(c flagLookup, cfg configdef.Values) extract.Options {
	opts := extract.Options{
		VideoFile:       cfg.VideoFile,
		FrameIndex:      cfg.FrameIndex,
		OutputImage:     cfg.OutputImage,
		OutputVideo:     cfg.OutputVideo,
		Codec:           cfg.Codec,
		VerifySeek:      cfg.VerifySeek,
		Detections:      c.String(flagDetections),
		OutputAnnotated: c.String(flagOutputAnnotated),
	}

	if c.IsSet(flagVideoFile) {
		opts.VideoFile = c.String(flagVideoFile)
	}
	if c.IsSet(flagFrameIndex) {
		opts.FrameIndex = c.Int(flagFrameIndex)
	}
	if c.IsSet(flagOutputImage) {
		opts.OutputImage = c.String(flagOutputImage)
	}
	if c.IsSet(flagOutputVideo) {
		opts.OutputVideo = c.String(flagOutputVideo)
	}
	if c.IsSet(flagCodec) {
		opts.Codec = c.String(flagCodec)
	}
	if c.IsSet(flagVerifySeek) {
		opts.VerifySeek = c.Bool(flagVerifySeek)
	}
	return opts
}

func resolveBackendName(c flagLookup, cfg configdef.Values) string {
	if c.IsSet(flagBackend) {
		return c.String(flagBackend)
	}
	return cfg.Backend
}

// isTerminal reports whether w is a file attached to a terminal.
// color only checks stdout, while errors go to stderr.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	logging.CurrentLoggingLevel = logging.WarnLevel
}

// runApp runs the app against args and returns the exit code.
// Failures are always written to stderr, whatever the log level.
func runApp(args []string, stdout, stderr io.Writer) int {
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runApp(os.Args, os.Stdout, os.Stderr))
}
