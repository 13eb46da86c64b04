package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/camden-git/galleryprep/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	envFile    string
	imagesRoot string
	verbose    bool
}

// NewRootCommand builds the galleryprep command tree. Commands read answers
// from in and write prompts and reports to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	var app *App

	rootCmd := &cobra.Command{
		Use:   "galleryprep",
		Short: "Prepare a static photo gallery's asset directory",
		Long: `galleryprep converts and resizes gallery photos, writes per-folder
manifests, and maintains the gallery registry (title, cover, password,
download link) from which the public listing and secrets documents are
generated.

Run without arguments to start the interactive gallery wizard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(opts.envFile); err != nil {
				return err
			}
			logger, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if opts.imagesRoot != "" {
				if cfg, err = cfg.WithImagesRoot(opts.imagesRoot); err != nil {
					return err
				}
			}
			app = NewApp(cfg, logger)
			logger.Debug("configuration loaded",
				zap.String("images_root", cfg.ImagesRoot),
				zap.String("registry", cfg.RegistryPath),
				zap.Strings("extensions", cfg.ImageExtensions))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), app, NewPrompter(in, out, DefaultStyles()))
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load environment variables from this file (default .env if present)")
	rootCmd.PersistentFlags().StringVar(&opts.imagesRoot, "images-root", "", "gallery images root (overrides GALLERY_IMAGES_ROOT)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	appFn := func() *App { return app }
	rootCmd.AddCommand(
		newWizardCmd(appFn, in, out),
		newResizeCmd(appFn, in, out),
		newConvertCmd(appFn, in, out),
		newManifestCmd(appFn, in, out),
		newPublishCmd(appFn, out),
		newListCmd(appFn, out),
		newArchiveCmd(appFn, in, out),
	)
	return rootCmd
}

func loadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Info: No .env file loaded: %v", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.Sampling = nil
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.DisableCaller = false
	}
	return cfg.Build()
}
