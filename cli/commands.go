package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deanrtaylor1/gospam/config"
	"github.com/deanrtaylor1/gospam/corpus"
	"github.com/deanrtaylor1/gospam/feature"
	"github.com/deanrtaylor1/gospam/histogram"
	"github.com/deanrtaylor1/gospam/lexer"
	"github.com/deanrtaylor1/gospam/logger"
	"github.com/deanrtaylor1/gospam/model"
	"github.com/deanrtaylor1/gospam/server"
	"github.com/deanrtaylor1/gospam/util"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

// app is the state shared by every command
type app struct {
	cfg     config.Config
	log     *zap.Logger
	stemmer *lexer.Stemmer
	opts    model.Options
}

func newApp() (*app, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		v.Set("logging.level", logLevel)
	}
	cfg := config.Load(v)

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	config.Watch(v, func(e fsnotify.Event) {
		log.Info("config file changed, restart to apply", zap.String("file", e.Name))
	})

	a := &app{cfg: cfg, log: log}
	var stemmer feature.Stemmer
	if cfg.Stem {
		a.stemmer, err = lexer.NewStemmer()
		if err != nil {
			return nil, errors.Wrap(err, "creating stemmer")
		}
		stemmer = a.stemmer
	}

	bucketer, err := feature.NewBucketer(cfg.CacheSize, stemmer)
	if err != nil {
		a.close()
		return nil, errors.Wrap(err, "creating bucketer")
	}
	a.opts = model.Options{Bucketer: bucketer, Stemmed: cfg.Stem, Logger: log}
	return a, nil
}

func (a *app) close() {
	if a.stemmer != nil {
		a.stemmer.Close()
	}
	_ = a.log.Sync()
}

// train builds a model from the configured corpora
func (a *app) train() (*model.Model, error) {
	spam, err := corpus.LoadWords(a.cfg.SpamPath)
	if err != nil {
		return nil, err
	}
	ham, err := corpus.LoadWords(a.cfg.HamPath)
	if err != nil {
		return nil, err
	}
	stops, err := corpus.LoadStopWords(a.cfg.StopWordsPath)
	if err != nil {
		return nil, err
	}
	return model.Train(spam, ham, stops, a.opts)
}

// loadModel loads the cached model when one is configured and newer than
// every corpus file, otherwise trains one and rewrites the cache.
func (a *app) loadModel() (*model.Model, error) {
	if a.cfg.ModelCache == "" {
		return a.train()
	}

	fresh, err := a.cacheFresh()
	if err != nil {
		return nil, err
	}
	if fresh {
		m, err := model.Load(a.cfg.ModelCache, a.opts)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, model.ErrStemMismatch) {
			return nil, err
		}
		a.log.Warn("retraining model", zap.String("cache", a.cfg.ModelCache), zap.Error(err))
	}

	m, err := a.train()
	if err != nil {
		return nil, err
	}
	if err := m.Save(a.cfg.ModelCache, model.FileOpsImpl{}); err != nil {
		logger.HandleError(err)
	}
	return m, nil
}

// cacheFresh reports whether the model cache exists and was written no
// earlier than the last change to any corpus file. Missing corpus files are
// ignored so a cache can be deployed on its own.
func (a *app) cacheFresh() (bool, error) {
	cache, err := os.Stat(a.cfg.ModelCache)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", a.cfg.ModelCache)
	}

	for _, path := range []string{a.cfg.SpamPath, a.cfg.HamPath, a.cfg.StopWordsPath} {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return false, errors.Wrapf(err, "stat %s", path)
		}
		if info.ModTime().After(cache.ModTime()) {
			a.log.Info("corpus changed since model was cached", zap.String("file", path))
			return false, nil
		}
	}
	return true, nil
}

// NewRootCommand builds the gospam command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gospam",
		Short: "Classify text messages as spam or ham",
		Long: `gospam scores a text message against word histograms built from a spam
and a ham corpus. Positive scores are HAM, everything else is SPAM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runClassify,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(histogramCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// Execute runs the command tree against os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// classifyCmd starts the interactive session
func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Interactively classify messages until exit",
		Args:  cobra.NoArgs,
		RunE:  runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.loadModel()
	if err != nil {
		return err
	}

	session := &Session{Model: m}
	if in, ok := cmd.InOrStdin().(*os.File); ok && util.IsTerminal(in) {
		session.Prompter = surveyPrompter{}
	} else {
		session.Prompter = newLinePrompter(cmd.InOrStdin())
	}
	if out, ok := cmd.OutOrStdout().(*os.File); ok && out == os.Stdout && util.IsTerminal(out) {
		session.Out = util.Stdout()
		session.Color = true
	} else {
		session.Out = cmd.OutOrStdout()
	}
	return session.Run()
}

// scoreCmd classifies the message given as arguments
func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score MESSAGE...",
		Short: "Classify a single message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m, err := a.loadModel()
			if err != nil {
				return err
			}
			PrintResult(cmd.OutOrStdout(), m.Classify(strings.Join(args, " ")), false)
			return nil
		},
	}
}

// trainCmd builds a model from the corpora and writes it to disk
func trainCmd() *cobra.Command {
	var out string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from the corpora and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if out == "" {
				out = a.cfg.ModelCache
			}
			if out == "" {
				return errors.New("no output file: pass --out or set model.cache")
			}

			m, err := a.train()
			if err != nil {
				return err
			}

			var ops model.FileOps = model.FileOpsImpl{}
			if dryRun {
				ops = model.FileOpsNoOp{}
			}
			if err := m.Save(out, ops); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "spam words: %d\nham words: %d\n",
				m.Histogram(model.Spam).Total(), m.Histogram(model.Ham).Total())
			if !dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "model saved to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Model file (defaults to model.cache)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Train without writing the model")
	return cmd
}

// histogramCmd prints the heaviest buckets of one class
func histogramCmd() *cobra.Command {
	var className string
	var top int

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Show the heaviest buckets of a class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := model.ParseClass(className)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m, err := a.loadModel()
			if err != nil {
				return err
			}
			PrintHistogram(cmd.OutOrStdout(), m, class, top)
			return nil
		},
	}

	cmd.Flags().StringVar(&className, "class", "spam", "Class to show (spam or ham)")
	cmd.Flags().IntVarP(&top, "top", "n", 20, "Number of buckets to show")
	return cmd
}

// serveCmd exposes the model over HTTP
func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			m, err := a.loadModel()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.ServerAddr
			}
			return server.Serve(addr, m, a.log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")
	return cmd
}

// PrintHistogram writes the top buckets of class as a table
func PrintHistogram(w io.Writer, m *model.Model, class model.Class, top int) {
	weights := m.Weights(class)
	fmt.Fprintf(w, "%s buckets\n", class)
	fmt.Fprintf(w, "%-8s %-8s %s\n", "bucket", "count", "weight")
	for _, s := range histogram.Top(m.Histogram(class), top) {
		fmt.Fprintf(w, "%-8d %-8d %.6f\n", s.Bucket, s.Count, weights[s.Bucket])
	}
}
