package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/neurlang/dgadetect/cliconfig"
	"github.com/neurlang/dgadetect/datasets"
	"github.com/neurlang/dgadetect/datasets/dga"
	"github.com/neurlang/dgadetect/inference"
	"github.com/neurlang/dgadetect/learning"
	"github.com/neurlang/dgadetect/net/gru"
	"github.com/neurlang/dgadetect/tokenizer"
	"github.com/neurlang/dgadetect/trainer"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "dgadetect",
		Short:         "Train and serve a GRU classifier for DGA domain names",
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				path = cliconfig.DefaultConfigPath()
			}
			if err := cliconfig.ApplyFile(&cfg, path); err != nil {
				return err
			}
			cliconfig.ApplyEnv(&cfg)
			// Flags win: re-apply any that were set explicitly.
			applyFlagOverrides(cmd.Flags(), &cfg)
			if cfg.Debug {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "config file (default ~/.dgadetect/config.toml)")
	pf.String("model", cfg.ModelPath, "model artifact path")
	pf.Bool("debug", cfg.Debug, "enable debug logging")

	root.AddCommand(trainCmd(&cfg, &log))
	root.AddCommand(predictCmd(&cfg, &log))
	root.AddCommand(evalCmd(&cfg, &log))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func applyFlagOverrides(f *pflag.FlagSet, cfg *cliconfig.Config) {
	if f.Changed("model") {
		cfg.ModelPath, _ = f.GetString("model")
	}
	if f.Changed("debug") {
		cfg.Debug, _ = f.GetBool("debug")
	}
	if f.Changed("data") {
		cfg.DataPath, _ = f.GetString("data")
	}
	if f.Changed("epochs") {
		cfg.Epochs, _ = f.GetInt("epochs")
	}
	if f.Changed("batch-size") {
		cfg.BatchSize, _ = f.GetInt("batch-size")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("learning-rate") {
		cfg.LearningRate, _ = f.GetFloat64("learning-rate")
	}
	if f.Changed("train-fraction") {
		cfg.TrainFraction, _ = f.GetFloat64("train-fraction")
	}
	if f.Changed("hidden") {
		cfg.Hidden, _ = f.GetInt("hidden")
	}
	if f.Changed("layers") {
		cfg.Layers, _ = f.GetInt("layers")
	}
	if f.Changed("watch") {
		cfg.Watch, _ = f.GetBool("watch")
	}
}

// loadCorpus reads the configured CSV, or falls back to the bundled
// deterministic corpus when no data path is set.
func loadCorpus(cfg *cliconfig.Config, log zerolog.Logger) (datasets.Dataset, error) {
	if cfg.DataPath == "" {
		log.Info().Msg("no data file configured, using the bundled example corpus")
		return dga.Corpus(2000, cfg.Seed), nil
	}
	return datasets.LoadCSV(cfg.DataPath, cfg.DomainColumn, cfg.LabelColumn)
}

func hyperParameters(cfg *cliconfig.Config) learning.HyperParameters {
	hp := learning.DefaultHyperParameters()
	hp.LearningRate = cfg.LearningRate
	hp.WeightDecay = cfg.WeightDecay
	hp.BatchSize = cfg.BatchSize
	hp.Epochs = cfg.Epochs
	hp.TrainFraction = cfg.TrainFraction
	hp.Seed = cfg.Seed
	return hp
}

func trainCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a classifier and save the model artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ds, err := loadCorpus(cfg, *log)
			if err != nil {
				return err
			}
			tok, err := tokenizer.New(cfg.VocabSize, cfg.MaxLen)
			if err != nil {
				return err
			}
			net, err := gru.New(gru.Config{
				VocabSize: tok.VocabSize(),
				EmbedSize: cfg.EmbedSize,
				Hidden:    cfg.Hidden,
				Layers:    cfg.Layers,
				Classes:   2,
				MaxLen:    tok.MaxLen(),
			}, cfg.Seed)
			if err != nil {
				return err
			}
			hp := hyperParameters(cfg)
			tr := trainer.New(net, tok, hp, *log)
			if err := tr.Train(ctx, ds.Domains(), ds.Labels()); err != nil {
				return err
			}
			if err := net.WriteFile(cfg.ModelPath); err != nil {
				return err
			}
			log.Info().Str("path", cfg.ModelPath).Msg("model saved")

			// Final report on the same held-out partition the trainer used.
			_, test := ds.Split(hp.TrainFraction, hp.Seed)
			if len(test) > 0 {
				acc := trainer.Accuracy(net, tok, test, hp.BatchSize)
				ap := trainer.AveragePrecision(trainer.Scores(net, tok, test, hp.BatchSize), test.Labels())
				log.Info().Float64("accuracy", acc).Float64("average_precision", ap).Msg("held-out evaluation")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("data", cfg.DataPath, "labeled CSV corpus (default: bundled example corpus)")
	f.Int("epochs", cfg.Epochs, "training epochs")
	f.Int("batch-size", cfg.BatchSize, "mini-batch size")
	f.Int("hidden", cfg.Hidden, "GRU hidden width")
	f.Int("layers", cfg.Layers, "GRU layer count")
	f.Int64("seed", cfg.Seed, "random seed for init, split and shuffle")
	f.Float64("learning-rate", cfg.LearningRate, "AdamW learning rate")
	f.Float64("train-fraction", cfg.TrainFraction, "train/test split fraction")
	return cmd
}

func predictCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [domain ...]",
		Short: "Score domains with a saved model (reads stdin without args)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := inference.NewFromFile(cfg.ModelPath, cfg.PredictBatch)
			if err != nil {
				return err
			}
			if cfg.Watch {
				go func() {
					if err := p.Watch(ctx, cfg.ModelPath, cfg.WatchDebounce, *log); err != nil && ctx.Err() == nil {
						log.Warn().Err(err).Msg("model watcher stopped")
					}
				}()
			}

			w := cmd.OutOrStdout()
			if len(args) > 0 {
				out, err := p.Predict(ctx, args)
				if err != nil {
					return err
				}
				for _, pr := range out {
					printPrediction(w, pr)
				}
				return nil
			}
			// Stream stdin one domain per line, scoring each as it arrives;
			// a watched model swap applies to later lines.
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				d := sc.Text()
				if d == "" {
					continue
				}
				pr, err := p.PredictOne(ctx, d)
				if err != nil {
					return err
				}
				printPrediction(w, pr)
			}
			return sc.Err()
		},
	}
	f := cmd.Flags()
	f.Bool("watch", cfg.Watch, "reload the model when the artifact changes")
	return cmd
}

func printPrediction(w io.Writer, pr inference.Prediction) {
	verdict := "benign"
	if pr.Class == datasets.LabelDGA {
		verdict = "dga"
	}
	fmt.Fprintf(w, "%s\t%s\t%.4f\n", pr.Domain, verdict, pr.Prob)
}

func evalCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a saved model against a labeled CSV corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadCorpus(cfg, *log)
			if err != nil {
				return err
			}
			net, err := gru.ReadFile(cfg.ModelPath)
			if err != nil {
				return err
			}
			tok, err := tokenizer.New(net.Config().VocabSize, net.Config().MaxLen)
			if err != nil {
				return err
			}
			acc := trainer.Accuracy(net, tok, ds, cfg.PredictBatch)
			ap := trainer.AveragePrecision(trainer.Scores(net, tok, ds, cfg.PredictBatch), ds.Labels())
			log.Info().
				Int("samples", len(ds)).
				Float64("accuracy", acc).
				Float64("average_precision", ap).
				Msg("evaluation complete")
			fmt.Fprintf(cmd.OutOrStdout(), "accuracy %.4f\naverage precision %.4f\n", acc, ap)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("data", cfg.DataPath, "labeled CSV corpus (default: bundled example corpus)")
	return cmd
}
