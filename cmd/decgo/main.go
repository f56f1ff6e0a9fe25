// Command decgo translates sentences read from stdin, one per line,
// using a phrase table and optional ARPA language model.
//
// Model files are resolved against -models, a local directory by
// default or a MinIO/S3 endpoint when -endpoint is set. Environment
// defaults (DECGO_*) are read from the environment and an optional
// .env file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/decgo"
	"github.com/hupe1980/decgo/feature"
	"github.com/hupe1980/decgo/lm"
	"github.com/hupe1980/decgo/model"
	"github.com/hupe1980/decgo/modelstore"
	miniostore "github.com/hupe1980/decgo/modelstore/minio"
	"github.com/hupe1980/decgo/phrasetable"
	"github.com/hupe1980/decgo/searchgraph"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "decgo:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		modelsFlag    = flag.String("models", envStr("DECGO_MODELS", "."), "model directory or bucket")
		tableFlag     = flag.String("table", envStr("DECGO_TABLE", "phrase-table"), "phrase table file name")
		lmFlag        = flag.String("lm", envStr("DECGO_LM", ""), "ARPA language model file name (optional)")
		endpointFlag  = flag.String("endpoint", envStr("DECGO_ENDPOINT", ""), "S3-compatible endpoint for model files (optional)")
		accessKeyFlag = flag.String("access-key", envStr("DECGO_ACCESS_KEY", ""), "object store access key")
		secretKeyFlag = flag.String("secret-key", envStr("DECGO_SECRET_KEY", ""), "object store secret key")
		popLimitFlag  = flag.Int("pop-limit", envInt("DECGO_POP_LIMIT", decgo.DefaultPopLimit), "hypotheses popped per container expansion")
		beamFlag      = flag.Float64("beam", envFloat("DECGO_BEAM", 0), "additive beam width (0 disables)")
		stackFlag     = flag.Int("stack-size", envInt("DECGO_STACK_SIZE", decgo.DefaultStackSize), "representatives kept per stack")
		cubeKFlag     = flag.Int("cube-k", envInt("DECGO_CUBE_K", decgo.DefaultCubeK), "cube pruning grid budget")
		nbestFlag     = flag.Int("nbest", envInt("DECGO_NBEST", 1), "n-best list size")
		maxJumpFlag   = flag.Int("max-jump", envInt("DECGO_MAX_JUMP", decgo.DefaultMaxJump), "distortion limit (-1 unlimited)")
		distWFlag     = flag.Float64("distortion-weight", envFloat("DECGO_DISTORTION_WEIGHT", decgo.DefaultDistortion), "distortion weight")
		lmWFlag       = flag.Float64("lm-weight", envFloat("DECGO_LM_WEIGHT", decgo.DefaultLMWeight), "language model weight")
		wordPenFlag   = flag.Float64("word-penalty", envFloat("DECGO_WORD_PENALTY", 0), "word penalty weight")
		weightsFlag   = flag.String("weights", envStr("DECGO_WEIGHTS", "1"), "comma-separated translation feature weights")
		graphFlag     = flag.String("graph", "", "write zstd search graphs to this file prefix (optional)")
		verboseFlag   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := decgo.NewTextLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(*modelsFlag, *endpointFlag, *accessKeyFlag, *secretKeyFlag)
	if err != nil {
		return err
	}

	table, err := loadTable(ctx, store, *tableFlag)
	if err != nil {
		return fmt.Errorf("load phrase table: %w", err)
	}

	var lmModel lm.Model = lm.Uniform{}
	if *lmFlag != "" {
		lmModel, err = loadLM(ctx, store, *lmFlag)
		if err != nil {
			return fmt.Errorf("load language model: %w", err)
		}
	}

	weights, err := parseWeights(*weightsFlag)
	if err != nil {
		return err
	}

	opts := []decgo.Option{
		decgo.WithPopLimit(*popLimitFlag),
		decgo.WithBeamWidth(*beamFlag),
		decgo.WithStackSize(*stackFlag),
		decgo.WithCubeK(*cubeKFlag),
		decgo.WithNBestSize(*nbestFlag),
		decgo.WithLMWeight(*lmWFlag),
		decgo.WithWordPenalty(*wordPenFlag),
		decgo.WithDistortion(feature.Distortion{Weight: *distWFlag, Limit: *maxJumpFlag}),
		decgo.WithLogger(logger),
	}
	if *graphFlag != "" {
		opts = append(opts, decgo.WithSearchGraph())
	}

	dec, err := decgo.New(table, lmModel, weights, opts...)
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	lineNo := 0
	for sc.Scan() {
		lineNo++
		source := toSentence(sc.Text())

		if gaps := table.Gaps(source); len(gaps) > 0 {
			logger.Warn("untranslatable positions", "line", lineNo, "positions", gaps)
		}

		res, err := dec.Decode(ctx, source)
		if err != nil {
			return err
		}

		if best := res.Best(); best == nil {
			// No path through the search space: fall back to the
			// source surface form.
			fmt.Fprintln(out, source.String())
		} else if *nbestFlag > 1 {
			for i, tr := range res.NBest {
				fmt.Fprintf(out, "%d ||| %s ||| %g\n", i, tr.Words.String(), tr.Score)
			}
		} else {
			fmt.Fprintln(out, best.Words.String())
		}

		if *graphFlag != "" && len(res.Graph) > 0 {
			if err := writeGraph(fmt.Sprintf("%s.%d.zst", *graphFlag, lineNo), res.Graph); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}

func openStore(models, endpoint, accessKey, secretKey string) (modelstore.Store, error) {
	if endpoint == "" {
		return modelstore.NewLocal(models), nil
	}
	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, err
	}
	return miniostore.NewStore(client, models, ""), nil
}

func loadTable(ctx context.Context, store modelstore.Store, name string) (*phrasetable.Table, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return phrasetable.Load(rc)
}

func loadLM(ctx context.Context, store modelstore.Store, name string) (*lm.NGram, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return lm.LoadARPA(rc)
}

func writeGraph(path string, arcs []searchgraph.Arc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := searchgraph.Write(f, arcs); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func parseWeights(s string) (feature.Weights, error) {
	fields := strings.Split(s, ",")
	weights := make(feature.Weights, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight %q: %w", f, err)
		}
		weights = append(weights, v)
	}
	return weights, nil
}

func toSentence(line string) model.Sentence {
	fields := strings.Fields(line)
	words := make([]model.Word, 0, len(fields))
	for _, f := range fields {
		words = append(words, model.Word(f))
	}
	return words
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
