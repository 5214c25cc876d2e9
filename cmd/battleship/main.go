package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"battleship/internal/ai"
	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/console"
	"battleship/internal/game"
	"battleship/internal/server"
	"battleship/internal/zk"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "play":
		cmdPlay()
	case "fleet":
		cmdFleet()
	case "serve":
		cmdServe()
	case "verify":
		cmdVerify()
	default:
		usage()
	}
}

func usage() {
	fmt.Println(`Battleship CLI

Commands:
  play   --ships ships.txt --width 10 --height 10 --ai smart [--win sunk|all] [--seed N]
         [--commit [--keys ./keys --proofs ./proofs --reveal secret.json]]
  fleet  --width 10 --height 10 --lengths A=5,B=4,C=3,S=3,D=2 [--seed N] [--out ships.txt]
  serve  --addr :8080 [--keys ./keys]
  verify --vk ./keys/shot.vk --root ROOT_HEX --proof proof.json --row R --col C --width W

Missing play settings are asked for interactively.`)
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}

func seeded(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

const aiMenu = "Choose your AI.\n" +
	"1. Random\n" +
	"2. Smart\n" +
	"3. Cheater\n" +
	" Your choice: "

func cmdPlay() {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	width := fs.Int("width", 0, "board width (asked if 0)")
	height := fs.Int("height", 0, "board height (asked if 0)")
	shipsPath := fs.String("ships", "", "ship placement file (asked if empty)")
	aiName := fs.String("ai", "", "computer strategy: 1|random, 2|smart, 3|cheater (asked if empty)")
	winName := fs.String("win", "sunk", "win rule: sunk (all ships sunk) or all (every cell fired)")
	seed := fs.Uint64("seed", 0, "random seed, 0 for a random game")
	commit := fs.Bool("commit", false, "commit the computer's fleet before play and audit it afterwards")
	keysDir := fs.String("keys", "", "groth16 keys directory; with --commit, proves every answer")
	proofsDir := fs.String("proofs", "", "write each proof to this directory (needs --keys)")
	reveal := fs.String("reveal", "", "write the commitment secret here when the game ends")
	level := fs.String("log-level", "warn", "log level")
	_ = fs.Parse(os.Args[2:])
	setupLogger(*level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	p := console.NewPrompter(os.Stdin, os.Stdout)

	var err error
	if *width <= 0 {
		if *width, err = p.Int(ctx, "Enter the width of the board: ", 1, app.MaxDimension); err != nil {
			log.Fatal().Err(err).Msg("width")
		}
	}
	if *height <= 0 {
		if *height, err = p.Int(ctx, "Enter the height of the board: ", 1, app.MaxDimension); err != nil {
			log.Fatal().Err(err).Msg("height")
		}
	}
	if *shipsPath == "" {
		if *shipsPath, err = p.Line(ctx, "Enter the name of the file containing your ship placements: "); err != nil {
			log.Fatal().Err(err).Msg("ship file")
		}
	}
	specs, err := codec.LoadPlacements(*shipsPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *shipsPath).Msg("read ship placements")
	}

	var mode ai.Mode
	if *aiName == "" {
		n, err := p.Int(ctx, aiMenu, 1, 3)
		if err != nil {
			log.Fatal().Err(err).Msg("ai")
		}
		mode = ai.Mode(n)
	} else if mode, err = ai.ParseMode(*aiName); err != nil {
		log.Fatal().Err(err).Msg("ai")
	}
	rule, err := app.ParseWinRule(*winName)
	if err != nil {
		log.Fatal().Err(err).Msg("win")
	}

	var keys *zk.Keys
	if *commit && *keysDir != "" {
		if keys, err = zk.EnsureShotKeys(*keysDir); err != nil {
			log.Fatal().Err(err).Msg("load keys")
		}
	}

	sess, err := app.New(app.Config{
		Width:  *width,
		Height: *height,
		Ships:  specs,
		Mode:   mode,
		Rule:   rule,
		Rand:   seeded(*seed),
		Commit: *commit,
		Keys:   keys,
		Logger: &log.Logger,
	})
	if err != nil {
		fmt.Printf("Error: %v. Terminating game.\n", err)
		os.Exit(1)
	}
	fmt.Println("AI ships placed.")
	if c := sess.Commitment(); c != nil {
		fmt.Println("AI fleet commitment:", c.RootHex)
	}

	var fb app.Feedback = console.NewAnnouncer(os.Stdout)
	if keys != nil && *proofsDir != "" {
		if err := os.MkdirAll(*proofsDir, 0o755); err != nil {
			log.Fatal().Err(err).Msg("proofs directory")
		}
		fb = &provingFeedback{Feedback: fb, sess: sess, dir: *proofsDir}
	}

	if _, err := sess.Play(ctx, p, console.NewRenderer(os.Stdout), fb); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println()
			return
		}
		log.Fatal().Err(err).Msg("play")
	}

	c := sess.Commitment()
	if c == nil {
		return
	}
	if err := app.Audit(c.Secret, c.RootHex, sess.ComputerFleet()); err != nil {
		fmt.Println("Fleet audit FAILED:", err)
		os.Exit(1)
	}
	fmt.Println("Fleet audit passed: the AI played the fleet it committed to.")
	if *reveal != "" {
		if err := codec.SaveJSON(*reveal, &c.Secret); err != nil {
			log.Fatal().Err(err).Msg("reveal")
		}
		fmt.Println("✓ wrote", *reveal)
	}
}

// provingFeedback saves a proof of every answer the computer gives.
type provingFeedback struct {
	app.Feedback
	sess *app.Session
	dir  string
}

func (f *provingFeedback) Shot(by app.Side, at game.Coord, outcome game.Outcome) {
	f.Feedback.Shot(by, at, outcome)
	if by != app.SideHuman {
		return
	}
	payload, err := f.sess.ProveShot(at)
	if err != nil {
		log.Error().Err(err).Stringer("at", at).Msg("prove shot")
		return
	}
	out := filepath.Join(f.dir, fmt.Sprintf("shot-%d-%d.json", at.Row, at.Col))
	if err := codec.SaveJSON(out, payload); err != nil {
		log.Error().Err(err).Str("file", out).Msg("save proof")
		return
	}
	log.Debug().Str("file", out).Msg("proof written")
}

func cmdFleet() {
	fs := flag.NewFlagSet("fleet", flag.ExitOnError)
	width := fs.Int("width", 10, "board width")
	height := fs.Int("height", 10, "board height")
	lengths := fs.String("lengths", "A=5,B=4,C=3,S=3,D=2", "ship symbols and lengths")
	seed := fs.Uint64("seed", 0, "random seed, 0 for a random fleet")
	out := fs.String("out", "", "output placement file (stdout if empty)")
	level := fs.String("log-level", "info", "log level")
	_ = fs.Parse(os.Args[2:])
	setupLogger(*level)

	want, err := codec.ParseLengths(*lengths)
	if err != nil {
		log.Fatal().Err(err).Msg("lengths")
	}
	rng := seeded(*seed)
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	fleet, err := game.PlaceShips(rng, want, *width, *height)
	if err != nil {
		log.Fatal().Err(err).Msg("place ships")
	}
	if *out == "" {
		if err := codec.WritePlacements(os.Stdout, fleet.Specs()); err != nil {
			log.Fatal().Err(err).Msg("write")
		}
		return
	}
	if err := codec.SavePlacements(*out, fleet.Specs()); err != nil {
		log.Fatal().Err(err).Msg("write")
	}
	fmt.Println("✓ wrote", *out)
}

func cmdServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "listen address")
	keysDir := fs.String("keys", "", "groth16 keys directory; enables shot proofs")
	level := fs.String("log-level", "info", "log level")
	_ = fs.Parse(os.Args[2:])
	setupLogger(*level)

	var keys *zk.Keys
	if *keysDir != "" {
		var err error
		if keys, err = zk.EnsureShotKeys(*keysDir); err != nil {
			log.Fatal().Err(err).Msg("load keys")
		}
	}
	srv, err := server.New(log.Logger, keys)
	if err != nil {
		log.Fatal().Err(err).Msg("server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	hs := &http.Server{
		Addr:              *addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdown)
	}()

	log.Info().Str("addr", *addr).Bool("proofs", keys != nil).Msg("serving")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
}

func cmdVerify() {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	vkPath := fs.String("vk", "./keys/shot.vk", "verifying key file")
	rootHex := fs.String("root", "", "fleet commitment, hex prefixed 0x")
	proofPath := fs.String("proof", "proof.json", "proof payload json")
	row := fs.Int("row", -1, "row of the shot")
	col := fs.Int("col", -1, "column of the shot")
	width := fs.Int("width", 10, "board width")
	level := fs.String("log-level", "info", "log level")
	_ = fs.Parse(os.Args[2:])
	setupLogger(*level)

	if *rootHex == "" {
		log.Fatal().Msg("--root required")
	}
	root, err := codec.ParseHex(*rootHex)
	if err != nil {
		log.Fatal().Err(err).Msg("root")
	}
	if *row < 0 || *col < 0 || *col >= *width {
		log.Fatal().Msg("row/col out of range")
	}

	var payload codec.ShotProofPayload
	if err := codec.LoadJSON(*proofPath, &payload); err != nil {
		log.Fatal().Err(err).Msg("read proof")
	}
	vk, err := zk.ReadVK(*vkPath)
	if err != nil {
		log.Fatal().Err(err).Msg("read vk")
	}

	res, err := app.VerifyWithRoot(vk, root, game.Coord{Row: *row, Col: *col}, *width, payload)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid proof")
	}
	fmt.Println(map[uint8]string{0: "MISS", 1: "HIT"}[res.Hit])
}
