package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"battleship/internal/ai"
	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/zk"
)

// maxBodyBytes caps request bodies; the largest is a proof payload.
const maxBodyBytes = 64 << 10

// Server exposes games against the computer over HTTP. The computer answers
// each human shot in the same request, so a game at rest always waits on
// the human.
type Server struct {
	log   zerolog.Logger
	keys  *zk.Keys
	vkB64 string
	games *Store
}

// New builds a server. keys may be nil, in which case games can still be
// committed and audited but shots are not proven.
func New(log zerolog.Logger, keys *zk.Keys) (*Server, error) {
	s := &Server{log: log, keys: keys, games: NewStore()}
	if keys != nil {
		raw, err := zk.MarshalVK(keys.VK)
		if err != nil {
			return nil, err
		}
		s.vkB64 = base64.StdEncoding.EncodeToString(raw)
	}
	return s, nil
}

func (s *Server) Games() *Store { return s.games }

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))
	r.Use(WithCORS)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleCreate)
		r.Get("/games/{id}", s.handleGet)
		r.Delete("/games/{id}", s.handleDelete)
		r.Post("/games/{id}/shoot", s.handleShoot)
		r.Get("/games/{id}/events", s.handleEvents)
		r.Get("/vk", s.handleVK)
		r.Post("/verify", s.handleVerify)
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotYourTurn),
		errors.Is(err, app.ErrGameOver),
		errors.Is(err, app.ErrAlreadyFired):
		return http.StatusConflict
	case errors.Is(err, app.ErrNoKeys):
		return http.StatusNotImplemented
	case errors.Is(err, ai.ErrIllegalMove), errors.Is(err, ai.ErrNoMoves):
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// === Views ===

type shotView struct {
	By     app.Side                `json:"by"`
	Row    int                     `json:"row"`
	Col    int                     `json:"col"`
	Result string                  `json:"result"`
	Sunk   string                  `json:"sunk,omitempty"`
	Proof  *codec.ShotProofPayload `json:"proof,omitempty"`
}

func newShotView(by app.Side, at game.Coord, out game.Outcome) shotView {
	v := shotView{By: by, Row: at.Row, Col: at.Col, Result: out.Kind.String()}
	if out.Kind == game.OutcomeSunk {
		v.Sunk = out.Symbol.String()
	}
	return v
}

type gameView struct {
	ID       string      `json:"id"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	AI       ai.Mode     `json:"ai"`
	Win      app.WinRule `json:"win"`
	Turn     app.Side    `json:"turn"`
	Over     bool        `json:"over"`
	Winner   app.Side    `json:"winner,omitempty"`
	Friendly []string    `json:"friendly"`
	Enemy    []string    `json:"enemy"`
	Shots    []shotView  `json:"shots"`
	RootHex  string      `json:"rootHex,omitempty"`
	Created  time.Time   `json:"created"`
	Watchers int         `json:"watchers"`

	// revealed once the game is over
	ComputerFleet game.Fleet    `json:"computerFleet,omitempty"`
	Secret        *codec.Secret `json:"secret,omitempty"`
}

func rows(b *game.Board, masked bool) []string {
	out := make([]string, 0, b.Height)
	var sb strings.Builder
	for _, row := range b.Cells() {
		sb.Reset()
		for _, cell := range row {
			if masked && cell.IsShip() {
				cell = game.Empty
			}
			sb.WriteRune(rune(cell))
		}
		out = append(out, sb.String())
	}
	return out
}

// view must be called with g.mu held.
func (g *Game) view() gameView {
	sess := g.session
	w, h := sess.Dimensions()
	v := gameView{
		ID:       g.ID.String(),
		Width:    w,
		Height:   h,
		AI:       sess.Mode(),
		Win:      sess.Rule(),
		Turn:     sess.Turn(),
		Over:     sess.Over(),
		Winner:   sess.Winner(),
		Friendly: rows(sess.HumanBoard(), false),
		Enemy:    rows(sess.ComputerBoard(), !sess.Over()),
		Created:  g.Created,
		Watchers: g.hub.Listeners(),
	}
	for _, sh := range sess.Shots() {
		v.Shots = append(v.Shots, newShotView(sh.By, sh.At, sh.Outcome))
	}
	if c := sess.Commitment(); c != nil {
		v.RootHex = c.RootHex
		if sess.Over() {
			sec := c.Secret
			v.Secret = &sec
		}
	}
	if sess.Over() {
		v.ComputerFleet = sess.ComputerFleet()
	}
	return v
}

// === Games ===

type createReq struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Ships  []game.ShipSpec `json:"ships"`
	AI     ai.Mode         `json:"ai"`
	Win    app.WinRule     `json:"win"`
	Seed   *uint64         `json:"seed,omitempty"`
	Commit bool            `json:"commit"`
	First  app.Side        `json:"first"` // SideNone picks at random
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}
	log := s.log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
	cfg := app.Config{
		Width:  req.Width,
		Height: req.Height,
		Ships:  req.Ships,
		Mode:   req.AI,
		Rule:   req.Win,
		First:  req.First,
		Commit: req.Commit,
		Keys:   s.keys,
		Logger: &log,
	}
	if req.Seed != nil {
		cfg.Rand = rand.New(rand.NewPCG(*req.Seed, *req.Seed))
	}
	sess, err := app.New(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// the computer opens before the game is stored so a game at rest always
	// waits on the human and nobody can be listening yet
	if sess.Turn() == app.SideComputer {
		if _, _, err := sess.FireComputer(); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}

	g := s.games.Add(sess)
	g.mu.Lock()
	defer g.mu.Unlock()
	s.log.Info().Str("game", g.ID.String()).Stringer("ai", sess.Mode()).Msg("game created")
	writeJSON(w, http.StatusCreated, g.view())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Find(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	g.mu.Lock()
	v := g.view()
	g.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.games.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === Shoot ===

type shootReq struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type shootResp struct {
	Human    shotView  `json:"human"`
	Computer *shotView `json:"computer,omitempty"`
	Game     gameView  `json:"game"`
}

// computerTurn must be called with g.mu held.
func (g *Game) computerTurn() (shotView, error) {
	at, out, err := g.session.FireComputer()
	if err != nil {
		return shotView{}, err
	}
	v := newShotView(app.SideComputer, at, out)
	g.hub.Publish("shot", v)
	g.publishOver()
	return v, nil
}

func (g *Game) publishOver() {
	if g.session.Over() {
		g.hub.Publish("over", map[string]app.Side{"winner": g.session.Winner()})
	}
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Find(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	var req shootReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	at := game.Coord{Row: req.Row, Col: req.Col}

	g.mu.Lock()
	defer g.mu.Unlock()
	sess := g.session

	out, err := sess.FireHuman(at)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	resp := shootResp{Human: newShotView(app.SideHuman, at, out)}
	if sess.Commitment() != nil && s.keys != nil {
		payload, err := sess.ProveShot(at)
		if err != nil {
			s.log.Error().Err(err).Str("game", g.ID.String()).Stringer("at", at).Msg("prove shot")
		} else {
			resp.Human.Proof = payload
		}
	}
	g.hub.Publish("shot", resp.Human)
	g.publishOver()

	if !sess.Over() {
		cv, err := g.computerTurn()
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		resp.Computer = &cv
	}
	resp.Game = g.view()
	writeJSON(w, http.StatusOK, resp)
}

// === Events ===

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	g, err := s.games.Find(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	g.mu.Lock()
	hello := wsMessage{Type: "state", Payload: mustMarshal(g.view())}
	g.mu.Unlock()
	if err := g.hub.serve(w, r, hello); err != nil {
		s.log.Debug().Err(err).Str("game", g.ID.String()).Msg("websocket upgrade")
	}
}

// === Proofs ===

func (s *Server) handleVK(w http.ResponseWriter, r *http.Request) {
	if s.vkB64 == "" {
		writeError(w, http.StatusNotFound, app.ErrNoKeys)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"vkB64": s.vkB64})
}

type verifyReq struct {
	RootHex string                 `json:"rootHex"`
	Row     int                    `json:"row"`
	Col     int                    `json:"col"`
	Width   int                    `json:"width"`
	Payload codec.ShotProofPayload `json:"payload"`
	VKB64   string                 `json:"vkB64,omitempty"` // defaults to this server's key
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}

	var vk groth16.VerifyingKey
	switch {
	case strings.TrimSpace(req.VKB64) != "":
		raw, err := base64.StdEncoding.DecodeString(req.VKB64)
		if err != nil || len(raw) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vkB64"})
			return
		}
		if vk, err = zk.UnmarshalVK(raw); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	case s.keys != nil:
		vk = s.keys.VK
	default:
		writeError(w, http.StatusBadRequest, app.ErrNoKeys)
		return
	}

	root, err := codec.ParseHex(req.RootHex)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := app.VerifyWithRoot(vk, root, game.Coord{Row: req.Row, Col: req.Col}, req.Width, req.Payload)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// === CORS ===

func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// In dev we allow any origin. For production, set this to the specific origin(s).
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
