package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hako/durafmt"
	"github.com/jsphweid/tabdex/config"
	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/decode"
	"github.com/jsphweid/tabdex/export"
	"github.com/jsphweid/tabdex/logger"
	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/taberr"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// multipart framing allowed on top of the file itself
const uploadOverhead = 64 << 10

var port string

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the upload API",
	Long:  `Serves POST /parse (JSON or YAML document) and POST /midi for uploaded tab files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port != "" {
			cfg.Server.Port = port
		}
		addr := ":" + cfg.Server.Port
		logger.Infof("listening on %s", addr)
		return http.ListenAndServe(addr, NewServer(cfg).Router())
	},
}

type Server struct {
	cfg     *config.Config
	limiter *rate.Limiter
}

func NewServer(cfg *config.Config) *Server {
	s := &Server{cfg: cfg}
	if cfg.Server.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), util.Max(cfg.Server.Burst, 1))
	}
	return s
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/", s.HandleHealth).Methods("GET")
	router.HandleFunc("/parse", s.HandleParse).Methods("POST")
	router.HandleFunc("/midi", s.HandleMidi).Methods("POST")
	router.Use(s.limit)
	return cors.AllowAll().Handler(router)
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, errors.New("too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Ok:      true,
		Service: constants.ServiceName,
		Formats: strings.Join(util.TabExtensions, ","),
	})
}

func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	score, ok := s.decodeUpload(w, r)
	if !ok {
		return
	}
	opts := export.Options{
		Case:   export.ParseCase(r.URL.Query().Get("case")),
		Indent: r.URL.Query().Get("pretty") != "",
	}
	contentType := "application/json"
	if r.URL.Query().Get("format") == string(export.YAML) {
		opts.Format = export.YAML
		contentType = "application/yaml"
	}
	data, err := export.Encode(score, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) HandleMidi(w http.ResponseWriter, r *http.Request) {
	score, ok := s.decodeUpload(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := midi.Write(&buf, score); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// decodeUpload reads the multipart "file" field and decodes it. On failure
// the response has been written.
func (s *Server) decodeUpload(w http.ResponseWriter, r *http.Request) (*model.Score, bool) {
	start := time.Now()
	id := uuid.New().String()
	w.Header().Set("X-Request-Id", id)

	limit := s.cfg.Server.MaxUploadBytes
	if r.ContentLength > limit+uploadOverhead {
		writeError(w, http.StatusRequestEntityTooLarge, decode.CheckSize(r.ContentLength, limit))
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+uploadOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, decode.CheckSize(tooLarge.Limit+1, limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "expected a multipart file field named \"file\""))
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "reading upload"))
		return nil, false
	}

	score, err := decode.Decode(r.Context(), data, decode.Options{
		MaxBytes:     limit,
		TicksPerBeat: s.cfg.Decode.TicksPerBeat,
		Encoding:     s.cfg.Decode.Encoding,
	})
	if err != nil {
		logger.Warnf("%s: %s (%s) failed: %v", id, filepath.Base(header.Filename), humanize.IBytes(uint64(len(data))), err)
		writeError(w, statusFor(err), err)
		return nil, false
	}
	logger.Infof("%s: decoded %s (%s, %s) in %s", id, filepath.Base(header.Filename), score.Format,
		humanize.IBytes(uint64(len(data))), durafmt.Parse(time.Since(start)).LimitFirstN(2))
	return score, true
}

func statusFor(err error) int {
	switch taberr.KindOf(err) {
	case taberr.Malformed, taberr.Unsupported:
		return http.StatusBadRequest
	case taberr.Invariant:
		return http.StatusUnprocessableEntity
	case taberr.TooLarge:
		return http.StatusRequestEntityTooLarge
	case taberr.Canceled:
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	res := model.ErrorResponse{Error: taberr.Reason(err)}
	if kind := taberr.KindOf(err); kind != taberr.KindNone {
		res.Kind = kind.String()
	}
	writeJSON(w, status, res)
}
