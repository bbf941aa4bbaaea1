package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/duelx/internal/game"
)

// StanceInfo is the JSON representation of one stance for /api/stances,
// including its full relationship row so a UI can render the wheel
// without reimplementing the cycle math.
type StanceInfo struct {
	Name      string            `json:"name"`
	Index     int               `json:"index"`
	Beats     []string          `json:"beats"`    // stances this one has advantage over
	LosesTo   []string          `json:"loses_to"` // stances with advantage over this one
	Opposite  string            `json:"opposite"`
	Adjacent  []string          `json:"adjacent"`
	Relations map[string]string `json:"relations"` // stance name -> relationship from this side
}

// RulesInfo describes the house rules served at /api/rules.
type RulesInfo struct {
	DefaultBestOf int      `json:"default_best_of"`
	NoRepeat      bool     `json:"no_repeat"`
	AdjacencyMod  bool     `json:"adjacency_mod"`
	BaitSwitch    bool     `json:"bait_switch"`
	Moderators    []string `json:"moderators,omitempty"`
	DieSides      int      `json:"die_sides"`
	ModifierMin   int      `json:"modifier_min"`
	ModifierMax   int      `json:"modifier_max"`
}

// Server is the duelx web bridge: stance/rules reference endpoints plus
// a WebSocket relay that lets a browser speak the TCP duel protocol.
type Server struct {
	settingsFile string
	mux          *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(settingsFile string) *Server {
	s := &Server{
		settingsFile: settingsFile,
		mux:          http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/stances", s.handleStances)
	s.mux.HandleFunc("GET /api/rules", s.handleRules)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleStances(w http.ResponseWriter, r *http.Request) {
	var stances []StanceInfo
	for i, a := range game.AllStances {
		si := StanceInfo{
			Name:      a.String(),
			Index:     i,
			Relations: make(map[string]string),
		}
		for _, b := range game.AllStances {
			if a == b {
				continue
			}
			rel := game.RelationshipOf(a, b)
			si.Relations[b.String()] = rel.String()
			switch rel {
			case game.RelAdvantage:
				si.Beats = append(si.Beats, b.String())
			case game.RelDisadvantage:
				si.LosesTo = append(si.LosesTo, b.String())
			}
			switch game.AdjacencyOf(a, b) {
			case game.AdjacencyAdjacent:
				si.Adjacent = append(si.Adjacent, b.String())
			case game.AdjacencyOpposite:
				si.Opposite = b.String()
			}
		}
		stances = append(stances, si)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stances)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	settings, err := game.LoadSettings(s.settingsFile)
	if err != nil {
		http.Error(w, "could not load settings", http.StatusInternalServerError)
		return
	}
	info := RulesInfo{
		DefaultBestOf: settings.DefaultBestOf,
		NoRepeat:      settings.NoRepeat,
		AdjacencyMod:  settings.AdjacencyMod,
		BaitSwitch:    settings.BaitSwitch,
		Moderators:    settings.Moderators,
		DieSides:      game.DieSides,
		ModifierMin:   game.ModifierMin,
		ModifierMax:   game.ModifierMax,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from the browser.
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		log.Printf("WebSocket read connect: %v", err)
		return
	}

	var connectMsg struct {
		Type string `json:"type"`
		Addr string `json:"addr"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open a TCP connection to the duel server.
	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":  "error",
			"error": fmt.Sprintf("Could not connect to duel server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send the join handshake over TCP.
	joinMsg, _ := json.Marshal(map[string]string{
		"type": "join",
		"name": connectMsg.Name,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		log.Printf("TCP write join: %v", err)
		return
	}

	done := make(chan struct{})

	// TCP -> WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					log.Printf("TCP read error: %v", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
	}()

	// WebSocket -> TCP (browser commands to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				log.Printf("TCP write error: %v", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "duel ended")
}

// ServeHTTP makes the server mountable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
