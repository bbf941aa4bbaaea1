package mcp

import (
	"context"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/duelx/internal/game"
)

// activeSession is the singleton duel session (one per stdio process).
// MCP hosts may dispatch tool calls concurrently, so all access goes
// through sessionMu.
var (
	sessionMu       sync.Mutex
	sessionStarting bool
	activeSession   *DuelSession
)

// currentSession returns the running session, or nil.
func currentSession() *DuelSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}

// claimSessionSlot reserves the singleton slot so only one start_duel
// can proceed. The slot stays reserved while the new session waits for
// the human opponent to connect.
func claimSessionSlot() bool {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession != nil || sessionStarting {
		return false
	}
	sessionStarting = true
	return true
}

// publishSession installs the started session, or releases the slot
// again when called with nil after a failed start.
func publishSession(sess *DuelSession) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	sessionStarting = false
	activeSession = sess
}

// settingsFile is the path to the house-rules YAML, set by main.
var settingsFile string

// port is the TCP port for the human opponent connection, set by main.
var port string

// SetSettingsFile sets the path to the settings YAML file.
func SetSettingsFile(path string) {
	settingsFile = path
}

// SetPort sets the TCP port for the human opponent connection.
func SetPort(p string) {
	port = p
}

// RegisterTools adds all duel tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startDuelTool(), handleStartDuel)
	s.AddTool(duelStatusTool(), handleDuelStatus)
	s.AddTool(declareStancesTool(), handleDeclareStances)
	s.AddTool(switchStanceTool(), handleSwitchStance)
	s.AddTool(passSwitchTool(), handlePassSwitch)
	s.AddTool(pickStanceTool(), handlePickStance)
	s.AddTool(setModifierTool(), handleSetModifier)
	s.AddTool(cancelDuelTool(), handleCancelDuel)
}

// --- Tool definitions ---

func startDuelTool() mcp.Tool {
	return mcp.NewTool("start_duel",
		mcp.WithDescription("Challenge a human opponent to a stance duel. The human connects via "+
			"`duelx join --addr localhost:<port> --name NAME` in a separate terminal; this call blocks until they do. "+
			"You are the challenger; the human must then accept before round 1 begins. "+
			"Stances sit on a cycle (Bagr, Radae, Darda, Tigr, Riposje, Tortad): being one or two steps behind the "+
			"opponent's pick gives you advantage (2d6 keep higher), one or two ahead gives disadvantage (2d6 keep lower)."),
		mcp.WithString("name", mcp.Description("Your participant name (default 'agent')")),
		mcp.WithNumber("best_of", mcp.Description("Rounds format: 3, 5, or 7 (default from settings)")),
	)
}

func duelStatusTool() mcp.Tool {
	return mcp.NewTool("duel_status",
		mcp.WithDescription("Get the current match state from your seat: scores, phase, declarations (once revealed), "+
			"your own committed pick, pending participants, and the full round history. Read-only."),
	)
}

func declareStancesTool() mcp.Tool {
	return mcp.NewTool("declare_stances",
		mcp.WithDescription("Declare your stance options for the round: two distinct stances (three with the "+
			"triple-stance privilege). Hidden until both sides have declared; you may re-declare until then."),
		mcp.WithString("stances", mcp.Required(), mcp.Description("Space-separated stance names, e.g. 'Bagr Tigr'")),
	)
}

func switchStanceTool() mcp.Tool {
	return mcp.NewTool("switch_stance",
		mcp.WithDescription("Replace one of your revealed stances with a new one (bait-switch matches only, once per round)."),
		mcp.WithString("old", mcp.Required(), mcp.Description("The declared stance to give up")),
		mcp.WithString("new", mcp.Required(), mcp.Description("The stance to take instead")),
	)
}

func passSwitchTool() mcp.Tool {
	return mcp.NewTool("pass_switch",
		mcp.WithDescription("Decline your bait-switch for this round and keep the declared stances."),
	)
}

func pickStanceTool() mcp.Tool {
	return mcp.NewTool("pick_stance",
		mcp.WithDescription("Secretly commit one of your declared stances. The round resolves as soon as both sides have picked."),
		mcp.WithString("stance", mcp.Required(), mcp.Description("One of your declared stances")),
	)
}

func setModifierTool() mcp.Tool {
	return mcp.NewTool("set_modifier",
		mcp.WithDescription("As the table runner, grant a participant a roll modifier in [-3,+3]. Round-scoped "+
			"modifiers expire when the round resolves; match-scoped ones persist. Zero removes the entry. "+
			"Allowed only once both sides have declared."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Participant name the modifier applies to")),
		mcp.WithString("scope", mcp.Required(), mcp.Description("'round' or 'match'")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Modifier value from -3 to +3; 0 removes it")),
	)
}

func cancelDuelTool() mcp.Tool {
	return mcp.NewTool("cancel_duel",
		mcp.WithDescription("Force-end the current match. The round history is kept for display."),
	)
}

// --- Tool handlers ---

func handleStartDuel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "agent")
	bestOf := request.GetInt("best_of", 0)
	if bestOf != 0 && bestOf != 3 && bestOf != 5 && bestOf != 7 {
		return mcp.NewToolResultError("best_of must be 3, 5, or 7"), nil
	}

	if !claimSessionSlot() {
		return mcp.NewToolResultError("A duel is already running. Only one duel at a time is supported."), nil
	}

	sess, err := NewDuelSession(settingsFile, name, port, bestOf)
	if err != nil {
		publishSession(nil)
		return mcp.NewToolResultErrorf("Failed to start duel: %v", err), nil
	}
	publishSession(sess)

	resp := sess.respond()
	resp.Port = port
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleDuelStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

func handleDeclareStances(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}

	var stances []game.Stance
	for _, name := range strings.Fields(request.GetString("stances", "")) {
		s, err := game.ParseStance(name)
		if err != nil {
			return mcp.NewToolResultErrorf("%v", err), nil
		}
		stances = append(stances, s)
	}
	if err := sess.match.Declare(sess.agent, stances...); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

func handleSwitchStance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}

	old, err := game.ParseStance(request.GetString("old", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	repl, err := game.ParseStance(request.GetString("new", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	if err := sess.match.Switch(sess.agent, old, repl); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

func handlePassSwitch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}
	if err := sess.match.PassSwitch(sess.agent); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

func handlePickStance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}

	s, err := game.ParseStance(request.GetString("stance", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	if _, err := sess.match.Pick(sess.agent, s); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

func handleSetModifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}

	scope, ok := game.ParseScope(request.GetString("scope", ""))
	if !ok {
		return mcp.NewToolResultError("scope must be 'round' or 'match'"), nil
	}
	target := request.GetString("target", "")
	value := request.GetInt("value", 0)
	if err := sess.match.SetModifier(target, scope, value); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}

func handleCancelDuel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No duel is running. Use start_duel first."), nil
	}
	if err := sess.match.Cancel(); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.respond())), nil
}
