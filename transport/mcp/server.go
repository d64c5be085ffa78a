package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fourline/relay/game/broker"
	"github.com/fourline/relay/game/engine"
)

// Server exposes the relay to MCP clients. Tools are gated by the same
// tokens as websocket clients: watching requires a watch token, playing
// requires a join token and always plays the player 2 seat.
type Server struct {
	broker    *broker.Broker
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server in front of b.
func NewServer(b *broker.Broker) *Server {
	s := &Server{broker: b}
	s.initMCPServer()
	return s
}

// MCPServer returns the underlying server for mounting over HTTP or stdio.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Connect Four Relay",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Connect Four Relay - MCP Interface

Sessions are created by human hosts over the websocket transport; the host
shares a join token (to play) or a watch token (to spectate).

AVAILABLE TOOLS:
- list_games: Summaries of live games (no tokens are revealed)
- watch_game: Show the board and move history for a watch token
- play_move: Drop a disc as player 2 using a join token

Player 1 is always the hosting connection, so play_move always plays the
player 2 seat. Moves are broadcast to every connected client in real time.`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List live games with anonymized summaries",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListGames)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "watch_game",
		Description: "Show the board and move history of the game a watch token grants access to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"watch": map[string]interface{}{
					"type":        "string",
					"description": "Watch token received from the game's host",
				},
			},
			Required: []string{"watch"},
		},
	}, s.handleWatchGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "play_move",
		Description: "Drop a disc as player 2 in the game a join token grants access to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"join": map[string]interface{}{
					"type":        "string",
					"description": "Join token received from the game's host",
				},
				"column": map[string]interface{}{
					"type":        "number",
					"description": "Column to drop the disc into (0-6)",
				},
			},
			Required: []string{"join", "column"},
		},
	}, s.handlePlayMove)
}

func (s *Server) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions := s.broker.Sessions()

	result := fmt.Sprintf("Live games (%d):\n\n", len(sessions))
	for i, sess := range sessions {
		moves, winner, finished := sess.Snapshot()
		status := "in progress"
		if finished {
			status = fmt.Sprintf("won by player %d", winner)
		}
		result += fmt.Sprintf("- game %d: %d moves, %d connections, %s (created %s)\n",
			i+1, len(moves), sess.ConnCount(), status,
			sess.CreatedAt().Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleWatchGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	token, _ := args["watch"].(string)

	sess, ok := s.broker.ResolveWatch(token)
	if !ok {
		return mcp.NewToolResultError("Game not found."), nil
	}

	moves, winner, finished := sess.Snapshot()

	var sb strings.Builder
	sb.WriteString(renderBoard(moves))
	sb.WriteString(fmt.Sprintf("\nMoves (%d):\n", len(moves)))
	for i, move := range moves {
		sb.WriteString(fmt.Sprintf("%2d. player %d -> column %d (row %d)\n",
			i+1, move.Player, move.Column, move.Row))
	}
	if finished {
		sb.WriteString(fmt.Sprintf("\nPlayer %d has won.\n", winner))
	} else {
		sb.WriteString(fmt.Sprintf("\nPlayer %d to move.\n", nextPlayer(moves)))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handlePlayMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	token, _ := args["join"].(string)
	column, colOK := args["column"].(float64)
	if !colOK {
		return mcp.NewToolResultError("column must be a number"), nil
	}

	sess, ok := s.broker.ResolveJoin(token)
	if !ok {
		return mcp.NewToolResultError("Game not found."), nil
	}

	row, err := sess.Apply(engine.Player2, int(column))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Played column %d; the disc landed on row %d.\n", int(column), row)
	if _, winner, finished := sess.Snapshot(); finished {
		result += fmt.Sprintf("Player %d has won the game.\n", winner)
	}

	return mcp.NewToolResultText(result), nil
}

// renderBoard draws the board implied by the move history, row 5 at the
// top so discs visually rest at the bottom.
func renderBoard(moves []engine.Move) string {
	var grid [engine.Columns][engine.Rows]engine.Player
	for _, move := range moves {
		grid[move.Column][move.Row] = move.Player
	}

	var sb strings.Builder
	for row := engine.Rows - 1; row >= 0; row-- {
		for column := 0; column < engine.Columns; column++ {
			switch grid[column][row] {
			case engine.Player1:
				sb.WriteString("X ")
			case engine.Player2:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("0 1 2 3 4 5 6\n")
	return sb.String()
}

// nextPlayer returns whose turn it is given the move count.
func nextPlayer(moves []engine.Move) engine.Player {
	if len(moves)%2 == 0 {
		return engine.Player1
	}
	return engine.Player2
}
