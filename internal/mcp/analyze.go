package mcp

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/uci-engine-go/internal/errors"
	"github.com/wagiedev/uci-engine-go/internal/protocol"
	"github.com/wagiedev/uci-engine-go/internal/session"
)

// AnalyzeToolName is the name the analysis tool is registered under.
const AnalyzeToolName = "analyze_position"

// MaxDepth caps the depth a tool caller may request.
const MaxDepth = 60

// Analyzer runs one job to completion.
type Analyzer interface {
	Analyze(ctx context.Context, job session.Job) (*session.Result, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, job session.Job) (*session.Result, error)

// Analyze implements Analyzer.
func (f AnalyzerFunc) Analyze(ctx context.Context, job session.Job) (*session.Result, error) {
	return f(ctx, job)
}

type analyzeArgs struct {
	FEN   string   `json:"fen"`
	Moves []string `json:"moves"`
	Depth int      `json:"depth"`
}

type analyzeTool struct {
	log      *slog.Logger
	analyzer Analyzer
}

func (a *analyzeTool) definition() *mcp.Tool {
	minDepth, maxDepth := 1.0, float64(MaxDepth)

	return NewTool(AnalyzeToolName,
		"Search a chess position with the UCI engine and report the best move, evaluation and principal variation.",
		&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"fen": {
					Type:        "string",
					Description: "Starting position in FEN. Omit for the standard starting position.",
				},
				"moves": {
					Type:        "array",
					Description: "Moves in long algebraic notation played from the starting position, e.g. e2e4.",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"depth": {
					Type:        "integer",
					Description: "Search depth in plies. Defaults to 10.",
					Minimum:     &minDepth,
					Maximum:     &maxDepth,
				},
			},
		},
	)
}

func (a *analyzeTool) handle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args analyzeArgs
	if err := ParseArguments(req, &args); err != nil {
		return ErrorResult(err.Error()), nil
	}

	job, err := args.job()
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	a.log.Debug("Analyzing position", "fen", args.FEN, "moves", len(args.Moves), "depth", job.SearchDepth())

	res, err := a.analyzer.Analyze(ctx, job)

	switch {
	case stderrors.Is(err, errors.ErrBusy):
		return ErrorResult("engine is busy with another analysis, retry shortly"), nil
	case err != nil:
		a.log.Warn("Analysis failed", "error", err)

		return ErrorResult("analysis failed: " + err.Error()), nil
	}

	return TextResult(formatResult(res)), nil
}

func (args analyzeArgs) job() (session.Job, error) {
	job := session.NewJob()

	if fen := strings.TrimSpace(args.FEN); fen != "" {
		if strings.ContainsAny(fen, "\r\n") {
			return job, stderrors.New("fen must be a single line")
		}

		job = job.FEN(fen)
	}

	for _, move := range args.Moves {
		if move == "" || strings.ContainsAny(move, " \t\r\n") {
			return job, fmt.Errorf("invalid move %q", move)
		}
	}

	if len(args.Moves) > 0 {
		job = job.Moves(args.Moves...)
	}

	switch {
	case args.Depth < 0 || args.Depth > MaxDepth:
		return job, fmt.Errorf("depth must be between 1 and %d, got %d", MaxDepth, args.Depth)
	case args.Depth > 0:
		job = job.Depth(uint32(args.Depth))
	}

	return job, nil
}

// formatResult renders a finished search as one "key value" pair per line.
func formatResult(res *session.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "bestmove %s\n", res.Best.Move)

	if res.Best.HasPonder() {
		fmt.Fprintf(&b, "ponder %s\n", res.Best.Ponder)
	}

	if info := res.Last; info != nil {
		fmt.Fprintf(&b, "score %s\n", info.Score)
		fmt.Fprintf(&b, "depth %d\n", info.Depth)

		if info.WDL != (protocol.WDL{}) {
			fmt.Fprintf(&b, "wdl %d %d %d\n", info.WDL.Win, info.WDL.Draw, info.WDL.Loss)
		}

		if len(info.PV) > 0 {
			fmt.Fprintf(&b, "pv %s\n", strings.Join(info.PV, " "))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}
