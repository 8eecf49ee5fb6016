//go:build ignore

// Command fake-engine speaks just enough UCI for the session tests.
//
// "go depth N" searches synchronously for N <= 20, searches until "stop"
// for larger N, and crashes with exit status 3 for N = 66.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	out := bufio.NewWriter(os.Stdout)

	say := func(format string, args ...any) {
		fmt.Fprintf(out, format+"\n", args...)
		out.Flush()
	}

	searching := false

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "uci":
			say("id name FakeEngine 2.0")
			say("id author Session Tests")
			say("option name Hash type spin default 16 min 1 max 33554432")
			say("option name Clear Hash type button")
			say("uciok")
		case "isready":
			say("readyok")
		case "go":
			depth := 10
			if len(fields) == 3 && fields[1] == "depth" {
				depth, _ = strconv.Atoi(fields[2])
			}

			switch {
			case depth == 66:
				say("info depth 1 score cp 5 pv e2e4")
				fmt.Fprintln(os.Stderr, "fake-engine: segmentation fault")
				os.Exit(3)
			case depth > 20:
				say("info depth 1 seldepth 1 score cp 12 nodes 100 nps 1000 time 1 pv d2d4")
				say("info string searching until stop")

				searching = true
			default:
				for d := 1; d <= depth; d++ {
					say("info depth %d seldepth %d multipv 1 score cp %d nodes %d nps 100000 time %d pv e2e4 e7e5", d, d+2, 10*d, 1000*d, d)
				}

				say("bestmove e2e4 ponder e7e5")
			}
		case "stop":
			if searching {
				searching = false

				say("bestmove d2d4")
			}
		case "quit":
			return
		}
	}
}
