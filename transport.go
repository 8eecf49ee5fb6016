package uci

import "github.com/wagiedev/uci-engine-go/internal/config"

// Transport defines the line-oriented channel to an engine.
// Implement this to drive an Engine over something other than a local
// subprocess, or to script engine replies in tests.
//
// The default implementation spawns the engine as a subprocess.
// Custom transports can be injected via WithTransport.
type Transport = config.Transport
