package runtime

import (
	"time"

	"github.com/pakbuypro/title-gateway/internal/cache"
	"github.com/pakbuypro/title-gateway/internal/llm"
)

// Runtime carries the process-wide state the health endpoints report on.
type Runtime struct {
	Started        time.Time
	PatternsLoaded bool
	// AIAvailable is the result of the startup ping, mirroring the
	// "ai_available" flag of the health payload.
	AIAvailable bool
	LLM         llm.Client
	Cache       *cache.LRU
}
