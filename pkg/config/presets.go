package config

import "time"

// Preset returns the fully-resolved defaults for a strategy. Unknown
// strategies fall back to the balanced profile; Validate flags them.
func Preset(strategy Strategy) Config {
	switch strategy {
	case StrategyFast:
		return Config{
			Strategy:             StrategyFast,
			DefaultTTL:           5 * time.Minute,
			MaxConnections:       5,
			ConnectTimeout:       2 * time.Second,
			CompressionThreshold: 8192,
			CompressionLevel:     1,
			MemoryCacheSize:      1000,
		}
	case StrategyRobust:
		return Config{
			Strategy:             StrategyRobust,
			DefaultTTL:           24 * time.Hour,
			MaxConnections:       50,
			ConnectTimeout:       10 * time.Second,
			CompressionThreshold: 2048,
			CompressionLevel:     9,
			MemoryCacheSize:      10000,
		}
	case StrategyAIOptimized:
		return Config{
			Strategy:             StrategyAIOptimized,
			DefaultTTL:           time.Hour,
			MaxConnections:       20,
			ConnectTimeout:       5 * time.Second,
			CompressionThreshold: 4096,
			CompressionLevel:     6,
			MemoryCacheSize:      5000,
			EnableAIFeatures:     true,
			OperationTTLs: map[string]time.Duration{
				"summarize": 24 * time.Hour,
				"qa":        2 * time.Hour,
				"sentiment": 12 * time.Hour,
				"keypoints": 24 * time.Hour,
			},
		}
	default:
		cfg := Config{
			Strategy:             StrategyBalanced,
			DefaultTTL:           time.Hour,
			MaxConnections:       10,
			ConnectTimeout:       5 * time.Second,
			CompressionThreshold: 4096,
			CompressionLevel:     6,
			MemoryCacheSize:      5000,
		}
		if strategy != StrategyBalanced {
			// Preserve the requested name so Validate can report it.
			cfg.Strategy = strategy
		}
		return cfg
	}
}
