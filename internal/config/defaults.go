package config

import (
	"runtime"
	"time"
)

const (
	DefaultDataServiceHTTP = "127.0.0.1:4133"
	DefaultReadinessDelay  = time.Second
)

// GetDefaultConfig returns the layout of a PocketBase + Node project.
// Paths are relative to the project root.
func GetDefaultConfig() DevrunnerConfig {
	binary := "db/pocketbase"
	if runtime.GOOS == "windows" {
		binary += ".exe"
	}

	return DevrunnerConfig{
		RequiredTools: []string{"pnpm", "pnpx", "node"},
		WaitPolicy:    "fail-fast",
		DataService: DataServiceConfig{
			Binary:  binary,
			DataDir: "db/pb_data",
			HTTP:    DefaultDataServiceHTTP,
		},
		Typegen: TypegenConfig{
			Tool:    "pnpx",
			Package: "pocketbase-typegen",
			DB:      "db/pb_data/data.db",
			Out:     "src/types/pocketbase-types.d.ts",
		},
		Build: BuildConfig{
			Tool: "pnpm",
			Args: []string{"run", "build"},
		},
		AppServer: AppServerConfig{
			Runtime: "node",
			Entry:   "dist/main.mjs",
		},
		Readiness: ReadinessConfig{
			Mode:            ReadinessDelay,
			Delay:           ptr(DefaultReadinessDelay),
			MaxAttempts:     10,
			InitialInterval: 100 * time.Millisecond,
		},
	}
}

func ptr[T any](v T) *T { return &v }
