// Package config provides configuration management for devrunner.
//
// Configuration is layered. Later sources override earlier ones:
//
//  1. Defaults compiled into the binary (a PocketBase + Node project layout)
//  2. User configuration (~/.config/devrunner/config.yaml)
//  3. Project configuration (<project root>/.devrunner/config.yaml)
//
// Passing --config replaces layers 2 and 3 with a single explicit file.
//
// Scalar fields replace the previous layer when set, lists replace as a
// whole, and env maps merge key by key.
//
// # Example
//
//	requiredTools: [pnpm, pnpx, node]
//	waitPolicy: fail-fast
//	dataService:
//	  binary: db/pocketbase
//	  dataDir: db/pb_data
//	  http: 127.0.0.1:4133
//	typegen:
//	  tool: pnpx
//	  package: pocketbase-typegen
//	  db: db/pb_data/data.db
//	  out: src/types/pocketbase-types.d.ts
//	  onDevStart: true
//	build:
//	  tool: pnpm
//	  args: [run, build]
//	appServer:
//	  runtime: node
//	  entry: dist/main.mjs
//	  env:
//	    LOG_LEVEL: "${LOG_LEVEL}"
//	readiness:
//	  mode: delay        # or "probe"
//	  delay: 1s
//	  maxAttempts: 10
//
// Env values support ${VAR} expansion against the supervisor's environment.
package config
