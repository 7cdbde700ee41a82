package orchestrator

import (
	"maps"
	"net"
	"path/filepath"

	"devrunner/internal/config"
	"devrunner/internal/process"
)

const (
	dataServiceName = "data-service"
	typegenName     = "typegen"
	buildName       = "build"
	appServerName   = "app-server"
)

// DataServiceURL is the URL the application server uses to reach the data
// service bound on addr. Wildcard hosts are reached over loopback.
func DataServiceURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

func (o *Orchestrator) path(rel string) string {
	if rel == "" {
		return o.cfg.Root
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(o.cfg.Root, rel)
}

func (o *Orchestrator) dataServiceSpec() process.LaunchSpec {
	ds := o.cfg.Project.DataService
	args := []string{"serve", "--http", ds.HTTP}
	if ds.DataDir != "" {
		args = append(args, "--dir", o.path(ds.DataDir))
	}
	return process.NewLaunchSpec(dataServiceName, o.path(ds.Binary), args, o.cfg.Root, config.ExpandEnv(ds.Env))
}

func (o *Orchestrator) typegenSpec() process.LaunchSpec {
	tg := o.cfg.Project.Typegen
	args := []string{tg.Package, "--db", o.path(tg.DB), "--out", o.path(tg.Out)}
	return process.NewLaunchSpec(typegenName, o.toolPath(tg.Tool), args, o.cfg.Root, config.ExpandEnv(tg.Env))
}

func (o *Orchestrator) buildSpec() process.LaunchSpec {
	b := o.cfg.Project.Build
	return process.NewLaunchSpec(buildName, o.toolPath(b.Tool), b.Args, o.path(b.Dir), config.ExpandEnv(b.Env))
}

// appServerSpec layers the fixed development overlay over the configured env.
func (o *Orchestrator) appServerSpec() process.LaunchSpec {
	app := o.cfg.Project.AppServer
	env := config.ExpandEnv(app.Env)
	if env == nil {
		env = make(map[string]string, 3)
	}
	maps.Copy(env, map[string]string{
		"NODE_ENV":       "development",
		"POCKETBASE_URL": DataServiceURL(o.cfg.Project.DataService.HTTP),
	})
	if o.cfg.RunID != "" {
		env["DEVRUNNER_RUN_ID"] = o.cfg.RunID
	}
	return process.NewLaunchSpec(appServerName, o.toolPath(app.Runtime), []string{o.path(app.Entry)}, o.path(app.Dir), env)
}
