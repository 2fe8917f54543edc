package app

import (
	"github.com/caddyserver/caddy/v2/caddyconfig"
	"github.com/caddyserver/caddy/v2/caddyconfig/caddyfile"
	"github.com/caddyserver/caddy/v2/caddyconfig/httpcaddyfile"
)

func init() {
	httpcaddyfile.RegisterGlobalOption("cstring", parseCaddyfile)
}

/*
	cstring {
		debug
		output stdout | stderr | discard
	}
*/
func parseCaddyfile(d *caddyfile.Dispenser, _ any) (any, error) {
	app := &App{}

	for d.Next() {
		if d.NextArg() {
			return nil, d.ArgErr()
		}
		for d.NextBlock(0) {
			switch subdirective := d.Val(); subdirective {
			case "debug":
				if d.NextArg() {
					return nil, d.ArgErr()
				}
				app.Debug = true
			case "output":
				if !d.NextArg() {
					return nil, d.ArgErr()
				}
				if _, err := openOutput(d.Val()); err != nil {
					return nil, d.Err(err.Error())
				}
				app.Output = d.Val()
				if d.NextArg() {
					return nil, d.ArgErr()
				}
			default:
				return nil, d.Errf("unknown subdirective: %s", subdirective)
			}
		}
	}

	return httpcaddyfile.App{
		Name:  CaddyAppID,
		Value: caddyconfig.JSON(app, nil),
	}, nil
}
