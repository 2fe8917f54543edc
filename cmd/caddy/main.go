package main

import (
	caddycmd "github.com/caddyserver/caddy/v2/cmd"

	_ "github.com/caddyserver/caddy/v2/modules/standard"

	_ "github.com/imgk/caddy-cstring/admin"
	_ "github.com/imgk/caddy-cstring/app"
)

func main() {
	caddycmd.Main()
}
