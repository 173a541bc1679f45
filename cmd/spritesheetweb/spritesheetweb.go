// Command spritesheetweb serves sprite sheets for the series directories
// found directly inside -root.
//
//	GET  /sheet/{name}           the sheet, rendered in memory
//	GET  /layout/{name}          frame positions as JSON; ?inline=1 adds a data URL
//	POST /merge/{name}           writes the sheet next to the series; ?index=1 adds the JSON index
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-spritesheet/paths"
	"badc0de.net/pkg/go-spritesheet/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for spritesheetweb")
	root           = flag.String("root", ".", "directory holding one subdirectory per image series")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server (/debug/requests, /debug/events) will listen")
)

func main() {
	flagutil.Parse()

	if !paths.IsDir(*root) {
		glog.Fatalf("-root %q is not a directory", *root)
	}

	if *debugWebServer != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/debug/requests", trace.Traces)
		mux.HandleFunc("/debug/events", trace.Events)
		go func() {
			glog.Errorf("debug server: %v", http.ListenAndServe(*debugWebServer, mux))
		}()
	}

	r := web.NewHandler(*root).Router()

	glog.Infof("serving sheets of %q on %s", *root, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.LoggingHandler(os.Stderr, r)))
}
