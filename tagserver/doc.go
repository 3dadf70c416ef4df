// Package tagserver answers get-tag and set-tag frames on behalf of a data cache.
//
// Every accepted TCP connection is served by its own goroutine holding one
// transport.Conn and one tagcache.Cache handle. A connection handles one request at
// a time: receive, dispatch against the cache, reply in place, repeat. A receive
// failure or a frame carrying an unsupported protocol version closes the
// connection; request-level failures are reported in the reply's exception code.
//
// Example:
//
//	store := tagcache.NewStore("plc1")
//	_ = store.Define("Temp", codes.WidthFloat32)
//
//	cfg, _ := tagserver.NewConfig(tagserver.WithTimeout(5 * time.Second))
//	srv, _ := tagserver.New(store.Connect, "plc1", cfg)
//	go srv.ListenAndServe(ctx, ":5020")
//	defer srv.Close()
package tagserver
