// Command wm is the entry point: it establishes the X connection, becomes
// the window manager, scans pre-existing windows, and runs the event loop
// until a quit action clears it (§4.1, §4.7 Lifecycle).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil/icccm"

	"github.com/leukipp/wmgo/bar"
	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/events"
	"github.com/leukipp/wmgo/layout"
	"github.com/leukipp/wmgo/store"

	log "github.com/sirupsen/logrus"
)

var version = "dev" // overridden via -ldflags "-X main.version=..."

func main() {
	printVersion := flag.Bool("v", false, "print version information and exit")
	configPath := flag.String("config", "", "path to an optional TOML config overlay")
	verbose := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-v] [-debug] [-config path]\n", os.Args[0])
		os.Exit(1)
	}

	common.Build.Version = version

	if *printVersion {
		fmt.Println(common.Build.Summary())
		os.Exit(0)
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	common.LoadConfig(*configPath)

	if !store.Connected() {
		die("cannot open display")
	}

	reapChildren()

	if err := store.Setup(); err != nil {
		die(err.Error())
	}

	store.DrawBar = bar.Draw
	for m := store.Mons; m != nil; m = m.Next {
		m.Lt = layout.Default()
		m.LtSymbol = m.Lt[0].Symbol
		bar.Create(m)
	}

	events.GrabKeys()

	scan()

	layout.Arrange(nil)
	store.Focus(nil)

	events.Loop()

	teardown()
}

// die reports a startup-impossible failure to stderr and exits nonzero,
// matching §7 "Startup impossible ... Report to stderr and exit; no
// cleanup required."
func die(msg string) {
	fmt.Fprintln(os.Stderr, common.Build.Name+": "+msg)
	os.Exit(1)
}

// reapChildren installs a SIGCHLD handler that repeatedly reaps finished
// children with a non-blocking wait, replacing the C original's signal
// handler with Go's os/signal channel plus syscall.Wait4 (§5 "Suspension
// points": "a SIGCHLD handler is installed once at startup and repeatedly
// reaps finished children with non-blocking wait").
func reapChildren() {
	sigchld := make(chan os.Signal, 1)
	signal.Notify(sigchld, syscall.SIGCHLD)
	go func() {
		for range sigchld {
			for {
				var status syscall.WaitStatus
				pid, err := syscall.Wait4(-1, &status, syscall.WNOHANG, nil)
				if pid <= 0 || err != nil {
					break
				}
			}
		}
	}()
}

// scan adopts pre-existing top-level windows (§6 Persisted state: "None
// on disk. All state is reconstructed on startup ... non-transients
// first, then transients").
func scan() {
	tree, err := xproto.QueryTree(store.X.Conn(), store.Root).Reply()
	if err != nil {
		log.Warn("Error querying window tree: ", err)
		return
	}

	var transients []xproto.Window

	for _, win := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(store.X.Conn(), win).Reply()
		if err != nil || attrs.OverrideRedirect {
			continue
		}
		if !adoptable(win, attrs) {
			continue
		}
		if owner, err := icccm.WmTransientForGet(store.X, win); err == nil && owner != 0 {
			transients = append(transients, win)
			continue
		}
		events.Manage(win)
	}

	for _, win := range transients {
		events.Manage(win)
	}
}

// adoptable reports whether a pre-existing window should be scanned in:
// viewable, or Iconic per WM_STATE (§6: "visible or Iconic").
func adoptable(win xproto.Window, attrs *xproto.GetWindowAttributesReply) bool {
	if attrs.MapState == xproto.MapStateViewable {
		return true
	}
	state, err := icccm.WmStateGet(store.X, win)
	return err == nil && state != nil && state.State == icccm.StateIconic
}

// teardown releases the X connection. Clients are left mapped; a real X
// session teardown happens at logout, not at WM exit (§4.7).
func teardown() {
	if store.X != nil {
		store.X.Conn().Close()
	}
}
