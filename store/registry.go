package store

import "github.com/jezek/xgb/xproto"

// byWindow indexes every managed client by its X window id for O(1)
// event-to-client lookup in the dispatcher (§4.1).
var byWindow = map[xproto.Window]*Client{}

// RegisterClient makes c findable by ClientForWindow; called once from
// manage() when a client is created.
func RegisterClient(c *Client) { byWindow[c.Win] = c }

// UnregisterClient removes c from the lookup table; called from
// unmanage().
func UnregisterClient(c *Client) { delete(byWindow, c.Win) }

// ClientForWindow returns the managed client for win, or nil if win isn't
// (or is no longer) managed.
func ClientForWindow(win xproto.Window) *Client { return byWindow[win] }
