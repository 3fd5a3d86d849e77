package common

import (
	"os"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// Rule matches a newly mapped client against class/instance/title
// substrings (§6 Configuration: "rule table"). Monitor == -1 means "the
// monitor the client was mapped on".
type Rule struct {
	Class      string
	Instance   string
	Title      string
	Tags       uint32
	IsFloating bool
	Monitor    int
}

// ColorScheme holds the border/background/foreground triple used by the
// bar and by client border painting (§4.6, §6).
type ColorScheme struct {
	Border     string
	Background string
	Foreground string
}

// configData is the subset of Config that may be overlaid from a TOML
// file at startup (NEW, ambient config-file layer). Bindings and layout
// arrange functions are never data — they stay compiled in.
type configData struct {
	BorderWidth      *int      `toml:"border_width"`
	SnapDistance     *int      `toml:"snap_distance"`
	ShowBar          *bool     `toml:"show_bar"`
	TopBar           *bool     `toml:"top_bar"`
	Fonts            *[]string `toml:"fonts"`
	MFact            *float64  `toml:"mfact"`
	NMaster          *int      `toml:"nmaster"`
	ResizeHints      *bool     `toml:"resize_hints"`
	LockFullscreen   *bool     `toml:"lock_fullscreen"`
	Tags             *[]string `toml:"tags"`
	Terminal         *[]string `toml:"terminal"`
	Dmenu            *[]string `toml:"dmenu"`
	WindowIgnore     *[][2]string
}

// Config is the build-time configuration singleton (§6). Its zero value is
// never used directly; call LoadConfig once at startup.
var Config = defaultConfig()

const MaxTags = 31

func defaultConfig() *configStruct {
	return &configStruct{
		BorderWidth:  1,
		SnapDistance: 32,
		ShowBar:      true,
		TopBar:       true,
		Fonts:        []string{"monospace:size=10"},
		Tags:         []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		NormalScheme: ColorScheme{Border: "#444444", Background: "#222222", Foreground: "#bbbbbb"},
		SelScheme:    ColorScheme{Border: "#e8a3c0", Background: "#005577", Foreground: "#eeeeee"},
		LayoutSymbols: []string{"[]=", "[M]", "><>"},
		MFact:         0.55,
		NMaster:       1,
		ResizeHints:   false,
		LockFullscreen: true,
		Rules: []Rule{
			{Class: "Gimp", IsFloating: true, Monitor: -1},
			{Class: "Firefox", Tags: 1 << 8, Monitor: -1},
		},
		WindowIgnore: [][2]string{},
		Terminal:     []string{"st"},
		Dmenu:        []string{"dmenu_run"},
	}
}

// configStruct is the concrete type behind Config; split from Config so
// defaultConfig can return a fully literal table (the dwm config.h
// equivalent) while LoadConfig can overlay a subset from disk.
type configStruct struct {
	BorderWidth    int
	SnapDistance   int
	ShowBar        bool
	TopBar         bool
	Fonts          []string
	Tags           []string
	NormalScheme   ColorScheme
	SelScheme      ColorScheme
	LayoutSymbols  []string
	MFact          float64
	NMaster        int
	ResizeHints    bool
	LockFullscreen bool
	Rules          []Rule
	WindowIgnore   [][2]string
	Terminal       []string
	Dmenu          []string
}

// LoadConfig overlays an optional TOML file (NEW ambient config layer) on
// top of the compiled-in defaults. Missing file is not an error (§7.5:
// treated as absent); a malformed file is logged and ignored, since no
// Config field is load-bearing enough to justify a fatal startup error
// (the compiled-in table always yields a usable fallback).
func LoadConfig(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug("No config file found, using compiled-in defaults [", path, "]")
		return
	}

	var data configData
	if _, err := toml.DecodeFile(path, &data); err != nil {
		log.Warn("Error parsing config file, using compiled-in defaults [", err, "]")
		return
	}

	if data.BorderWidth != nil {
		Config.BorderWidth = *data.BorderWidth
	}
	if data.SnapDistance != nil {
		Config.SnapDistance = *data.SnapDistance
	}
	if data.ShowBar != nil {
		Config.ShowBar = *data.ShowBar
	}
	if data.TopBar != nil {
		Config.TopBar = *data.TopBar
	}
	if data.Fonts != nil {
		Config.Fonts = *data.Fonts
	}
	if data.MFact != nil {
		Config.MFact = *data.MFact
	}
	if data.NMaster != nil {
		Config.NMaster = *data.NMaster
	}
	if data.ResizeHints != nil {
		Config.ResizeHints = *data.ResizeHints
	}
	if data.LockFullscreen != nil {
		Config.LockFullscreen = *data.LockFullscreen
	}
	if data.Tags != nil {
		if len(*data.Tags) > MaxTags {
			log.Warn("Too many tags in config file, truncating to ", MaxTags)
			*data.Tags = (*data.Tags)[:MaxTags]
		}
		Config.Tags = *data.Tags
	}
	if data.Terminal != nil {
		Config.Terminal = *data.Terminal
	}
	if data.Dmenu != nil {
		Config.Dmenu = *data.Dmenu
	}
	if data.WindowIgnore != nil {
		Config.WindowIgnore = *data.WindowIgnore
	}

	log.Info("Loaded config overlay [", path, "]")
}

// TagMask returns the bitmask covering every configured tag.
func TagMask() uint32 {
	return uint32(1)<<uint(len(Config.Tags)) - 1
}
