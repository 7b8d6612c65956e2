package form2

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// DefaultFont is the font used when a requested font is not registered.
const DefaultFont = "gobold"

type fontEntry struct {
	ttf  []byte
	once sync.Once
	font *sfnt.Font
	err  error
}

var fonts = map[string]*fontEntry{
	"gobold":       {ttf: gobold.TTF},
	"gobolditalic": {ttf: gobolditalic.TTF},
	"goitalic":     {ttf: goitalic.TTF},
	"gomedium":     {ttf: gomedium.TTF},
	"gomono":       {ttf: gomono.TTF},
	"gomonobold":   {ttf: gomonobold.TTF},
	"goregular":    {ttf: goregular.TTF},
}

// Font is a parsed TrueType font. It is safe for concurrent use.
type Font struct {
	name string
	f    *sfnt.Font
}

// Name returns the registry name of the font.
func (f *Font) Name() string { return f.name }

// LookupFont returns the registered font for name. Names are matched
// ignoring case and spaces, so "Go Bold" finds "gobold". Unknown names
// (e.g. "Arial") resolve to DefaultFont and ok is false.
func LookupFont(name string) (font *Font, ok bool, err error) {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	e, ok := fonts[key]
	if !ok {
		key = DefaultFont
		e = fonts[key]
	}
	e.once.Do(func() {
		e.font, e.err = sfnt.Parse(e.ttf)
	})
	if e.err != nil {
		return nil, ok, e.err
	}
	return &Font{name: key, f: e.font}, ok, nil
}

// FontNames returns the registered font names.
func FontNames() []string {
	names := make([]string, 0, len(fonts))
	for k := range fonts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
