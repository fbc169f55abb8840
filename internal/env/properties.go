package env

import (
	"strconv"
	"strings"

	"github.com/vovakirdan/tilelab/internal/pushbox/sprites"
)

// property is one leaf of the property tree.
type property struct {
	key   string
	read  func() string
	write func(value string) PropertyResult
}

func (p property) attributes() PropertyAttributes {
	var a PropertyAttributes
	if p.read != nil {
		a |= PropertyReadable
	}
	if p.write != nil {
		a |= PropertyWritable
	}
	return a
}

func (e *Env) properties() []property {
	levelInt := func(f func() int) func() string {
		return func() string {
			if e.level == nil {
				return "0"
			}
			return strconv.Itoa(f())
		}
	}
	return []property{
		{key: "episode", read: func() string { return strconv.Itoa(e.episode) }},
		{key: "seed", read: func() string { return strconv.FormatInt(e.seed, 10) }},
		{key: "steps", read: func() string { return strconv.Itoa(e.steps) }},
		{key: "score", read: func() string { return strconv.FormatFloat(e.score, 'g', -1, 64) }},
		{key: "maxSteps", read: func() string { return strconv.Itoa(e.maxSteps) }, write: e.writeMaxSteps},
		{key: "level.width", read: levelInt(func() int { return e.level.Width() })},
		{key: "level.height", read: levelInt(func() int { return e.level.Height() })},
		{key: "level.numBoxes", read: levelInt(func() int { return e.level.NumBoxes() })},
		{key: "level.boxesOnTarget", read: levelInt(func() int { return e.level.BoxesOnTarget() })},
		{key: "level.layout", read: func() string {
			if e.level == nil {
				return ""
			}
			return e.level.String()
		}},
		{key: "renderer.spriteSize", read: func() string { return strconv.Itoa(e.render.SpriteSize) }, write: e.writeSpriteSize},
	}
}

func (e *Env) writeMaxSteps(value string) PropertyResult {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return PropertyInvalidArgument
	}
	e.maxSteps = n
	return PropertySuccess
}

// writeSpriteSize rebuilds the sprite sheet. The RGB shape changes from the
// next observation on.
func (e *Env) writeSpriteSize(value string) PropertyResult {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return PropertyInvalidArgument
	}
	if e.state == created {
		e.render.SpriteSize = n
		return PropertySuccess
	}
	cfg := e.render
	cfg.SpriteSize = n
	sheet, err := sprites.NewSheet(cfg)
	if err != nil {
		return PropertyInvalidArgument
	}
	if e.level != nil {
		view, err := sheet.NewView(e.level.Width(), e.level.Height())
		if err != nil {
			return PropertyInvalidArgument
		}
		e.view = view
	}
	e.render = cfg
	e.sheet = sheet
	return PropertySuccess
}

func (e *Env) lookupProperty(key string) (property, bool) {
	for _, p := range e.props {
		if p.key == key {
			return p, true
		}
	}
	return property{}, false
}

// isBranch reports whether key is an inner node of the tree. The empty key
// is the root.
func (e *Env) isBranch(key string) bool {
	if key == "" {
		return true
	}
	for _, p := range e.props {
		if strings.HasPrefix(p.key, key+".") {
			return true
		}
	}
	return false
}

// ReadProperty returns the value of a leaf property.
func (e *Env) ReadProperty(key string) (string, PropertyResult) {
	p, ok := e.lookupProperty(key)
	if !ok {
		if e.isBranch(key) {
			return "", PropertyPermissionDenied
		}
		return "", PropertyNotFound
	}
	if p.read == nil {
		return "", PropertyPermissionDenied
	}
	return p.read(), PropertySuccess
}

// WriteProperty sets a writable leaf property.
func (e *Env) WriteProperty(key, value string) PropertyResult {
	p, ok := e.lookupProperty(key)
	if !ok {
		if e.isBranch(key) {
			return PropertyPermissionDenied
		}
		return PropertyNotFound
	}
	if p.write == nil {
		return PropertyPermissionDenied
	}
	return p.write(value)
}

// ListProperty calls fn for each direct child of key with its full key and
// attributes. The empty key lists the root.
func (e *Env) ListProperty(key string, fn func(key string, attrs PropertyAttributes)) PropertyResult {
	if !e.isBranch(key) {
		if _, ok := e.lookupProperty(key); ok {
			return PropertyPermissionDenied
		}
		return PropertyNotFound
	}

	prefix := ""
	if key != "" {
		prefix = key + "."
	}
	seen := map[string]bool{}
	for _, p := range e.props {
		rest, ok := strings.CutPrefix(p.key, prefix)
		if !ok {
			continue
		}
		child, _, nested := strings.Cut(rest, ".")
		if seen[child] {
			continue
		}
		seen[child] = true
		if nested {
			fn(prefix+child, PropertyListable)
		} else {
			fn(p.key, p.attributes())
		}
	}
	return PropertySuccess
}
